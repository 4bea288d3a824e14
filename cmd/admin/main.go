package main // Entry point for the privileged admin shim

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/roadwatch/road-report-service/internal/config"     // Internal config loader
	"github.com/roadwatch/road-report-service/internal/database"   // MySQL connection pool
	"github.com/roadwatch/road-report-service/internal/handler"    // HTTP handlers
	"github.com/roadwatch/road-report-service/internal/repository" // DB repositories
	"github.com/roadwatch/road-report-service/internal/router"     // Route registration
)

// The shim runs as its own process so the privileged credentials and the
// admin API key never load into the public API's environment.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.AdminAPIKey == "" {
		log.Fatal("missing required env var: ADMIN_API_KEY")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	reports := repository.NewReportRepo(db)

	e := echo.New()
	router.RegisterRoutes(e) // Health check
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, users, profiles, reports))

	addr := ":" + cfg.AdminPort
	log.Printf("admin shim listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
