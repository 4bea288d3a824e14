package main // Entry point package

import (
	"context" // Plumbs the configured broker URL into the publisher closure
	"log"     // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/roadwatch/road-report-service/internal/config"     // Internal config loader
	"github.com/roadwatch/road-report-service/internal/database"   // MySQL connection pool
	"github.com/roadwatch/road-report-service/internal/draft"      // Redis-backed draft/flow stores
	"github.com/roadwatch/road-report-service/internal/geocode"    // Geoapify autocomplete client
	"github.com/roadwatch/road-report-service/internal/handler"    // HTTP handlers
	"github.com/roadwatch/road-report-service/internal/middleware" // Response cache and rate limiting
	"github.com/roadwatch/road-report-service/internal/queue"      // report.submitted events
	"github.com/roadwatch/road-report-service/internal/repository" // DB repositories
	"github.com/roadwatch/road-report-service/internal/router"     // Route registration
	"github.com/roadwatch/road-report-service/internal/service"    // Submission engines
	"github.com/roadwatch/road-report-service/internal/storage"    // Minio media store
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the draft/flow stores, so unlike caching and rate
	// limiting it cannot degrade to a no-op here.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed; draft persistence requires a live server")
	}
	drafts := draft.NewStore(draft.NewRedisKV(rdb))

	media, err := storage.NewMediaStore(cfg.Minio)
	if err != nil {
		log.Fatalf("minio: %v", err)
	}

	// Repositories over the confirmed/unconfirmed table pairs.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	reports := repository.NewReportRepo(db)
	questionnaires := repository.NewQuestionnaireRepo(db)

	publish := func(ctx context.Context, ev queue.ReportSubmittedEvent) error {
		return queue.PublishReportSubmitted(ctx, cfg.AMQP.URL, ev)
	}
	reportSvc := service.NewReportService(profiles, reports, media, drafts, publish)
	qsnSvc := service.NewQuestionnaireService(profiles, reports, questionnaires, drafts)

	// Consume report.submitted events in the background; the consumer
	// reconnects on its own and never takes the API down with it.
	go func() {
		if err := queue.StartReportConsumer(cfg.AMQP.URL); err != nil {
			log.Printf("consumer: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, profiles, drafts), cfg.JWTSecret)
	router.RegisterFlow(e, handler.NewFlowHandler(drafts, profiles), cfg.JWTSecret)
	router.RegisterLocations(e,
		handler.NewLocationHandler(geocode.NewClient(cfg.Geo), cfg.Geo.Debounce),
		cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterReports(e, handler.NewReportHandler(reportSvc, qsnSvc, drafts), cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
