package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/roadwatch/road-report-service/internal/handler"    // import the handlers that implement business logic
	"github.com/roadwatch/road-report-service/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login,
	// refresh.  Registration also writes the profile row.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a Bearer access token (revokes every session)
	// or a refresh_token in the body (revokes that one session).  Both
	// variants also reset the persisted flow and draft slots, so the next
	// session starts the flow from scratch.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  All handlers registered on
	// this group execute the JWTAuth middleware before being invoked.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("USER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterFlow registers the client flow endpoints.  The flow state is
// recomputed from persisted slots on every GET; POSTs feed permission and
// location events into it.
func RegisterFlow(e *echo.Echo, f *handler.FlowHandler, jwtSecret string) {
	g := e.Group("/v1/flow")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "ADMIN"))
	g.GET("", f.Get)
	g.POST("/location-granted", f.Permission)
	g.POST("/location", f.ConfirmLocation)
	g.POST("/edit-location", f.EditLocation)
}

// RegisterLocations registers the autocomplete search endpoint.  The
// optional cache middleware fronts it so identical queries are answered
// without another provider round trip.
func RegisterLocations(e *echo.Echo, l *handler.LocationHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/locations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "ADMIN"))
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/search", l.Search)
}

// RegisterReports registers report submission, the draft slot and the
// questionnaire endpoints.  All of them require a valid access token.
func RegisterReports(e *echo.Echo, r *handler.ReportHandler, jwtSecret string) {
	g := e.Group("/v1/reports")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("USER", "ADMIN"))
	// Multipart submission; overwrites any existing row for the user.
	g.POST("", r.Submit)
	// The single per-user draft slot.
	g.GET("/draft", r.GetDraft)
	g.PUT("/draft", r.PutDraft)
	g.DELETE("/draft", r.DeleteDraft)
	// Fixed questionnaire: definition, submission and the cached answers
	// kept while the email is unconfirmed.
	g.GET("/questionnaire", r.Questions)
	g.POST("/questionnaire", r.SubmitQuestionnaire)
	g.GET("/questionnaire/answers", r.GetAnswers)
}

// RegisterAdmin registers the privileged shim endpoints on the admin
// process's Echo instance.  They are guarded by the shared admin API key,
// not by end-user JWTs.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/api")
	g.Use(a.RequireKey)
	g.POST("/register", a.Register)
	g.POST("/report", a.Report)
}
