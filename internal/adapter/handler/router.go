package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnquangdev/meeting-analysis/pkg/config"
	"github.com/johnquangdev/meeting-analysis/pkg/middleware"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	analysisHandler *Analysis
	eventsHandler   *Events
	runs            middleware.RunGetter
	checks          map[string]HealthChecker
}

// NewRouter creates a new router with all handlers. checks may be nil.
func NewRouter(cfg *config.Config, analysisHandler *Analysis, eventsHandler *Events, runs middleware.RunGetter, checks map[string]HealthChecker) *Router {
	return &Router{
		cfg:             cfg,
		analysisHandler: analysisHandler,
		eventsHandler:   eventsHandler,
		runs:            runs,
		checks:          checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")
	rt.setupAnalysisRoutes(v1)
}

// setupAnalysisRoutes configures analysis run routes
func (rt *Router) setupAnalysisRoutes(g *echo.Group) {
	analyses := g.Group("/analyses")

	if rt.analysisHandler == nil {
		analyses.Any("", rt.notImplemented)
		analyses.Any("/*", rt.notImplemented)
		return
	}

	loadRun := middleware.RequireRun(rt.runs)

	analyses.POST("", rt.analysisHandler.Submit)
	analyses.GET("/:id", rt.analysisHandler.Get, loadRun)
	analyses.GET("/:id/export", rt.analysisHandler.Export, loadRun, middleware.RequireCompletedRun())
	if rt.eventsHandler != nil {
		analyses.GET("/:id/events", rt.eventsHandler.Stream, loadRun)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler",
	})
}

// healthCheck returns health status of the service and its dependencies
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(rt.checks))
	for name, check := range rt.checks {
		if err := check.Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	return c.JSON(status, map[string]interface{}{
		"status":       overall,
		"environment":  env,
		"time":         time.Now().UTC().Format(time.RFC3339),
		"dependencies": deps,
	})
}
