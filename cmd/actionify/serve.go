package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/internal/adapter/handler"
	"github.com/johnquangdev/meeting-analysis/internal/usecase/analysis"
	pkgvalidator "github.com/johnquangdev/meeting-analysis/pkg/validator"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.logger

	log.Info("🔧 Initializing dependencies...")
	d, err := newPipeline(ctx, cfg, log, true)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	store, err := newRunStore(ctx, cfg, log, d.checks)
	if err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	defer store.Close()

	service := analysis.NewService(d.pipeline, store, log, analysis.ServiceOptions{
		Timeout:        cfg.Pipeline.Timeout,
		MaxConcurrency: cfg.Pipeline.MaxConcurrency,
	})

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	// Multipart framing adds a little on top of the file itself.
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxUploadMB+1)))

	log.Info("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg,
		handler.NewAnalysisHandler(service, log, cfg.Server.MaxUploadMB<<20),
		handler.NewEventsHandler(service, log, cfg.Server.AllowedOrigins),
		service,
		d.checks,
	)
	router.Setup(e)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
			zap.String("run_store", cfg.RunStore.Backend),
			zap.String("media_backend", cfg.Storage.Backend),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := service.Shutdown(shutdownCtx); err != nil {
		log.Warn("⚠️  Analysis runs cancelled on shutdown", zap.Error(err))
	}

	log.Info("✅ Server stopped gracefully")
	return nil
}
