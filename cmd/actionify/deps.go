package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analysis/internal/adapter/handler"
	"github.com/johnquangdev/meeting-analysis/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-analysis/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-analysis/internal/usecase/analysis"
	pkgai "github.com/johnquangdev/meeting-analysis/pkg/ai"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

// deps are the provider clients behind a pipeline.
type deps struct {
	pipeline *analysis.Pipeline
	checks   map[string]handler.HealthChecker
}

// newPipeline wires the providers. Media providers are only built when
// withMedia is set, so text-only runs need no transcription credentials.
func newPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger, withMedia bool) (*deps, error) {
	if err := cfg.RequireCompletion(); err != nil {
		return nil, err
	}

	d := &deps{checks: map[string]handler.HealthChecker{}}
	completer := pkgai.NewCompletionClient(cfg.Completion)

	var (
		uploader    analysis.MediaUploader
		transcriber analysis.Transcriber
	)
	if withMedia {
		if err := cfg.RequireTranscription(); err != nil {
			return nil, err
		}
		asm := pkgai.NewAssemblyAIClient(cfg.AssemblyAI)
		transcriber = asm

		switch cfg.Storage.Backend {
		case config.MediaBackendMinIO:
			log.Info("📦 Connecting to MinIO...", zap.String("endpoint", cfg.Storage.Endpoint))
			minioClient, err := storage.NewMinIOClient(ctx, cfg.Storage)
			if err != nil {
				return nil, err
			}
			uploader = minioClient
			d.checks["storage"] = minioClient
		default:
			uploader = asm
		}
		log.Info("🤖 Media backend ready", zap.String("backend", cfg.Storage.Backend))
	}

	d.pipeline = analysis.NewPipeline(uploader, transcriber, completer, log,
		analysis.WithPollPolicy(pkgai.PollPolicyFromConfig(cfg.AssemblyAI)))
	return d, nil
}

// runStore is a RunStore that owns a connection.
type runStore interface {
	analysis.RunStore
	io.Closer
}

func newRunStore(ctx context.Context, cfg *config.Config, log *zap.Logger, checks map[string]handler.HealthChecker) (runStore, error) {
	switch cfg.RunStore.Backend {
	case config.RunStoreRedis:
		log.Info("📦 Connecting to Redis...", zap.String("addr", cfg.GetRedisAddr()))
		store, err := cache.NewRedisRunStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		checks["redis"] = store
		return store, nil
	case config.RunStoreMemory:
		return cache.NewMemoryRunStore(cfg.RunStore.TTL), nil
	default:
		return nil, fmt.Errorf("unknown run store %q", cfg.RunStore.Backend)
	}
}
