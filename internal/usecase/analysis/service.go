package analysis

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/internal/observability"
	"github.com/johnquangdev/meeting-analysis/pkg/jobcontext"
	"github.com/johnquangdev/meeting-analysis/pkg/logger"
)

var errServiceClosed = stdErrors.New("analysis service is shutting down")

// ServiceOptions bounds background runs.
type ServiceOptions struct {
	// Timeout bounds a whole run. Zero means no bound.
	Timeout time.Duration
	// MaxConcurrency limits runs executing at once. Extra runs stay pending.
	MaxConcurrency int
}

// Service runs pipelines in the background and records their progress in a
// RunStore.
type Service struct {
	pipeline *Pipeline
	store    RunStore
	logger   *zap.Logger
	timeout  time.Duration

	slots   chan struct{}
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewService creates a Service
func NewService(pipeline *Pipeline, store RunStore, log *zap.Logger, opts ServiceOptions) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		pipeline: pipeline,
		store:    store,
		logger:   logger.OrNop(log),
		timeout:  opts.Timeout,
		slots:    make(chan struct{}, max(1, opts.MaxConcurrency)),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Submit records a pending run and starts it in the background. The input's
// reader must stay readable until the run ends.
func (s *Service) Submit(ctx context.Context, input *entities.RawInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", appErrors.ErrInvalidArgument(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", appErrors.ErrInternal(errServiceClosed)
	}

	run := entities.NewAnalysisRun(input)
	if err := s.store.Save(ctx, run); err != nil {
		return "", err
	}

	s.logger.Info("📥 Analysis run submitted",
		zap.String("run_id", run.ID),
		zap.String("input_id", input.ID),
		zap.String("input_kind", string(input.Kind)),
	)

	s.wg.Add(1)
	go s.execute(run, input)

	return run.ID, nil
}

// Get returns the current snapshot of a run.
func (s *Service) Get(ctx context.Context, runID string) (*entities.AnalysisRun, error) {
	if runID == "" {
		return nil, appErrors.ErrInvalidArgument("run id is required")
	}
	return s.store.Get(ctx, runID)
}

// Shutdown stops accepting runs and waits for running ones. When ctx expires
// first, the remaining runs are cancelled and recorded as failed.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.logger.Info("🛑 Stopping analysis service...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		s.logger.Info("✅ Analysis service stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done
		return fmt.Errorf("analysis service shutdown: %w", ctx.Err())
	}
}

func (s *Service) execute(run *entities.AnalysisRun, input *entities.RawInput) {
	defer s.wg.Done()

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-s.baseCtx.Done():
		s.fail(context.Background(), run, appErrors.ErrInternal(s.baseCtx.Err()))
		return
	}

	ctx, cancel := jobcontext.RunBegin(s.baseCtx, run.ID, string(input.Kind), s.timeout)
	defer cancel()
	// Store writes outlive the run deadline so a timed-out run is still recorded.
	storeCtx := context.WithoutCancel(ctx)

	var result *entities.MeetingAnalysis
	err := jobcontext.RunEnd(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.pipeline.Run(ctx, input, func(p entities.Progress) {
			run.MarkAsProcessing(p)
			s.save(storeCtx, run)
		})
		return err
	})

	if err != nil {
		s.fail(storeCtx, run, err)
		return
	}

	run.MarkAsCompleted(result)
	s.save(storeCtx, run)
	observability.RecordRun(string(entities.RunStatusCompleted))

	meta := jobcontext.GetRunMetadata(ctx)
	s.logger.Info("✅ Analysis run completed",
		zap.String("run_id", run.ID),
		zap.Duration("elapsed", time.Since(meta.StartTime)),
	)
}

func (s *Service) fail(ctx context.Context, run *entities.AnalysisRun, err error) {
	code := appErrors.CodeOf(err)
	message := err.Error()
	var appErr appErrors.AppError
	if stdErrors.As(err, &appErr) {
		message = appErr.Message
	}

	run.MarkAsFailed(code.String(), message)
	s.save(ctx, run)
	observability.RecordRun(string(entities.RunStatusFailed))

	s.logger.Error("❌ Analysis run failed",
		zap.String("run_id", run.ID),
		zap.String("code", code.String()),
		zap.Error(err),
	)
}

func (s *Service) save(ctx context.Context, run *entities.AnalysisRun) {
	if err := s.store.Save(ctx, run); err != nil {
		s.logger.Error("❌ Failed to save analysis run",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}
