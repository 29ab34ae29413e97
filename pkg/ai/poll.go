package ai

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

// DefaultPollInterval is the fixed delay between two status requests.
const DefaultPollInterval = 3 * time.Second

// StatusGetter fetches one transcription job snapshot.
type StatusGetter interface {
	GetStatus(ctx context.Context, jobID string) (*entities.TranscriptionJob, error)
}

// PollPolicy bounds PollTranscript. Zero MaxAttempts and zero Timeout mean
// unbounded; cancellation of ctx always stops the loop.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts uint64
	Timeout     time.Duration
}

// DefaultPollPolicy polls every 3 seconds with no bound.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: DefaultPollInterval}
}

// PollPolicyFromConfig builds the policy from the AssemblyAI settings.
func PollPolicyFromConfig(cfg config.AssemblyAIConfig) PollPolicy {
	return PollPolicy{
		Interval:    cfg.PollInterval,
		MaxAttempts: cfg.PollMaxAttempts,
		Timeout:     cfg.PollTimeout,
	}
}

func (p PollPolicy) backOff(ctx context.Context) backoff.BackOff {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	var b backoff.BackOff = backoff.NewConstantBackOff(interval)
	if p.MaxAttempts > 0 {
		// MaxAttempts counts requests, WithMaxRetries counts retries after the first
		b = backoff.WithMaxRetries(b, p.MaxAttempts-1)
	}
	return backoff.WithContext(b, ctx)
}

var errStillRunning = errors.New("transcription still running")

// PollTranscript issues GetStatus until the job reaches a terminal status.
// A completed job is returned as is. A job in the error state yields
// TRANSCRIPTION_FAILED carrying the provider's message. onStatus, if set,
// observes every snapshot.
func PollTranscript(ctx context.Context, getter StatusGetter, jobID string, policy PollPolicy, onStatus func(*entities.TranscriptionJob)) (*entities.TranscriptionJob, error) {
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	var last *entities.TranscriptionJob
	operation := func() error {
		job, err := getter.GetStatus(ctx, jobID)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = job
		if onStatus != nil {
			onStatus(job)
		}

		switch job.Status {
		case entities.TranscriptionCompleted:
			return nil
		case entities.TranscriptionError:
			return backoff.Permanent(appErrors.ErrTranscriptionFailed(job.Error))
		default:
			return errStillRunning
		}
	}

	err := backoff.Retry(operation, policy.backOff(ctx))
	if err == nil {
		return last, nil
	}
	var appErr appErrors.AppError
	if errors.As(err, &appErr) {
		return last, err
	}
	// attempts exhausted or context done while the job is still running
	return last, appErrors.ErrTranscriptionRequestFailed(err)
}
