package ai

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// scriptedGetter replays a fixed sequence of snapshots, repeating the last one.
type scriptedGetter struct {
	mu    sync.Mutex
	jobs  []*entities.TranscriptionJob
	err   error
	calls int
}

func (g *scriptedGetter) GetStatus(_ context.Context, jobID string) (*entities.TranscriptionJob, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	i := g.calls - 1
	if i >= len(g.jobs) {
		i = len(g.jobs) - 1
	}
	return g.jobs[i], nil
}

func fastPolicy() PollPolicy {
	return PollPolicy{Interval: time.Millisecond}
}

func TestPollTranscript_CompletesAfterProcessing(t *testing.T) {
	getter := &scriptedGetter{jobs: []*entities.TranscriptionJob{
		{ID: "j1", Status: entities.TranscriptionQueued},
		{ID: "j1", Status: entities.TranscriptionProcessing},
		{ID: "j1", Status: entities.TranscriptionCompleted, Text: "done"},
	}}

	var seen []entities.TranscriptionStatus
	job, err := PollTranscript(context.Background(), getter, "j1", fastPolicy(), func(j *entities.TranscriptionJob) {
		seen = append(seen, j.Status)
	})
	require.NoError(t, err)
	assert.Equal(t, "done", job.Text)
	assert.Equal(t, 3, getter.calls)
	assert.Equal(t, []entities.TranscriptionStatus{
		entities.TranscriptionQueued, entities.TranscriptionProcessing, entities.TranscriptionCompleted,
	}, seen)
}

func TestPollTranscript_ProviderErrorStatus(t *testing.T) {
	getter := &scriptedGetter{jobs: []*entities.TranscriptionJob{
		{ID: "j1", Status: entities.TranscriptionError, Error: "decode failure"},
	}}

	job, err := PollTranscript(context.Background(), getter, "j1", fastPolicy(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorCode_TRANSCRIPTION_FAILED, appErrors.CodeOf(err))
	assert.Contains(t, err.Error(), "decode failure")
	assert.Equal(t, 1, getter.calls)
	require.NotNil(t, job)
	assert.Empty(t, job.Text)
}

func TestPollTranscript_RequestErrorStopsImmediately(t *testing.T) {
	getter := &scriptedGetter{err: appErrors.ErrTranscriptionRequestFailed(assert.AnError)}

	_, err := PollTranscript(context.Background(), getter, "j1", fastPolicy(), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorCode_TRANSCRIPTION_REQUEST_FAILED, appErrors.CodeOf(err))
	assert.Equal(t, 1, getter.calls)
}

func TestPollTranscript_MaxAttempts(t *testing.T) {
	getter := &scriptedGetter{jobs: []*entities.TranscriptionJob{
		{ID: "j1", Status: entities.TranscriptionProcessing},
	}}
	policy := PollPolicy{Interval: time.Millisecond, MaxAttempts: 4}

	_, err := PollTranscript(context.Background(), getter, "j1", policy, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorCode_TRANSCRIPTION_REQUEST_FAILED, appErrors.CodeOf(err))
	assert.Equal(t, 4, getter.calls)
}

func TestPollTranscript_Cancellation(t *testing.T) {
	getter := &scriptedGetter{jobs: []*entities.TranscriptionJob{
		{ID: "j1", Status: entities.TranscriptionProcessing},
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := PollTranscript(ctx, getter, "j1", PollPolicy{Interval: 5 * time.Millisecond}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDefaultPollPolicy(t *testing.T) {
	p := DefaultPollPolicy()
	assert.Equal(t, 3*time.Second, p.Interval)
	assert.Zero(t, p.MaxAttempts)
	assert.Zero(t, p.Timeout)
}
