package cache

import (
	"context"
	"encoding/json"
	"time"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

const runKeyPrefix = "meeting_analysis:run:"

func runKey(id string) string {
	return runKeyPrefix + id
}

// Runs are stored encoded so a reader never shares memory with the writer.
func encodeRun(run *entities.AnalysisRun) ([]byte, error) {
	return json.Marshal(run)
}

func decodeRun(b []byte) (*entities.AnalysisRun, error) {
	var run entities.AnalysisRun
	if err := json.Unmarshal(b, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// MemoryRunStore keeps analysis runs for the lifetime of the process.
type MemoryRunStore struct {
	store *MemoryStore
	ttl   time.Duration
}

// NewMemoryRunStore creates a run store whose entries expire after ttl
func NewMemoryRunStore(ttl time.Duration) *MemoryRunStore {
	return &MemoryRunStore{
		store: NewMemoryStore(time.Minute),
		ttl:   ttl,
	}
}

// Save replaces the stored snapshot of run
func (s *MemoryRunStore) Save(_ context.Context, run *entities.AnalysisRun) error {
	b, err := encodeRun(run)
	if err != nil {
		return appErrors.ErrStoreFailed("save", err)
	}
	s.store.Set(runKey(run.ID), b, s.ttl)
	return nil
}

// Get returns a private copy of the run or RUN_NOT_FOUND
func (s *MemoryRunStore) Get(_ context.Context, id string) (*entities.AnalysisRun, error) {
	b, ok := s.store.Get(runKey(id))
	if !ok {
		return nil, appErrors.ErrRunNotFound(id)
	}
	run, err := decodeRun(b)
	if err != nil {
		return nil, appErrors.ErrStoreFailed("get", err)
	}
	return run, nil
}

// Close releases the background sweeper
func (s *MemoryRunStore) Close() error {
	return s.store.Close()
}
