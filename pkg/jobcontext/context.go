package jobcontext

import (
	"context"
	"fmt"
	"time"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyInputKind    KeyContext = "input_kind"
	keyRunStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one analysis run
type RunMetadata struct {
	RunID     string
	InputKind string
	StartTime time.Time
}

// RunBegin derives the context of an analysis run. A positive timeout bounds
// the whole run; zero leaves it unbounded. The returned cancel must be called.
func RunBegin(parentCtx context.Context, runID, inputKind string, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyInputKind, inputKind)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())

	return ctx, cancel
}

// RunEnd executes runFunc once, turning a panic into an error.
// Runs are never retried automatically.
func RunEnd(ctx context.Context, runFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before run execution: %w", ctx.Err())
	}
	return runFunc(ctx)
}

// GetRunID extracts run ID from context
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(keyRunID).(string)
	return runID, ok
}

// GetInputKind extracts the input kind from context
func GetInputKind(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(keyInputKind).(string)
	return kind, ok
}

// GetRunStartTime extracts run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	kind, _ := GetInputKind(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		RunID:     runID,
		InputKind: kind,
		StartTime: startTime,
	}
}
