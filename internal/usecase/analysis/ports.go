package analysis

import (
	"context"
	"io"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/ai"
)

// MediaUploader hosts a recording and returns a URL the transcription
// provider can fetch. Implemented by storage.MinIOClient and ai.AssemblyAIClient.
type MediaUploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// Transcriber starts diarized transcription jobs and reports their status.
type Transcriber interface {
	StartJob(ctx context.Context, audioURL string) (string, error)
	GetStatus(ctx context.Context, jobID string) (*entities.TranscriptionJob, error)
}

// Completer sends one prompt to a language model.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

// RunStore keeps analysis runs for the duration of the session.
type RunStore interface {
	Save(ctx context.Context, run *entities.AnalysisRun) error
	Get(ctx context.Context, id string) (*entities.AnalysisRun, error)
}
