package analysis

import (
	"time"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// SubmitResponse is returned when a run is accepted
type SubmitResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunErrorResponse carries the single message of a failed run
type RunErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunResponse represents a run in responses
type RunResponse struct {
	ID          string                    `json:"id"`
	InputID     string                    `json:"input_id"`
	FileName    string                    `json:"file_name"`
	InputKind   string                    `json:"input_kind"`
	Status      string                    `json:"status"`
	Stage       string                    `json:"stage,omitempty"`
	Step        string                    `json:"step,omitempty"`
	Progress    int                       `json:"progress"`
	Error       *RunErrorResponse         `json:"error,omitempty"`
	Result      *entities.MeetingAnalysis `json:"result,omitempty"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// ProgressEvent is one message of the progress stream
type ProgressEvent struct {
	RunID    string            `json:"run_id"`
	Status   string            `json:"status"`
	Stage    string            `json:"stage,omitempty"`
	Step     string            `json:"step,omitempty"`
	Progress int               `json:"progress"`
	Error    *RunErrorResponse `json:"error,omitempty"`
}
