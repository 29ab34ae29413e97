package entities

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a pipeline state. Stages only move forward.
type Stage string

const (
	StageUploading          Stage = "uploading"
	StageTranscribing       Stage = "transcribing"
	StageAnalyzingContent   Stage = "analyzing_content"
	StageAnalyzingSentiment Stage = "analyzing_sentiment"
	StageFinalizing         Stage = "finalizing"
	StageComplete           Stage = "complete"
)

type stageInfo struct {
	order   int
	label   string
	percent int
}

var stages = map[Stage]stageInfo{
	StageUploading:          {1, "Uploading", 10},
	StageTranscribing:       {2, "Transcribing", 30},
	StageAnalyzingContent:   {3, "Analyzing Content", 60},
	StageAnalyzingSentiment: {4, "Analyzing Sentiment", 80},
	StageFinalizing:         {5, "Finalizing", 80},
	StageComplete:           {6, "Complete", 100},
}

// Label is the human readable step name shown to the user.
func (s Stage) Label() string {
	return stages[s].label
}

// Percent is the fixed progress checkpoint of the stage.
func (s Stage) Percent() int {
	return stages[s].percent
}

// Order is the position of the stage in the pipeline, 0 for unknown stages.
func (s Stage) Order() int {
	return stages[s].order
}

// Progress is a snapshot reported on every stage transition.
type Progress struct {
	Stage   Stage  `json:"stage"`
	Step    string `json:"step"`
	Percent int    `json:"percent"`
}

// ProgressOf builds the snapshot for a stage.
func ProgressOf(s Stage) Progress {
	return Progress{Stage: s, Step: s.Label(), Percent: s.Percent()}
}

// RunStatus is the lifecycle of an analysis run as seen by the presentation layer.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// IsTerminal reports whether the run will not change anymore.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// RunError is the single user-visible failure of an aborted run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalysisRun tracks one submission. Result is set only when Status is
// completed; a failed run never carries a partial result.
type AnalysisRun struct {
	ID          string           `json:"id"`
	InputID     string           `json:"input_id"`
	FileName    string           `json:"file_name"`
	InputKind   InputKind        `json:"input_kind"`
	Status      RunStatus        `json:"status"`
	Progress    Progress         `json:"progress"`
	Error       *RunError        `json:"error,omitempty"`
	Result      *MeetingAnalysis `json:"result,omitempty"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewAnalysisRun creates a pending run for input
func NewAnalysisRun(input *RawInput) *AnalysisRun {
	now := time.Now().UTC()
	return &AnalysisRun{
		ID:        uuid.NewString(),
		InputID:   input.ID,
		FileName:  input.DisplayName(),
		InputKind: input.Kind,
		Status:    RunStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkAsProcessing records a stage transition. Backward transitions are ignored.
func (r *AnalysisRun) MarkAsProcessing(p Progress) {
	if r.Status.IsTerminal() {
		return
	}
	if r.Progress.Stage != "" && p.Stage.Order() < r.Progress.Stage.Order() {
		return
	}
	now := time.Now().UTC()
	if r.StartedAt == nil {
		r.StartedAt = &now
	}
	r.Status = RunStatusProcessing
	r.Progress = p
	r.UpdatedAt = now
}

// MarkAsCompleted stores the final result
func (r *AnalysisRun) MarkAsCompleted(result *MeetingAnalysis) {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.Progress = ProgressOf(StageComplete)
	r.Result = result
	r.Error = nil
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkAsFailed aborts the run with a single message
func (r *AnalysisRun) MarkAsFailed(code, message string) {
	now := time.Now().UTC()
	r.Status = RunStatusFailed
	r.Result = nil
	r.Error = &RunError{Code: code, Message: message}
	r.CompletedAt = &now
	r.UpdatedAt = now
}
