package presenter

import (
	"github.com/johnquangdev/meeting-analysis/internal/adapter/dto/analysis"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// ToRunResponse converts an AnalysisRun entity to RunResponse DTO
func ToRunResponse(r *entities.AnalysisRun) *analysis.RunResponse {
	if r == nil {
		return nil
	}

	return &analysis.RunResponse{
		ID:          r.ID,
		InputID:     r.InputID,
		FileName:    r.FileName,
		InputKind:   string(r.InputKind),
		Status:      string(r.Status),
		Stage:       string(r.Progress.Stage),
		Step:        r.Progress.Step,
		Progress:    r.Progress.Percent,
		Error:       toRunError(r.Error),
		Result:      r.Result,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ToProgressEvent converts a run snapshot to a stream event
func ToProgressEvent(r *entities.AnalysisRun) analysis.ProgressEvent {
	return analysis.ProgressEvent{
		RunID:    r.ID,
		Status:   string(r.Status),
		Stage:    string(r.Progress.Stage),
		Step:     r.Progress.Step,
		Progress: r.Progress.Percent,
		Error:    toRunError(r.Error),
	}
}

func toRunError(e *entities.RunError) *analysis.RunErrorResponse {
	if e == nil {
		return nil
	}
	return &analysis.RunErrorResponse{Code: e.Code, Message: e.Message}
}
