package entities

import (
	"fmt"
	"math"
	"strings"
)

// Priority of an action item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ConfidenceLevel is the coarse confidence attached to decisions.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Summary is the executive overview of a meeting.
type Summary struct {
	Executive string   `json:"executive"`
	KeyPoints []string `json:"keyPoints"`
	Topics    []string `json:"topics"`
}

// IsEmpty reports whether there is nothing to render.
func (s Summary) IsEmpty() bool {
	return strings.TrimSpace(s.Executive) == "" && len(s.KeyPoints) == 0 && len(s.Topics) == 0
}

// ActionItem is a task extracted from the transcript.
type ActionItem struct {
	ID         string   `json:"id"`
	Task       string   `json:"task"`
	Assignee   string   `json:"assignee"`
	Deadline   string   `json:"deadline"`
	Priority   Priority `json:"priority"`
	Context    string   `json:"context"`
	Confidence float64  `json:"confidence"`
}

// Decision is a decision recorded during the meeting.
type Decision struct {
	ID           string          `json:"id"`
	Decision     string          `json:"decision"`
	Category     string          `json:"category"`
	Confidence   ConfidenceLevel `json:"confidence"`
	Context      string          `json:"context"`
	Participants []string        `json:"participants"`
}

// AnalysisResult is the content-extraction output of the language model.
type AnalysisResult struct {
	Summary     Summary      `json:"summary"`
	ActionItems []ActionItem `json:"actionItems"`
	Decisions   []Decision   `json:"decisions"`
}

// Fallback content used when content analysis is unavailable.
const (
	FallbackExecutiveSummary = "Could not generate summary"
	FallbackKeyPoint         = "Content analysis failed"
)

// NewFallbackAnalysis returns the documented empty result.
func NewFallbackAnalysis() *AnalysisResult {
	return &AnalysisResult{
		Summary: Summary{
			Executive: FallbackExecutiveSummary,
			KeyPoints: []string{FallbackKeyPoint},
			Topics:    []string{},
		},
		ActionItems: []ActionItem{},
		Decisions:   []Decision{},
	}
}

// Normalize fills nil collections, assigns missing IDs and bounds enum and
// numeric fields so the result is always renderable.
func (r *AnalysisResult) Normalize() {
	if r.Summary.KeyPoints == nil {
		r.Summary.KeyPoints = []string{}
	}
	if r.Summary.Topics == nil {
		r.Summary.Topics = []string{}
	}
	if r.ActionItems == nil {
		r.ActionItems = []ActionItem{}
	}
	if r.Decisions == nil {
		r.Decisions = []Decision{}
	}

	for i := range r.ActionItems {
		item := &r.ActionItems[i]
		if item.ID == "" {
			item.ID = fmt.Sprintf("action-%d", i+1)
		}
		item.Priority = normalizePriority(item.Priority)
		item.Confidence = Clamp(item.Confidence, 0, 1)
	}
	for i := range r.Decisions {
		d := &r.Decisions[i]
		if d.ID == "" {
			d.ID = fmt.Sprintf("decision-%d", i+1)
		}
		d.Confidence = normalizeConfidenceLevel(d.Confidence)
		if d.Participants == nil {
			d.Participants = []string{}
		}
	}
}

func normalizePriority(p Priority) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(string(p)))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func normalizeConfidenceLevel(c ConfidenceLevel) ConfidenceLevel {
	switch ConfidenceLevel(strings.ToLower(strings.TrimSpace(string(c)))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// Clamp bounds v to [lo, hi]. NaN is treated as zero.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
