package entities

import "time"

// Metadata describes the analysed input.
type Metadata struct {
	FileID       string    `json:"fileId"`
	FileName     string    `json:"fileName"`
	ProcessedAt  time.Time `json:"processedAt"`
	Duration     int       `json:"duration"`
	Participants int       `json:"participants"`
}

// MeetingAnalysis is the canonical result handed to presentation and export.
// It is read-only once the pipeline emits it.
type MeetingAnalysis struct {
	Metadata    Metadata        `json:"metadata"`
	Transcript  Transcript      `json:"transcript"`
	Summary     Summary         `json:"summary"`
	ActionItems []ActionItem    `json:"actionItems"`
	Decisions   []Decision      `json:"decisions"`
	Sentiment   SentimentResult `json:"sentiment"`
}
