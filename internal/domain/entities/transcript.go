package entities

// TimedWord is a single recognized word as reported by the transcription
// provider. Offsets are in provider milliseconds.
type TimedWord struct {
	Text       string
	StartMs    int64
	EndMs      int64
	Confidence float64
	Speaker    string
}

// Segment is a contiguous single-speaker utterance. Times are in seconds.
type Segment struct {
	ID         string  `json:"id,omitempty"`
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Duration returns End-Start in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Speaker is a participant as listed in the transcript tab.
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transcript is the normalized transcript block of a MeetingAnalysis.
type Transcript struct {
	FullText string    `json:"fullText"`
	Segments []Segment `json:"segments"`
	Speakers []Speaker `json:"speakers"`
}

// TranscriptionStatus is the provider job state.
type TranscriptionStatus string

const (
	TranscriptionQueued     TranscriptionStatus = "queued"
	TranscriptionProcessing TranscriptionStatus = "processing"
	TranscriptionCompleted  TranscriptionStatus = "completed"
	TranscriptionError      TranscriptionStatus = "error"
)

// IsTerminal reports whether polling can stop.
func (s TranscriptionStatus) IsTerminal() bool {
	return s == TranscriptionCompleted || s == TranscriptionError
}

// TranscriptionJob is the provider-neutral view of a transcription job.
type TranscriptionJob struct {
	ID              string
	Status          TranscriptionStatus
	Text            string
	Words           []TimedWord
	DurationSeconds *float64
	Error           string
}
