package entities

// SentimentLabel is the overall tone of the meeting.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Defaults applied to missing sentiment fields.
const (
	DefaultSentimentScore      = 0.0
	DefaultSentimentConfidence = 0.5
)

// OverallSentiment holds score in [-1,1] and confidence in [0,1].
type OverallSentiment struct {
	Sentiment  SentimentLabel `json:"sentiment"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
}

// SpeakerSentiment is the per-speaker breakdown.
type SpeakerSentiment struct {
	AverageSentiment float64 `json:"averageSentiment"`
	Engagement       float64 `json:"engagement"`
	Dominance        float64 `json:"dominance"`
}

// SentimentResult is the sentiment block of a MeetingAnalysis.
type SentimentResult struct {
	Overall  OverallSentiment            `json:"overall"`
	Speakers map[string]SpeakerSentiment `json:"speakers"`
}

// NewNeutralSentiment returns the default used when a model reply is unusable.
func NewNeutralSentiment() *SentimentResult {
	return &SentimentResult{
		Overall: OverallSentiment{
			Sentiment:  SentimentNeutral,
			Score:      DefaultSentimentScore,
			Confidence: DefaultSentimentConfidence,
		},
		Speakers: map[string]SpeakerSentiment{},
	}
}

// ParseSentimentLabel maps free text onto the label enum, neutral otherwise.
func ParseSentimentLabel(s string) SentimentLabel {
	switch SentimentLabel(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return SentimentLabel(s)
	default:
		return SentimentNeutral
	}
}

// Normalize clamps all numeric fields into range.
func (s *SentimentResult) Normalize() {
	s.Overall.Sentiment = ParseSentimentLabel(string(s.Overall.Sentiment))
	s.Overall.Score = Clamp(s.Overall.Score, -1, 1)
	s.Overall.Confidence = Clamp(s.Overall.Confidence, 0, 1)
	if s.Speakers == nil {
		s.Speakers = map[string]SpeakerSentiment{}
	}
	for name, sp := range s.Speakers {
		sp.AverageSentiment = Clamp(sp.AverageSentiment, -1, 1)
		sp.Engagement = Clamp(sp.Engagement, 0, 1)
		sp.Dominance = Clamp(sp.Dominance, 0, 100)
		s.Speakers[name] = sp
	}
}
