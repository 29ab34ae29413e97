package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Estimation constants used when providers report nothing better.
const (
	wordsPerSecond        = 2.5
	minEstimatedDuration  = 30
	wordsPerParticipant   = 300
	maxEstimatedSpeakers  = 5
	synthesizedConfidence = 1.0
)

// Fallback signals, also used as metric labels.
const (
	SignalDuration     = "duration"
	SignalParticipants = "participants"
	SignalSegments     = "segments"
	SignalContent      = "content"
	SignalSentiment    = "sentiment"
	SignalTranscript   = "transcript"
)

// finalizeInput is everything Finalizing reconciles. Nil or zero fields are
// treated as "not reported".
type finalizeInput struct {
	Text             string
	ProviderDuration *float64
	Build            *SegmentBuildResult
	Sentiment        *entities.SentimentResult
}

func (in finalizeInput) wordCount() int {
	return len(strings.Fields(in.Text))
}

// source is one row entry of the fallback table: a named way to obtain a value.
type source[T any] struct {
	name    string
	resolve func(in finalizeInput) (T, bool)
}

// rule lists the sources of one signal in order of preference. The last source
// must always resolve.
type rule[T any] struct {
	signal  string
	sources []source[T]
}

// Resolution records which source won for a signal.
type Resolution struct {
	Signal string
	Source string
	// Primary is false when anything but the first source was used.
	Primary bool
}

func (r rule[T]) evaluate(in finalizeInput) (T, Resolution) {
	for i, s := range r.sources {
		if v, ok := s.resolve(in); ok {
			return v, Resolution{Signal: r.signal, Source: s.name, Primary: i == 0}
		}
	}
	var zero T
	return zero, Resolution{Signal: r.signal, Source: "none"}
}

var durationRule = rule[int]{
	signal: SignalDuration,
	sources: []source[int]{
		{name: "provider", resolve: func(in finalizeInput) (int, bool) {
			if in.ProviderDuration == nil || *in.ProviderDuration <= 0 {
				return 0, false
			}
			return int(math.Ceil(*in.ProviderDuration)), true
		}},
		{name: "word_rate", resolve: func(in finalizeInput) (int, bool) {
			return EstimateDuration(in.wordCount()), true
		}},
	},
}

var participantRule = rule[int]{
	signal: SignalParticipants,
	sources: []source[int]{
		{name: "diarization", resolve: func(in finalizeInput) (int, bool) {
			if in.Build == nil || in.Build.SpeakerCount < 1 {
				return 0, false
			}
			return in.Build.SpeakerCount, true
		}},
		{name: "sentiment_speakers", resolve: func(in finalizeInput) (int, bool) {
			if in.Sentiment == nil || len(in.Sentiment.Speakers) == 0 {
				return 0, false
			}
			return len(in.Sentiment.Speakers), true
		}},
		{name: "word_estimate", resolve: func(in finalizeInput) (int, bool) {
			return EstimateParticipants(in.wordCount()), true
		}},
	},
}

// EstimateDuration is ceil(words/2.5) seconds, never below 30.
func EstimateDuration(words int) int {
	return max(minEstimatedDuration, int(math.Ceil(float64(words)/wordsPerSecond)))
}

// EstimateParticipants is one speaker per 300 words, clamped to [1,5].
func EstimateParticipants(words int) int {
	n := int(math.Ceil(float64(words) / wordsPerParticipant))
	return min(maxEstimatedSpeakers, max(1, n))
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// SynthesizeSegments splits text on sentence punctuation and spreads the
// sentences evenly over duration, assigning speakers round-robin.
func SynthesizeSegments(text string, duration, participants int) []entities.Segment {
	var sentences []string
	for _, s := range sentenceBoundary.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	participants = max(1, participants)
	n := max(1, len(sentences))

	segments := make([]entities.Segment, 0, len(sentences))
	for i, s := range sentences {
		segments = append(segments, entities.Segment{
			ID:         fmt.Sprintf("seg-%d", i),
			Speaker:    fmt.Sprintf("Speaker %d", i%participants+1),
			Text:       s,
			Start:      float64((i * duration) / n),
			End:        float64(((i + 1) * duration) / n),
			Confidence: synthesizedConfidence,
		})
	}
	return segments
}

// Speakers lists spk-1..spk-n.
func Speakers(n int) []entities.Speaker {
	speakers := make([]entities.Speaker, 0, n)
	for i := 1; i <= n; i++ {
		speakers = append(speakers, entities.Speaker{
			ID:   fmt.Sprintf("spk-%d", i),
			Name: fmt.Sprintf("Speaker %d", i),
		})
	}
	return speakers
}

// finalized is the outcome of evaluating the fallback table once.
type finalized struct {
	Duration     int
	Participants int
	Segments     []entities.Segment
	Resolutions  []Resolution
}

// finalize evaluates every rule of the table. Segments depend on the resolved
// duration and participant count so they are evaluated last.
func finalize(in finalizeInput) finalized {
	duration, dRes := durationRule.evaluate(in)
	participants, pRes := participantRule.evaluate(in)

	segmentRule := rule[[]entities.Segment]{
		signal: SignalSegments,
		sources: []source[[]entities.Segment]{
			{name: "transcription", resolve: func(in finalizeInput) ([]entities.Segment, bool) {
				if in.Build == nil || len(in.Build.Segments) == 0 {
					return nil, false
				}
				return in.Build.Segments, true
			}},
			{name: "sentences", resolve: func(in finalizeInput) ([]entities.Segment, bool) {
				return SynthesizeSegments(in.Text, duration, participants), true
			}},
		},
	}
	segments, sRes := segmentRule.evaluate(in)

	return finalized{
		Duration:     duration,
		Participants: participants,
		Segments:     segments,
		Resolutions:  []Resolution{dRes, pRes, sRes},
	}
}
