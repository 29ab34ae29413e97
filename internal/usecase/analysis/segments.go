package analysis

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Fallback segment values used when no word carries a speaker label.
const (
	DefaultSpeakerName        = "Speaker 1"
	FallbackSegmentSpan       = 30.0
	FallbackSegmentConfidence = 0.9
	PartialSegmentConfidence  = 0.8
)

// SegmentBuildResult is the output of BuildSegments.
type SegmentBuildResult struct {
	Segments     []entities.Segment
	SpeakerCount int
	// Fallback is set when the single whole-transcript segment was emitted.
	Fallback bool
}

// BuildSegments groups speaker-labelled words into single-speaker segments.
// A new segment starts whenever the speaker changes; within a segment text is
// space-joined, end is extended and confidence keeps the minimum. Offsets are
// converted from milliseconds to seconds.
func BuildSegments(words []entities.TimedWord, fullText string) SegmentBuildResult {
	var (
		segments []entities.Segment
		current  *entities.Segment
		parts    []string
		speakers = map[string]struct{}{}
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(parts, " ")
		segments = append(segments, *current)
	}

	for _, w := range words {
		if w.Speaker == "" {
			continue
		}
		speakers[w.Speaker] = struct{}{}

		start := msToSeconds(w.StartMs)
		end := msToSeconds(w.EndMs)

		if current == nil || current.Speaker != w.Speaker {
			flush()
			if current != nil && start < current.End {
				start = current.End
			}
			current = &entities.Segment{
				ID:         fmt.Sprintf("seg-%d", len(segments)),
				Speaker:    w.Speaker,
				Start:      start,
				End:        end,
				Confidence: w.Confidence,
			}
			parts = parts[:0]
		} else {
			if end > current.End {
				current.End = end
			}
			if w.Confidence < current.Confidence {
				current.Confidence = w.Confidence
			}
		}
		if current.End < current.Start {
			current.End = current.Start
		}
		if w.Text != "" {
			parts = append(parts, w.Text)
		}
	}
	flush()

	if len(segments) == 0 {
		return SegmentBuildResult{
			Segments:     []entities.Segment{WholeTranscriptSegment(fullText, FallbackSegmentConfidence)},
			SpeakerCount: 1,
			Fallback:     true,
		}
	}

	return SegmentBuildResult{
		Segments:     segments,
		SpeakerCount: max(1, len(speakers)),
	}
}

// WholeTranscriptSegment covers the full text with the nominal 30 second span.
func WholeTranscriptSegment(text string, confidence float64) entities.Segment {
	return entities.Segment{
		ID:         "seg-0",
		Speaker:    DefaultSpeakerName,
		Text:       text,
		Start:      0,
		End:        FallbackSegmentSpan,
		Confidence: confidence,
	}
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
