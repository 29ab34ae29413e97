package export

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Placeholders rendered under a selected section that has no data.
const (
	PlaceholderSummary     = "No summary available."
	PlaceholderActionItems = "No action items recorded."
	PlaceholderDecisions   = "No decisions recorded."
	PlaceholderTranscript  = "No transcript available."
	PlaceholderSentiment   = "No sentiment data available."

	unknownValue = "Unknown"
	dateLayout   = "2006-01-02"
)

func fileName(a *entities.MeetingAnalysis) string {
	return orDefault(a.Metadata.FileName, unknownValue)
}

func reportDate(a *entities.MeetingAnalysis) string {
	if a.Metadata.ProcessedAt.IsZero() {
		return unknownValue
	}
	return a.Metadata.ProcessedAt.Format(dateLayout)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// timestamp renders seconds as m:ss.
func timestamp(seconds float64) string {
	total := int(math.Max(0, math.Floor(seconds)))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// percent renders a ratio as a whole percentage.
func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// dominance is already on a 0..100 scale.
func dominance(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func participants(names []string) string {
	return orDefault(strings.Join(names, ", "), unknownValue)
}

func speakerLine(name string, s entities.SpeakerSentiment) string {
	return fmt.Sprintf("%s: Avg Sentiment %s, Engagement %s, Dominance %s",
		name, percent(s.AverageSentiment), percent(s.Engagement), dominance(s.Dominance))
}

func sortedSpeakers(m map[string]entities.SpeakerSentiment) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func hasSentiment(s entities.SentimentResult) bool {
	return s.Overall.Sentiment != "" || len(s.Speakers) > 0
}
