package export

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// ToText renders a plain-text report.
func ToText(a *entities.MeetingAnalysis, sel Selection) string {
	var b strings.Builder
	b.WriteString("MEETING ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", reportDate(a))
	fmt.Fprintf(&b, "File: %s\n\n", fileName(a))

	if sel.Has(SectionSummary) {
		b.WriteString("EXECUTIVE SUMMARY\n")
		fmt.Fprintf(&b, "%s\n\n", orDefault(a.Summary.Executive, PlaceholderSummary))
		if len(a.Summary.KeyPoints) > 0 {
			b.WriteString("KEY POINTS\n")
			for i, p := range a.Summary.KeyPoints {
				fmt.Fprintf(&b, "%d. %s\n", i+1, p)
			}
			b.WriteString("\n")
		}
	}

	if sel.Has(SectionActionItems) {
		b.WriteString("ACTION ITEMS\n")
		if len(a.ActionItems) == 0 {
			fmt.Fprintf(&b, "%s\n\n", PlaceholderActionItems)
		}
		for i, item := range a.ActionItems {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Task)
			fmt.Fprintf(&b, "   Assignee: %s\n", orDefault(item.Assignee, unknownValue))
			fmt.Fprintf(&b, "   Deadline: %s\n", orDefault(item.Deadline, unknownValue))
			fmt.Fprintf(&b, "   Priority: %s\n\n", item.Priority)
		}
	}

	if sel.Has(SectionDecisions) {
		b.WriteString("DECISIONS MADE\n")
		if len(a.Decisions) == 0 {
			fmt.Fprintf(&b, "%s\n\n", PlaceholderDecisions)
		}
		for i, d := range a.Decisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d.Decision)
			fmt.Fprintf(&b, "   Category: %s\n", orDefault(d.Category, unknownValue))
			fmt.Fprintf(&b, "   Participants: %s\n\n", participants(d.Participants))
		}
	}

	if sel.Has(SectionTranscript) {
		b.WriteString("FULL TRANSCRIPT\n")
		if len(a.Transcript.Segments) == 0 {
			b.WriteString(PlaceholderTranscript + "\n")
		}
		for _, seg := range a.Transcript.Segments {
			fmt.Fprintf(&b, "[%s] %s: %s\n", timestamp(seg.Start), orDefault(seg.Speaker, unknownValue), seg.Text)
		}
		b.WriteString("\n")
	}

	if sel.Has(SectionSentiment) {
		b.WriteString("SENTIMENT ANALYSIS\n")
		if !hasSentiment(a.Sentiment) {
			b.WriteString(PlaceholderSentiment + "\n")
		} else {
			o := a.Sentiment.Overall
			b.WriteString("  Overall Sentiment:\n")
			fmt.Fprintf(&b, "    Primary Tone: %s\n", orDefault(string(o.Sentiment), "N/A"))
			fmt.Fprintf(&b, "    Score: %s\n", percent(o.Score))
			fmt.Fprintf(&b, "    Confidence: %s\n", percent(o.Confidence))
			if len(a.Sentiment.Speakers) > 0 {
				b.WriteString("  Sentiment by Speaker:\n")
				for _, name := range sortedSpeakers(a.Sentiment.Speakers) {
					fmt.Fprintf(&b, "    - %s\n", speakerLine(name, a.Sentiment.Speakers[name]))
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
