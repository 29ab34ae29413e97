package export

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// mdBreak ends a line with a hard break inside a list item.
const mdBreak = "  \\\n"

// ToMarkdown renders a Markdown report.
func ToMarkdown(a *entities.MeetingAnalysis, sel Selection) string {
	var b strings.Builder
	b.WriteString("# Meeting Analysis Report\n\n")
	fmt.Fprintf(&b, "**Date:** %s%s", reportDate(a), mdBreak)
	fmt.Fprintf(&b, "**File:** %s\n\n", fileName(a))

	if sel.Has(SectionSummary) {
		b.WriteString("## Executive Summary\n")
		fmt.Fprintf(&b, "%s\n\n", orDefault(a.Summary.Executive, PlaceholderSummary))
		if len(a.Summary.KeyPoints) > 0 {
			b.WriteString("## Key Points\n")
			for _, p := range a.Summary.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", p)
			}
			b.WriteString("\n")
		}
	}

	if sel.Has(SectionActionItems) {
		b.WriteString("## Action Items\n")
		if len(a.ActionItems) == 0 {
			b.WriteString(PlaceholderActionItems + "\n")
		}
		for i, item := range a.ActionItems {
			fmt.Fprintf(&b, "%d. %s%s", i+1, item.Task, mdBreak)
			fmt.Fprintf(&b, "   - Assignee: %s%s", orDefault(item.Assignee, unknownValue), mdBreak)
			fmt.Fprintf(&b, "   - Deadline: %s%s", orDefault(item.Deadline, unknownValue), mdBreak)
			fmt.Fprintf(&b, "   - Priority: %s\n", item.Priority)
		}
		b.WriteString("\n")
	}

	if sel.Has(SectionDecisions) {
		b.WriteString("## Decisions\n")
		if len(a.Decisions) == 0 {
			b.WriteString(PlaceholderDecisions + "\n")
		}
		for i, d := range a.Decisions {
			fmt.Fprintf(&b, "%d. %s%s", i+1, d.Decision, mdBreak)
			fmt.Fprintf(&b, "   - Category: %s%s", orDefault(d.Category, unknownValue), mdBreak)
			fmt.Fprintf(&b, "   - Participants: %s\n", participants(d.Participants))
		}
		b.WriteString("\n")
	}

	if sel.Has(SectionTranscript) {
		b.WriteString("## Full Transcript\n")
		if len(a.Transcript.Segments) == 0 {
			b.WriteString(PlaceholderTranscript + "\n")
		}
		for _, seg := range a.Transcript.Segments {
			fmt.Fprintf(&b, "- **%s**: [%s] %s\n", orDefault(seg.Speaker, unknownValue), timestamp(seg.Start), seg.Text)
		}
		b.WriteString("\n")
	}

	if sel.Has(SectionSentiment) {
		b.WriteString("## Sentiment Analysis\n")
		if !hasSentiment(a.Sentiment) {
			b.WriteString(PlaceholderSentiment + "\n")
		} else {
			o := a.Sentiment.Overall
			b.WriteString("### Overall Sentiment\n")
			fmt.Fprintf(&b, "- Primary Tone: %s%s", orDefault(string(o.Sentiment), "N/A"), mdBreak)
			fmt.Fprintf(&b, "- Score: %s%s", percent(o.Score), mdBreak)
			fmt.Fprintf(&b, "- Confidence: %s\n", percent(o.Confidence))
			if len(a.Sentiment.Speakers) > 0 {
				b.WriteString("### Sentiment by Speaker\n")
				for _, name := range sortedSpeakers(a.Sentiment.Speakers) {
					s := a.Sentiment.Speakers[name]
					fmt.Fprintf(&b, "- **%s**: Avg Sentiment %s, Engagement %s, Dominance %s\n",
						name, percent(s.AverageSentiment), percent(s.Engagement), dominance(s.Dominance))
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
