package export

import (
	"encoding/json"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// ToJSON returns the selected sections verbatim, keyed by section name, plus
// metadata. Output is indented with two spaces.
func ToJSON(a *entities.MeetingAnalysis, sel Selection) (string, error) {
	out := map[string]any{"metadata": a.Metadata}
	if sel.Has(SectionSummary) {
		out[string(SectionSummary)] = a.Summary
	}
	if sel.Has(SectionActionItems) {
		out[string(SectionActionItems)] = nonNil(a.ActionItems)
	}
	if sel.Has(SectionDecisions) {
		out[string(SectionDecisions)] = nonNil(a.Decisions)
	}
	if sel.Has(SectionTranscript) {
		out[string(SectionTranscript)] = a.Transcript
	}
	if sel.Has(SectionSentiment) {
		out[string(SectionSentiment)] = a.Sentiment
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", appErrors.ErrExportFailed(string(FormatJSON), err)
	}
	return string(b), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
