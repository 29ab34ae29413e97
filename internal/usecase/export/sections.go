package export

import (
	"strings"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
)

// Section names a selectable part of a report. Metadata is always included.
type Section string

const (
	SectionSummary     Section = "summary"
	SectionActionItems Section = "actionItems"
	SectionDecisions   Section = "decisions"
	SectionTranscript  Section = "transcript"
	SectionSentiment   Section = "sentiment"
)

// AllSections in render order.
var AllSections = []Section{
	SectionSummary,
	SectionActionItems,
	SectionDecisions,
	SectionTranscript,
	SectionSentiment,
}

// Format is an export encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts the format names plus the common file extensions.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", appErrors.ErrInvalidExportFormat(s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Selection is a set of sections.
type Selection map[Section]bool

// ParseSections reads a comma separated list. An empty list selects everything.
func ParseSections(csv string) (Selection, error) {
	sel := Selection{}
	for _, raw := range strings.Split(csv, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		s, ok := lookupSection(name)
		if !ok {
			return nil, appErrors.ErrInvalidArgument("unknown section: " + name).WithDetail("section", name)
		}
		sel[s] = true
	}
	if len(sel) == 0 {
		return SelectAll(), nil
	}
	return sel, nil
}

// SelectAll selects every section.
func SelectAll() Selection {
	sel := make(Selection, len(AllSections))
	for _, s := range AllSections {
		sel[s] = true
	}
	return sel
}

// Has reports whether s is selected.
func (sel Selection) Has(s Section) bool {
	return sel[s]
}

func lookupSection(name string) (Section, bool) {
	for _, s := range AllSections {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	// snake_case alias used by query strings
	if strings.EqualFold(name, "action_items") {
		return SectionActionItems, true
	}
	return "", false
}
