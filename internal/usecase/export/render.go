package export

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Render produces the report body for format.
func Render(a *entities.MeetingAnalysis, format Format, sel Selection) ([]byte, error) {
	if a == nil {
		return nil, errors.ErrInvalidArgument("analysis is required")
	}

	switch format {
	case FormatMarkdown:
		return []byte(ToMarkdown(a, sel)), nil
	case FormatJSON:
		s, err := ToJSON(a, sel)
		if err != nil {
			return nil, errors.ErrExportFailed(string(format), err)
		}
		return []byte(s), nil
	case FormatPDF:
		var buf bytes.Buffer
		if err := ToDocument(a, sel).WritePDF(&buf); err != nil {
			return nil, errors.ErrExportFailed(string(format), err)
		}
		return buf.Bytes(), nil
	case FormatText:
		return []byte(ToText(a, sel)), nil
	default:
		return nil, errors.ErrInvalidExportFormat(string(format))
	}
}

// FileName builds the download name for a report, e.g. "weekly-sync-analysis.md".
func FileName(a *entities.MeetingAnalysis, format Format) string {
	base := ""
	if a != nil {
		base = a.Metadata.FileName
	}
	return reportBaseName(base) + "-analysis." + format.Extension()
}

func reportBaseName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '"':
			return '-'
		}
		return r
	}, strings.TrimSpace(base))
	if base == "" {
		return "meeting"
	}
	return base
}
