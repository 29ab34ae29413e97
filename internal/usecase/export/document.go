package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Page layout in millimetres on A4 portrait.
const (
	WrapColumns  = 90
	LineHeight   = 7.0
	PageBreakY   = 280.0
	TopMargin    = 10.0
	LeftMargin   = 15.0
	paragraphGap = 3.0

	titleSize   = 16.0
	headingSize = 14.0
	bodySize    = 12.0
)

// Line is one laid out line of text.
type Line struct {
	Text string
	Y    float64
	Size float64
	Bold bool
}

// Page holds the lines placed on one page.
type Page struct {
	Lines []Line
}

// Document is a paginated report. Layout is computed once so it can be
// inspected without rendering.
type Document struct {
	Pages []Page
}

type layout struct {
	doc *Document
	y   float64
}

func newLayout() *layout {
	return &layout{doc: &Document{Pages: []Page{{}}}, y: TopMargin}
}

func (l *layout) write(text string, size float64, bold bool) {
	for _, line := range wrap(text, WrapColumns) {
		if l.y > PageBreakY {
			l.doc.Pages = append(l.doc.Pages, Page{})
			l.y = TopMargin
		}
		page := &l.doc.Pages[len(l.doc.Pages)-1]
		page.Lines = append(page.Lines, Line{Text: line, Y: l.y, Size: size, Bold: bold})
		l.y += LineHeight
	}
	l.y += paragraphGap
}

func (l *layout) heading(text string) { l.write(text, headingSize, true) }

func (l *layout) subheading(text string) { l.write(text, bodySize, true) }

func (l *layout) body(text string) { l.write(text, bodySize, false) }

// ToDocument lays out a paginated report.
func ToDocument(a *entities.MeetingAnalysis, sel Selection) *Document {
	l := newLayout()
	l.write("Meeting Analysis Report", titleSize, true)
	l.body("Date: " + reportDate(a))
	l.body("File: " + fileName(a))

	if sel.Has(SectionSummary) {
		l.heading("Executive Summary")
		l.body(orDefault(a.Summary.Executive, PlaceholderSummary))
		if len(a.Summary.KeyPoints) > 0 {
			l.heading("Key Points")
			for i, p := range a.Summary.KeyPoints {
				l.body(fmt.Sprintf("%d. %s", i+1, p))
			}
		}
	}

	if sel.Has(SectionActionItems) {
		l.heading("Action Items")
		if len(a.ActionItems) == 0 {
			l.body(PlaceholderActionItems)
		}
		for i, item := range a.ActionItems {
			l.subheading(fmt.Sprintf("%d. %s", i+1, item.Task))
			l.body("Assignee: " + orDefault(item.Assignee, unknownValue))
			l.body("Deadline: " + orDefault(item.Deadline, unknownValue))
			l.body("Priority: " + string(item.Priority))
		}
	}

	if sel.Has(SectionDecisions) {
		l.heading("Decisions")
		if len(a.Decisions) == 0 {
			l.body(PlaceholderDecisions)
		}
		for i, d := range a.Decisions {
			l.subheading(fmt.Sprintf("%d. %s", i+1, d.Decision))
			l.body("Category: " + orDefault(d.Category, unknownValue))
			l.body("Participants: " + participants(d.Participants))
		}
	}

	if sel.Has(SectionTranscript) {
		l.heading("Full Transcript")
		if len(a.Transcript.Segments) == 0 {
			l.body(PlaceholderTranscript)
		}
		for _, seg := range a.Transcript.Segments {
			l.body(fmt.Sprintf("- %s: [%s] %s", orDefault(seg.Speaker, unknownValue), timestamp(seg.Start), seg.Text))
		}
	}

	if sel.Has(SectionSentiment) {
		l.heading("Sentiment Analysis")
		if !hasSentiment(a.Sentiment) {
			l.body(PlaceholderSentiment)
		} else {
			o := a.Sentiment.Overall
			l.subheading("Overall Sentiment")
			l.body("Primary Tone: " + orDefault(string(o.Sentiment), "N/A"))
			l.body("Score: " + percent(o.Score))
			l.body("Confidence: " + percent(o.Confidence))
			if len(a.Sentiment.Speakers) > 0 {
				l.subheading("Sentiment by Speaker")
				for _, name := range sortedSpeakers(a.Sentiment.Speakers) {
					l.body("- " + speakerLine(name, a.Sentiment.Speakers[name]))
				}
			}
		}
	}

	return l.doc
}

// WritePDF renders the document with the core Helvetica font.
func (d *Document) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(LeftMargin, TopMargin, LeftMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range d.Pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			style := ""
			if line.Bold {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, line.Size)
			pdf.Text(LeftMargin, line.Y, tr(line.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return appErrors.ErrExportFailed(string(FormatPDF), err)
	}
	return nil
}

// wrap breaks text on spaces so no line exceeds width runes. Words longer
// than width are split.
func wrap(text string, width int) []string {
	var (
		lines []string
		cur   strings.Builder
		n     int
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		n = 0
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > width {
			if n > 0 {
				flush()
			}
			runes := []rune(word)
			cur.WriteString(string(runes[:width]))
			flush()
			word = string(runes[width:])
		}
		wn := utf8.RuneCountInString(word)
		if n > 0 && n+1+wn > width {
			flush()
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wn
	}
	if n > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
