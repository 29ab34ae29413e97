package analysis

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?[ \\t]*\\r?\\n(.*?)\\r?\\n?```")

// ParseModelJSON decodes a free-form model reply into v. Attempts, first
// success wins: the whole text, the first fenced code block, then the span
// from the first '{' or '[' to the last '}' or ']'. When all fail the error
// is ANALYSIS_PARSE_FAILED.
func ParseModelJSON(analyzer, text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return appErrors.ErrAnalysisParseFailed(analyzer, fmt.Errorf("empty model reply"))
	}

	firstErr := decodeFresh(text, v)
	if firstErr == nil {
		return nil
	}

	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if err := decodeFresh(strings.TrimSpace(m[1]), v); err == nil {
			return nil
		}
	}

	if candidate, ok := braceSpan(text); ok {
		if err := decodeFresh(candidate, v); err == nil {
			return nil
		}
	}

	resetValue(v)
	return appErrors.ErrAnalysisParseFailed(analyzer, firstErr)
}

// decodeFresh unmarshals into a zeroed v so a failed attempt leaves nothing behind.
func decodeFresh(text string, v any) error {
	resetValue(v)
	return json.Unmarshal([]byte(text), v)
}

func resetValue(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	}
}

// braceSpan returns text from the first opening brace or bracket to the last
// closing one.
func braceSpan(text string) (string, bool) {
	start := -1
	for _, open := range []string{"{", "["} {
		if i := strings.Index(text, open); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	end := max(strings.LastIndex(text, "}"), strings.LastIndex(text, "]"))
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
