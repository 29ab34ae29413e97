package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/internal/observability"
	"github.com/johnquangdev/meeting-analysis/pkg/ai"
)

const (
	contentAnalyzerName   = "content"
	sentimentAnalyzerName = "sentiment"
)

// Sampling parameters per analyzer.
var (
	contentRequest   = ai.CompletionRequest{Temperature: 0.3, MaxTokens: 2000}
	sentimentRequest = ai.CompletionRequest{Temperature: 0.2, MaxTokens: 1000}
)

// ContentAnalyzer extracts summary, action items and decisions.
type ContentAnalyzer struct {
	completer Completer
}

// NewContentAnalyzer creates a ContentAnalyzer
func NewContentAnalyzer(c Completer) *ContentAnalyzer {
	return &ContentAnalyzer{completer: c}
}

// Analyze returns a normalized AnalysisResult. Errors are either
// COMPLETION_REQUEST_FAILED or ANALYSIS_PARSE_FAILED.
func (a *ContentAnalyzer) Analyze(ctx context.Context, transcript string) (*entities.AnalysisResult, error) {
	reply, err := complete(ctx, a.completer, contentPrompt, contentRequest, transcript)
	if err != nil {
		return nil, err
	}

	var parsed contentReply
	if err := ParseModelJSON(contentAnalyzerName, reply, &parsed); err != nil {
		return nil, err
	}

	result := parsed.toEntity()
	result.Normalize()
	return result, nil
}

// SentimentAnalyzer scores overall and per-speaker sentiment.
type SentimentAnalyzer struct {
	completer Completer
}

// NewSentimentAnalyzer creates a SentimentAnalyzer
func NewSentimentAnalyzer(c Completer) *SentimentAnalyzer {
	return &SentimentAnalyzer{completer: c}
}

// Analyze returns a sentiment result with missing fields defaulted and all
// numbers clamped. Errors are either COMPLETION_REQUEST_FAILED or
// ANALYSIS_PARSE_FAILED.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, transcript string) (*entities.SentimentResult, error) {
	reply, err := complete(ctx, a.completer, sentimentPrompt, sentimentRequest, transcript)
	if err != nil {
		return nil, err
	}

	var parsed sentimentReply
	if err := ParseModelJSON(sentimentAnalyzerName, reply, &parsed); err != nil {
		return nil, err
	}

	result := parsed.toEntity()
	result.Normalize()
	return result, nil
}

func complete(ctx context.Context, c Completer, tmpl *template.Template, params ai.CompletionRequest, transcript string) (string, error) {
	prompt, err := renderPrompt(tmpl, transcript)
	if err != nil {
		return "", appErrors.ErrInternal(fmt.Errorf("render prompt: %w", err))
	}
	params.Prompt = prompt

	reply, err := c.Complete(ctx, params)
	observability.RecordProviderRequest("completion", err)
	if err != nil {
		if appErrors.CodeOf(err) != appErrors.ErrorCode_COMPLETION_REQUEST_FAILED {
			err = appErrors.ErrCompletionRequestFailed(err)
		}
		return "", err
	}
	return reply, nil
}

// Wire shapes of the model replies. Every leaf is lenient: a field of the
// wrong type degrades to its default instead of failing the whole reply.

type contentReply struct {
	Summary struct {
		Executive flexString  `json:"executive"`
		KeyPoints flexStrings `json:"keyPoints"`
		Topics    flexStrings `json:"topics"`
	} `json:"summary"`
	ActionItems []struct {
		ID         flexString `json:"id"`
		Task       flexString `json:"task"`
		Assignee   flexString `json:"assignee"`
		Deadline   flexString `json:"deadline"`
		Priority   flexString `json:"priority"`
		Context    flexString `json:"context"`
		Confidence flexFloat  `json:"confidence"`
	} `json:"actionItems"`
	Decisions []struct {
		ID           flexString  `json:"id"`
		Decision     flexString  `json:"decision"`
		Category     flexString  `json:"category"`
		Confidence   flexLevel   `json:"confidence"`
		Context      flexString  `json:"context"`
		Participants flexStrings `json:"participants"`
	} `json:"decisions"`
}

func (r *contentReply) toEntity() *entities.AnalysisResult {
	out := &entities.AnalysisResult{
		Summary: entities.Summary{
			Executive: string(r.Summary.Executive),
			KeyPoints: r.Summary.KeyPoints,
			Topics:    r.Summary.Topics,
		},
		ActionItems: make([]entities.ActionItem, 0, len(r.ActionItems)),
		Decisions:   make([]entities.Decision, 0, len(r.Decisions)),
	}
	for _, item := range r.ActionItems {
		out.ActionItems = append(out.ActionItems, entities.ActionItem{
			ID:         string(item.ID),
			Task:       string(item.Task),
			Assignee:   string(item.Assignee),
			Deadline:   string(item.Deadline),
			Priority:   entities.Priority(item.Priority),
			Context:    string(item.Context),
			Confidence: item.Confidence.or(0),
		})
	}
	for _, d := range r.Decisions {
		out.Decisions = append(out.Decisions, entities.Decision{
			ID:           string(d.ID),
			Decision:     string(d.Decision),
			Category:     string(d.Category),
			Confidence:   entities.ConfidenceLevel(d.Confidence),
			Context:      string(d.Context),
			Participants: d.Participants,
		})
	}
	return out
}

type sentimentReply struct {
	Overall *struct {
		Sentiment  *flexString `json:"sentiment"`
		Score      *flexFloat  `json:"score"`
		Confidence *flexFloat  `json:"confidence"`
	} `json:"overall"`
	Speakers map[string]struct {
		AverageSentiment flexFloat `json:"averageSentiment"`
		Engagement       flexFloat `json:"engagement"`
		Dominance        flexFloat `json:"dominance"`
	} `json:"speakers"`
}

func (r *sentimentReply) toEntity() *entities.SentimentResult {
	out := entities.NewNeutralSentiment()
	if r.Overall != nil {
		if r.Overall.Sentiment != nil {
			out.Overall.Sentiment = entities.ParseSentimentLabel(strings.ToLower(strings.TrimSpace(string(*r.Overall.Sentiment))))
		}
		if r.Overall.Score != nil {
			out.Overall.Score = r.Overall.Score.or(entities.DefaultSentimentScore)
		}
		if r.Overall.Confidence != nil {
			out.Overall.Confidence = r.Overall.Confidence.or(entities.DefaultSentimentConfidence)
		}
	}
	for name, sp := range r.Speakers {
		out.Speakers[name] = entities.SpeakerSentiment{
			AverageSentiment: sp.AverageSentiment.or(0),
			Engagement:       sp.Engagement.or(0),
			Dominance:        sp.Dominance.or(0),
		}
	}
	return out
}

// Numeric values for confidence words.
var levelScores = map[string]float64{
	string(entities.ConfidenceHigh):   0.9,
	string(entities.ConfidenceMedium): 0.6,
	string(entities.ConfidenceLow):    0.3,
}

// flexFloat accepts a JSON number, a numeric string or a high|medium|low
// word. Anything else, NaN and infinities included, is stored as NaN and
// replaced by the caller's default.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(math.NaN())

	switch x := v.(type) {
	case nil:
		*f = 0
	case float64:
		*f = flexFloat(x)
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		if score, ok := levelScores[s]; ok {
			*f = flexFloat(score)
			return nil
		}
		if n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
			*f = flexFloat(n)
		}
	}
	return nil
}

// or returns f, or def when f is not a finite number.
func (f flexFloat) or(def float64) float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// flexString accepts any scalar. Lists are joined with ", ", objects are dropped.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = flexString(stringify(v))
	return nil
}

// flexStrings accepts a list of scalars or a single scalar.
type flexStrings []string

func (l *flexStrings) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = nil

	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	for _, item := range items {
		if s := stringify(item); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// flexLevel accepts a high|medium|low string or a 0..1 number.
type flexLevel string

func (l *flexLevel) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, ok := raw.(float64)
	if !ok {
		*l = flexLevel(stringify(raw))
		return nil
	}
	switch {
	case v >= 0.8:
		*l = flexLevel(entities.ConfidenceHigh)
	case v >= 0.5:
		*l = flexLevel(entities.ConfidenceMedium)
	default:
		*l = flexLevel(entities.ConfidenceLow)
	}
	return nil
}
