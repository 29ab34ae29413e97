package analysis

import (
	"strings"
	"unicode"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

// Lexicon scoring constants.
const (
	lexiconWeight     = 0.2
	lexiconThreshold  = 0.2
	LexiconConfidence = 0.8
)

var (
	positiveWords = map[string]struct{}{"good": {}, "great": {}, "excellent": {}, "happy": {}, "awesome": {}}
	negativeWords = map[string]struct{}{"bad": {}, "terrible": {}, "awful": {}, "sad": {}, "poor": {}}
)

// LexiconSentiment scores text by counting a fixed set of positive and
// negative words. Tokens are whitespace separated, lowercased and stripped
// of surrounding punctuation. The score is (positive-negative)*0.2 clamped to
// [-1,1]; above 0.2 is positive, below -0.2 negative.
func LexiconSentiment(text string) *entities.SentimentResult {
	var pos, neg int
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if _, ok := positiveWords[token]; ok {
			pos++
		}
		if _, ok := negativeWords[token]; ok {
			neg++
		}
	}

	score := entities.Clamp(float64(pos-neg)*lexiconWeight, -1, 1)
	label := entities.SentimentNeutral
	switch {
	case score > lexiconThreshold:
		label = entities.SentimentPositive
	case score < -lexiconThreshold:
		label = entities.SentimentNegative
	}

	return &entities.SentimentResult{
		Overall: entities.OverallSentiment{
			Sentiment:  label,
			Score:      score,
			Confidence: LexiconConfidence,
		},
		Speakers: map[string]entities.SpeakerSentiment{},
	}
}
