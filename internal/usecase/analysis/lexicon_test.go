package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
)

func TestLexiconSentiment(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label entities.SentimentLabel
		score float64
	}{
		{"two positive words", "Good. Great job team.", entities.SentimentPositive, 0.4},
		{"single positive stays neutral", "That was good", entities.SentimentNeutral, 0.2},
		{"negative", "Terrible, awful results. Bad quarter", entities.SentimentNegative, -0.6},
		{"mixed cancels", "good and bad", entities.SentimentNeutral, 0},
		{"clamped", "great great great great great great great", entities.SentimentPositive, 1},
		{"no matches", "we met on tuesday", entities.SentimentNeutral, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LexiconSentiment(tt.text)
			assert.Equal(t, tt.label, got.Overall.Sentiment)
			assert.InDelta(t, tt.score, got.Overall.Score, 1e-9)
			assert.Equal(t, 0.8, got.Overall.Confidence)
			assert.Empty(t, got.Speakers)
		})
	}
}
