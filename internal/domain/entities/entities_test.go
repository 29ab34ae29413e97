package entities

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInput_Validate(t *testing.T) {
	var nilInput *RawInput
	assert.ErrorIs(t, nilInput.Validate(), ErrInputRequired)
	assert.ErrorIs(t, NewTextInput("  ", "").Validate(), ErrEmptyInput)
	assert.ErrorIs(t, NewFileInput("a.mp3", nil, 0, "").Validate(), ErrFileWithoutRef)
	assert.ErrorIs(t, (&RawInput{Kind: "video"}).Validate(), ErrUnknownKind)

	assert.NoError(t, NewTextInput("hello", "").Validate())
	assert.NoError(t, NewFileInput("a.mp3", strings.NewReader("x"), 1, "audio/mpeg").Validate())
}

func TestRawInput_DisplayName(t *testing.T) {
	in := NewTextInput("hello", "")
	assert.Equal(t, DefaultTextInputName, in.DisplayName())
	assert.True(t, strings.HasPrefix(in.ID, "text-"))
	assert.False(t, in.IsFile())

	file := NewFileInput("call.wav", strings.NewReader("x"), 1, "audio/wav")
	assert.Equal(t, "call.wav", file.DisplayName())
	assert.True(t, strings.HasPrefix(file.ID, "file-"))
	assert.True(t, file.IsFile())
}

func TestAnalysisRun_Lifecycle(t *testing.T) {
	run := NewAnalysisRun(NewTextInput("hello", "notes"))
	assert.Equal(t, RunStatusPending, run.Status)
	assert.Equal(t, "notes", run.FileName)

	run.MarkAsProcessing(ProgressOf(StageAnalyzingSentiment))
	require.NotNil(t, run.StartedAt)
	assert.Equal(t, RunStatusProcessing, run.Status)
	assert.Equal(t, 80, run.Progress.Percent)

	// Stages never move backwards.
	run.MarkAsProcessing(ProgressOf(StageAnalyzingContent))
	assert.Equal(t, StageAnalyzingSentiment, run.Progress.Stage)

	run.MarkAsCompleted(&MeetingAnalysis{})
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 100, run.Progress.Percent)
	assert.True(t, run.Status.IsTerminal())

	run.MarkAsProcessing(ProgressOf(StageComplete))
	assert.Equal(t, RunStatusCompleted, run.Status)
}

func TestAnalysisRun_Failed(t *testing.T) {
	run := NewAnalysisRun(NewTextInput("hello", ""))
	run.MarkAsProcessing(ProgressOf(StageTranscribing))
	run.MarkAsFailed("UPLOAD_FAILED", "Failed to upload media")

	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Nil(t, run.Result)
	require.NotNil(t, run.Error)
	assert.Equal(t, "UPLOAD_FAILED", run.Error.Code)
	assert.Equal(t, 30, run.Progress.Percent)
}

func TestStagePercents(t *testing.T) {
	want := map[Stage]int{
		StageUploading:          10,
		StageTranscribing:       30,
		StageAnalyzingContent:   60,
		StageAnalyzingSentiment: 80,
		StageFinalizing:         80,
		StageComplete:           100,
	}
	for stage, pct := range want {
		assert.Equal(t, pct, stage.Percent(), stage)
	}
	assert.Less(t, StageAnalyzingSentiment.Order(), StageFinalizing.Order())
}

func TestAnalysisResult_Normalize(t *testing.T) {
	r := &AnalysisResult{
		ActionItems: []ActionItem{{Task: "a", Priority: "HIGH", Confidence: 3}},
		Decisions:   []Decision{{Decision: "d", Confidence: "sure"}},
	}
	r.Normalize()

	assert.Equal(t, "action-1", r.ActionItems[0].ID)
	assert.Equal(t, PriorityHigh, r.ActionItems[0].Priority)
	assert.Equal(t, 1.0, r.ActionItems[0].Confidence)
	assert.Equal(t, "decision-1", r.Decisions[0].ID)
	assert.Equal(t, ConfidenceMedium, r.Decisions[0].Confidence)
	assert.NotNil(t, r.Decisions[0].Participants)
	assert.NotNil(t, r.Summary.KeyPoints)
}

func TestSentimentResult_Normalize(t *testing.T) {
	s := &SentimentResult{
		Overall:  OverallSentiment{Sentiment: "ecstatic", Score: 4, Confidence: -1},
		Speakers: map[string]SpeakerSentiment{"A": {AverageSentiment: -3, Engagement: 2, Dominance: 140}},
	}
	s.Normalize()

	assert.Equal(t, SentimentNeutral, s.Overall.Sentiment)
	assert.Equal(t, 1.0, s.Overall.Score)
	assert.Equal(t, 0.0, s.Overall.Confidence)
	assert.Equal(t, SpeakerSentiment{AverageSentiment: -1, Engagement: 1, Dominance: 100}, s.Speakers["A"])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.Equal(t, 1.0, Clamp(math.Inf(1), 0, 1))
	assert.Equal(t, -1.0, Clamp(math.Inf(-1), -1, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), -1, 1))
	assert.Equal(t, 0.2, Clamp(math.NaN(), 0.2, 1))
}
