package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/ai"
)

var fixedNow = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

func newTestPipeline(u MediaUploader, tr Transcriber, c Completer) *Pipeline {
	return NewPipeline(u, tr, c, nil,
		WithPollPolicy(ai.PollPolicy{Interval: time.Millisecond}),
		WithClock(func() time.Time { return fixedNow }),
	)
}

type progressRecorder struct {
	stages   []entities.Stage
	percents []int
}

func (r *progressRecorder) record(p entities.Progress) {
	r.stages = append(r.stages, p.Stage)
	r.percents = append(r.percents, p.Percent)
}

func float(v float64) *float64 { return &v }

func TestPipeline_TextInput(t *testing.T) {
	completer := &fakeCompleter{contentReply: validContentReply, sentimentReply: validSentimentReply}
	p := newTestPipeline(nil, nil, completer)
	rec := &progressRecorder{}

	input := entities.NewTextInput("We agreed to ship in May. Ana will prepare release notes.", "")
	got, err := p.Run(context.Background(), input, rec.record)
	require.NoError(t, err)

	assert.Equal(t, []entities.Stage{
		entities.StageAnalyzingContent,
		entities.StageAnalyzingSentiment,
		entities.StageFinalizing,
		entities.StageComplete,
	}, rec.stages)
	assert.Equal(t, []int{60, 80, 80, 100}, rec.percents)

	assert.Equal(t, input.ID, got.Metadata.FileID)
	assert.Equal(t, entities.DefaultTextInputName, got.Metadata.FileName)
	assert.Equal(t, fixedNow, got.Metadata.ProcessedAt)
	assert.Equal(t, 30, got.Metadata.Duration)
	// two speakers reported by sentiment analysis
	assert.Equal(t, 2, got.Metadata.Participants)
	assert.Len(t, got.Transcript.Speakers, 2)
	assert.Len(t, got.Transcript.Segments, 2)
	assert.Equal(t, "Team agreed on the launch plan", got.Summary.Executive)
	assert.Equal(t, entities.SentimentPositive, got.Sentiment.Overall.Sentiment)
}

func TestPipeline_FileInput(t *testing.T) {
	uploader := &fakeUploader{url: "https://media.test/recording.mp3"}
	transcriber := &fakeTranscriber{jobs: []entities.TranscriptionJob{
		{ID: "job-1", Status: entities.TranscriptionQueued},
		{ID: "job-1", Status: entities.TranscriptionProcessing},
		{
			ID:              "job-1",
			Status:          entities.TranscriptionCompleted,
			Text:            "hi hello",
			DurationSeconds: float(12.3),
			Words: []entities.TimedWord{
				{Text: "hi", StartMs: 0, EndMs: 500, Confidence: 0.9, Speaker: "A"},
				{Text: "hello", StartMs: 600, EndMs: 1200, Confidence: 0.8, Speaker: "B"},
			},
		},
	}}
	completer := &fakeCompleter{contentReply: validContentReply, sentimentReply: validSentimentReply}
	rec := &progressRecorder{}

	input := entities.NewFileInput("standup.mp3", strings.NewReader("audio-bytes"), 11, "audio/mpeg")
	got, err := newTestPipeline(uploader, transcriber, completer).Run(context.Background(), input, rec.record)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 30, 60, 80, 80, 100}, rec.percents)
	assert.Equal(t, "audio-bytes", string(uploader.got))
	assert.Equal(t, "standup.mp3", uploader.name)
	assert.Equal(t, uploader.url, transcriber.audioURL)
	assert.Equal(t, 3, transcriber.polls)

	assert.Equal(t, "standup.mp3", got.Metadata.FileName)
	assert.Equal(t, 13, got.Metadata.Duration)
	assert.Equal(t, 2, got.Metadata.Participants)
	require.Len(t, got.Transcript.Segments, 2)
	assert.Equal(t, "A", got.Transcript.Segments[0].Speaker)
	assert.Equal(t, "hi hello", got.Transcript.FullText)
}

func TestPipeline_UploadFailureIsFatal(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("bucket unreachable")}
	transcriber := &fakeTranscriber{}

	input := entities.NewFileInput("a.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	got, err := newTestPipeline(uploader, transcriber, &fakeCompleter{}).Run(context.Background(), input, nil)

	assert.Nil(t, got)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_UPLOAD_FAILED))
	assert.True(t, appErrors.IsFatal(err))
	assert.Zero(t, transcriber.polls)
}

func TestPipeline_TranscriptionErrorWithoutText(t *testing.T) {
	transcriber := &fakeTranscriber{jobs: []entities.TranscriptionJob{
		{ID: "job-1", Status: entities.TranscriptionError, Error: "audio too short"},
	}}
	completer := &fakeCompleter{}

	input := entities.NewFileInput("a.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	got, err := newTestPipeline(&fakeUploader{url: "u"}, transcriber, completer).Run(context.Background(), input, nil)

	assert.Nil(t, got)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_TRANSCRIPTION_UNRECOVERABLE))
	assert.Empty(t, completer.requests)
}

func TestPipeline_TranscriptionErrorWithPartialText(t *testing.T) {
	transcriber := &fakeTranscriber{jobs: []entities.TranscriptionJob{
		{ID: "job-1", Status: entities.TranscriptionError, Error: "cut off", Text: "good meeting everyone"},
	}}
	completer := &fakeCompleter{contentReply: validContentReply, sentimentReply: `{}`}

	input := entities.NewFileInput("a.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	got, err := newTestPipeline(&fakeUploader{url: "u"}, transcriber, completer).Run(context.Background(), input, nil)
	require.NoError(t, err)

	require.Len(t, got.Transcript.Segments, 1)
	assert.Equal(t, 0.8, got.Transcript.Segments[0].Confidence)
	assert.Equal(t, "good meeting everyone", got.Transcript.Segments[0].Text)
	assert.Equal(t, 1, got.Metadata.Participants)
}

func TestPipeline_StartJobFailure(t *testing.T) {
	transcriber := &fakeTranscriber{startErr: appErrors.ErrTranscriptionRequestFailed(errors.New("503"))}

	input := entities.NewFileInput("a.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	got, err := newTestPipeline(&fakeUploader{url: "u"}, transcriber, &fakeCompleter{}).Run(context.Background(), input, nil)

	assert.Nil(t, got)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_TRANSCRIPTION_UNRECOVERABLE))
}

func TestPipeline_EmptyTranscript(t *testing.T) {
	transcriber := &fakeTranscriber{jobs: []entities.TranscriptionJob{
		{ID: "job-1", Status: entities.TranscriptionCompleted, Text: "  "},
	}}

	input := entities.NewFileInput("silence.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	got, err := newTestPipeline(&fakeUploader{url: "u"}, transcriber, &fakeCompleter{}).Run(context.Background(), input, nil)

	assert.Nil(t, got)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_NO_ANALYZABLE_TEXT))
}

func TestPipeline_ContentNetworkErrorFallsBack(t *testing.T) {
	completer := &fakeCompleter{
		contentErr:     errors.New("connection reset"),
		sentimentReply: validSentimentReply,
	}

	got, err := newTestPipeline(nil, nil, completer).Run(context.Background(), entities.NewTextInput("Good. Great job team.", "notes.txt"), nil)
	require.NoError(t, err)

	assert.Equal(t, entities.FallbackExecutiveSummary, got.Summary.Executive)
	assert.Equal(t, []string{entities.FallbackKeyPoint}, got.Summary.KeyPoints)
	assert.Empty(t, got.ActionItems)
	assert.Empty(t, got.Decisions)
	// sentiment still ran
	assert.Len(t, completer.requests, 2)
	assert.Equal(t, 0.6, got.Sentiment.Overall.Score)
}

func TestPipeline_SentimentFallbacks(t *testing.T) {
	t.Run("request failure uses lexicon", func(t *testing.T) {
		completer := &fakeCompleter{contentReply: validContentReply, sentimentErr: errors.New("timeout")}
		got, err := newTestPipeline(nil, nil, completer).Run(context.Background(), entities.NewTextInput("Good. Great job team.", ""), nil)
		require.NoError(t, err)
		assert.Equal(t, entities.SentimentPositive, got.Sentiment.Overall.Sentiment)
		assert.InDelta(t, 0.4, got.Sentiment.Overall.Score, 1e-9)
		assert.Equal(t, 0.8, got.Sentiment.Overall.Confidence)
	})

	t.Run("unparseable reply uses neutral default", func(t *testing.T) {
		completer := &fakeCompleter{contentReply: validContentReply, sentimentReply: "no idea"}
		got, err := newTestPipeline(nil, nil, completer).Run(context.Background(), entities.NewTextInput("Good. Great job team.", ""), nil)
		require.NoError(t, err)
		assert.Equal(t, *entities.NewNeutralSentiment(), got.Sentiment)
	})
}

func TestPipeline_WordEstimates(t *testing.T) {
	completer := &fakeCompleter{contentErr: errors.New("down"), sentimentErr: errors.New("down")}

	got, err := newTestPipeline(nil, nil, completer).Run(context.Background(), entities.NewTextInput(words(750), ""), nil)
	require.NoError(t, err)

	assert.Equal(t, 300, got.Metadata.Duration)
	assert.Equal(t, 3, got.Metadata.Participants)
	assert.Equal(t, []entities.Speaker{
		{ID: "spk-1", Name: "Speaker 1"},
		{ID: "spk-2", Name: "Speaker 2"},
		{ID: "spk-3", Name: "Speaker 3"},
	}, got.Transcript.Speakers)
}

func TestPipeline_NilInput(t *testing.T) {
	_, err := newTestPipeline(nil, nil, &fakeCompleter{}).Run(context.Background(), nil, nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrorCode_INVALID_ARGUMENT))
}
