package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

var errMissingJobID = errors.New("transcript id missing from response")

// AssemblyAIClient wraps the official SDK. Every call is a single round trip
// and SDK shapes never leave this file.
type AssemblyAIClient struct {
	sdk              *aai.Client
	speakersExpected int64
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
func NewAssemblyAIClient(cfg config.AssemblyAIConfig) *AssemblyAIClient {
	opts := []aai.ClientOption{
		aai.WithAPIKey(cfg.APIKey),
		aai.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}
	return &AssemblyAIClient{
		sdk:              aai.NewClientWithOptions(opts...),
		speakersExpected: cfg.SpeakersExpected,
	}
}

// Upload sends raw media bytes to AssemblyAI and returns the hosted URL.
// The name, size and content type are ignored by this backend.
func (c *AssemblyAIClient) Upload(ctx context.Context, _ string, r io.Reader, _ int64, _ string) (string, error) {
	url, err := c.sdk.Upload(ctx, r)
	if err != nil {
		return "", appErrors.ErrUploadFailed(err)
	}
	return url, nil
}

// StartJob submits audioURL for transcription with speaker labels and
// returns the provider job id.
func (c *AssemblyAIClient) StartJob(ctx context.Context, audioURL string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if c.speakersExpected > 0 {
		params.SpeakersExpected = aai.Int64(c.speakersExpected)
	}

	transcript, err := c.sdk.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", appErrors.ErrTranscriptionRequestFailed(err)
	}
	if transcript.ID == nil || *transcript.ID == "" {
		return "", appErrors.ErrTranscriptionRequestFailed(errMissingJobID)
	}
	return *transcript.ID, nil
}

// GetStatus fetches the current state of a transcription job.
func (c *AssemblyAIClient) GetStatus(ctx context.Context, jobID string) (*entities.TranscriptionJob, error) {
	transcript, err := c.sdk.Transcripts.Get(ctx, jobID)
	if err != nil {
		return nil, appErrors.ErrTranscriptionRequestFailed(err)
	}
	job := toTranscriptionJob(transcript)
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

func toTranscriptionJob(t aai.Transcript) *entities.TranscriptionJob {
	job := &entities.TranscriptionJob{
		Status: entities.TranscriptionStatus(string(t.Status)),
	}
	if t.ID != nil {
		job.ID = *t.ID
	}
	if t.Text != nil {
		job.Text = *t.Text
	}
	if t.Error != nil {
		job.Error = *t.Error
	}
	if t.AudioDuration != nil {
		d := float64(*t.AudioDuration)
		job.DurationSeconds = &d
	}

	if len(t.Words) > 0 {
		words := make([]entities.TimedWord, 0, len(t.Words))
		for _, w := range t.Words {
			word := entities.TimedWord{}
			if w.Text != nil {
				word.Text = *w.Text
			}
			if w.Start != nil {
				word.StartMs = int64(*w.Start)
			}
			if w.End != nil {
				word.EndMs = int64(*w.End)
			}
			if w.Confidence != nil {
				word.Confidence = *w.Confidence
			}
			if w.Speaker != nil {
				word.Speaker = *w.Speaker
			}
			words = append(words, word)
		}
		job.Words = words
	}
	return job
}
