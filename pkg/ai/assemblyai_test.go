package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

func newTestAssemblyAIClient(url string) *AssemblyAIClient {
	return NewAssemblyAIClient(config.AssemblyAIConfig{
		APIKey:           "test-key",
		BaseURL:          url,
		SpeakersExpected: 4,
	})
}

func TestStartJob_Success(t *testing.T) {
	// Mock AssemblyAI server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		assert.Equal(t, "http://example.com/audio.mp3", payload["audio_url"])
		assert.Equal(t, true, payload["speaker_labels"])
		assert.EqualValues(t, 4, payload["speakers_expected"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "transcript-123", "status": "queued"})
	}))
	defer ts.Close()

	client := newTestAssemblyAIClient(ts.URL)

	id, err := client.StartJob(context.Background(), "http://example.com/audio.mp3")
	require.NoError(t, err)
	assert.Equal(t, "transcript-123", id)
}

func TestStartJob_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid key"})
	}))
	defer ts.Close()

	_, err := newTestAssemblyAIClient(ts.URL).StartJob(context.Background(), "http://example.com/audio.mp3")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorCode_TRANSCRIPTION_REQUEST_FAILED, appErrors.CodeOf(err))
}

func TestGetStatus_TranslatesWords(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/transcript-123"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "transcript-123",
			"status": "completed",
			"text": "hello there",
			"audio_duration": 42,
			"words": [
				{"text": "hello", "start": 100, "end": 400, "confidence": 0.9, "speaker": "A"},
				{"text": "there", "start": 450, "end": 800, "confidence": 0.7}
			]
		}`))
	}))
	defer ts.Close()

	job, err := newTestAssemblyAIClient(ts.URL).GetStatus(context.Background(), "transcript-123")
	require.NoError(t, err)

	assert.Equal(t, entities.TranscriptionCompleted, job.Status)
	assert.Equal(t, "hello there", job.Text)
	require.NotNil(t, job.DurationSeconds)
	assert.Equal(t, 42.0, *job.DurationSeconds)
	require.Len(t, job.Words, 2)
	assert.Equal(t, entities.TimedWord{Text: "hello", StartMs: 100, EndMs: 400, Confidence: 0.9, Speaker: "A"}, job.Words[0])
	assert.Empty(t, job.Words[1].Speaker)
}

func TestUpload_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/upload"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example.com/abc"})
	}))
	defer ts.Close()

	url, err := newTestAssemblyAIClient(ts.URL).Upload(context.Background(), "a.mp3", strings.NewReader("bytes"), 5, "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc", url)
}

func TestUpload_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestAssemblyAIClient(ts.URL).Upload(context.Background(), "a.mp3", strings.NewReader("bytes"), 5, "audio/mpeg")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorCode_UPLOAD_FAILED, appErrors.CodeOf(err))
	assert.True(t, appErrors.IsFatal(err))
}
