package analysis

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/johnquangdev/meeting-analysis/internal/domain/entities"
	"github.com/johnquangdev/meeting-analysis/pkg/ai"
)

type fakeUploader struct {
	url  string
	err  error
	got  []byte
	name string
}

func (u *fakeUploader) Upload(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	u.name = name
	u.got, _ = io.ReadAll(r)
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

type fakeTranscriber struct {
	mu       sync.Mutex
	startErr error
	jobs     []entities.TranscriptionJob
	getErr   error
	audioURL string
	polls    int
}

func (t *fakeTranscriber) StartJob(_ context.Context, audioURL string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.audioURL = audioURL
	if t.startErr != nil {
		return "", t.startErr
	}
	return "job-1", nil
}

func (t *fakeTranscriber) GetStatus(_ context.Context, _ string) (*entities.TranscriptionJob, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.polls++
	if t.getErr != nil {
		return nil, t.getErr
	}
	i := min(t.polls, len(t.jobs)) - 1
	job := t.jobs[i]
	return &job, nil
}

// fakeCompleter answers content and sentiment prompts independently.
type fakeCompleter struct {
	mu             sync.Mutex
	contentReply   string
	contentErr     error
	sentimentReply string
	sentimentErr   error
	requests       []ai.CompletionRequest
}

func (c *fakeCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if strings.Contains(req.Prompt, "Analyze the sentiment") {
		return c.sentimentReply, c.sentimentErr
	}
	return c.contentReply, c.contentErr
}

const (
	validContentReply = `Here is the analysis:
` + "```json" + `
{
  "summary": {"executive": "Team agreed on the launch plan", "keyPoints": ["Launch in May"], "topics": ["Launch"]},
  "actionItems": [{"task": "Prepare release notes", "assignee": "Ana", "deadline": "Friday", "priority": "HIGH", "confidence": "0.9"}],
  "decisions": [{"decision": "Ship in May", "category": "strategic", "confidence": 0.85, "participants": ["Ana", "Ben"]}]
}
` + "```"

	validSentimentReply = `{"overall": {"sentiment": "positive", "score": 0.6, "confidence": 0.9},
"speakers": {"A": {"averageSentiment": 0.7, "engagement": 0.8, "dominance": 60}, "B": {"averageSentiment": 0.4, "engagement": 0.5, "dominance": 40}}}`
)
