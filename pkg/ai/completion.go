package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/johnquangdev/meeting-analysis/errors"
	"github.com/johnquangdev/meeting-analysis/pkg/config"
)

// CompletionClient is a minimal client for OpenAI-compatible chat completion
// APIs (OpenRouter by default).
type CompletionClient struct {
	apiKey  string
	baseURL string
	model   string
	referer string
	title   string
	client  *http.Client
}

// NewCompletionClient creates a completion client using values from the provided config.
func NewCompletionClient(cfg config.CompletionConfig) *CompletionClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CompletionClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		referer: cfg.Referer,
		title:   cfg.Title,
		client:  &http.Client{Timeout: timeout},
	}
}

// CompletionRequest is one single-message prompt
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ChatMessage is one entry of the messages array
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the assistant content verbatim.
// Any transport or protocol failure is COMPLETION_REQUEST_FAILED.
func (c *CompletionClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    []ChatMessage{{Role: "user", Content: in.Prompt}},
		Temperature: in.Temperature,
		MaxTokens:   in.MaxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", appErrors.ErrCompletionRequestFailed(err)
	}

	endpoint := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", appErrors.ErrCompletionRequestFailed(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", appErrors.ErrCompletionRequestFailed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", appErrors.ErrCompletionRequestFailed(fmt.Errorf("completion API returned status %d", resp.StatusCode)).
			WithDetail("status", fmt.Sprint(resp.StatusCode))
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", appErrors.ErrCompletionRequestFailed(err)
	}
	if len(cr.Choices) == 0 {
		return "", appErrors.ErrCompletionRequestFailed(fmt.Errorf("empty response from completion API"))
	}
	return cr.Choices[0].Message.Content, nil
}
