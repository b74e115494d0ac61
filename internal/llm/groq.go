package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Completer is the inference contract: an ordered transcript in, one
// completion text out. Implementations are stateless per request.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqClient calls the Groq OpenAI-compatible chat completions endpoint.
// No SDK dependency; the request surface we need is small.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

type GroqOption func(*GroqClient)

// WithBaseURL overrides the API endpoint (tests, proxies).
func WithBaseURL(u string) GroqOption {
	return func(c *GroqClient) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client, e.g. to bound request timeouts
// differently per deployment.
func WithHTTPClient(h *http.Client) GroqOption {
	return func(c *GroqClient) { c.http = h }
}

func NewGroqClient(apiKey, model string, opts ...GroqOption) *GroqClient {
	c := &GroqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGroqBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the transcript and returns the single completion text.
func (c *GroqClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("llm: empty message list")
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm: non-OK status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("llm: response contained no choices")
	}
	return out.Choices[0].Message.Content, nil
}
