// Package llm implements the chat-completions client used for every
// language-model call in the pipeline. Both configured backends (research and
// editorial) speak the same wire contract: a single user message in, the
// first choice's message text out.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pressgen/internal/config"
)

// Client talks to one chat-completions backend.
type Client struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
}

// chatRequest is the request body for POST /chat/completions.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is one message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the response body the pipeline consumes.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a client for the given endpoint configuration.
func NewClient(endpoint config.Endpoint) *Client {
	return &Client{
		baseURL:      strings.TrimRight(endpoint.BaseURL, "/"),
		apiKey:       endpoint.APIKey,
		defaultModel: endpoint.Model,
		httpClient: &http.Client{
			Timeout: endpoint.TimeoutDuration(),
		},
	}
}

// NewClientWithHTTP creates a client with an explicit http.Client, used by
// tests to point at a fake backend.
func NewClientWithHTTP(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		defaultModel: model,
		httpClient:   httpClient,
	}
}

// Model returns the backend's configured default model identifier.
func (c *Client) Model() string {
	return c.defaultModel
}

// Complete sends the prompt as a single user message and returns the first
// choice's message text. Any non-2xx status, malformed body or empty result
// is an error; there is no internal retry.
func (c *Client) Complete(ctx context.Context, model string, prompt string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion request returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response body: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty message", model)
	}

	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
