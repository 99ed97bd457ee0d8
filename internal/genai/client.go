// Package genai wraps the completion service behind a narrow interface so the
// parsing and fallback logic of the pipeline stages can be tested with canned
// responses.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"propertychat/internal/common/config"
	"propertychat/internal/common/logger"
	"propertychat/internal/common/metrics"
)

var (
	ErrCompletionFailed  = errors.New("COMPLETION_FAILED")
	ErrCompletionTimeout = errors.New("COMPLETION_TIMEOUT")
)

// Completer is the contract every pipeline stage depends on: an instruction
// plus the user's text in, raw free text out. The output has no guaranteed
// schema; callers own their own parsing and defaults.
type Completer interface {
	Complete(ctx context.Context, instruction, userText string) (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	config config.GenAIConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.GenAIConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		// No client-level timeout; every call carries a context deadline.
		client: &http.Client{},
		logger: log.With(map[string]interface{}{"component": "genai"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Complete performs a single best-effort call. There is no retry: the
// completion service is the request's critical-path latency cost, and every
// caller has a documented local default for failure.
func (c *Client) Complete(ctx context.Context, instruction, userText string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: userText},
		},
		Temperature: c.config.Temperature,
	}

	body, _ := json.Marshal(reqBody)
	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			metrics.CompletionCalls.WithLabelValues("timeout").Inc()
			return "", ErrCompletionTimeout
		}
		metrics.CompletionCalls.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.CompletionCalls.WithLabelValues("error").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("completion service returned non-OK status", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(snippet),
		})
		return "", fmt.Errorf("%w: status %d", ErrCompletionFailed, resp.StatusCode)
	}

	var apiResponse chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		metrics.CompletionCalls.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: decode error: %v", ErrCompletionFailed, err)
	}

	if len(apiResponse.Choices) == 0 {
		metrics.CompletionCalls.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: empty choices", ErrCompletionFailed)
	}

	metrics.CompletionCalls.WithLabelValues("success").Inc()
	return apiResponse.Choices[0].Message.Content, nil
}
