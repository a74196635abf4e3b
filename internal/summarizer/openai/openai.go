// Package openai implements the summarizer on an OpenAI-compatible
// chat-completions API.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/summerlog/summerlog/internal/httpclient"
	"github.com/summerlog/summerlog/internal/summarizer"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	systemPrompt = "You are a concise, practical SRE assistant who provides summaries in Markdown."

	temperature = 0.2
	maxTokens   = 1024
)

// Config holds connection settings for the chat-completions endpoint.
type Config struct {
	BaseURL string // defaults to the OpenAI public API
	APIKey  string
	Model   string        // defaults to gpt-4o-mini
	Timeout time.Duration // whole-call budget, 0 means the client default
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	http  *httpclient.Client
	model string
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	var opts []httpclient.Option
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}

	return &Client{
		http:  httpclient.New(strings.TrimSuffix(baseURL, "/"), cfg.APIKey, opts...),
		model: model,
	}
}

// Request/response types (unexported).

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Summarize sends the prompt and returns the model's markdown summary.
// Every failure mode comes back as a *summarizer.Error.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var resp chatResponse
	if err := c.http.PostJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", &summarizer.Error{Op: "chat completion", Err: err}
	}

	if resp.Error != nil {
		return "", &summarizer.Error{Op: "chat completion", Err: errors.New(resp.Error.Message)}
	}
	if len(resp.Choices) == 0 {
		return "", &summarizer.Error{Op: "chat completion", Err: errors.New("response contained no choices")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &summarizer.Error{Op: "chat completion", Err: errors.New("response contained an empty summary")}
	}
	return text, nil
}
