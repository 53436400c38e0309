// Package llm - chat.go implements Client for OpenAI-compatible chat completions endpoints.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// schemaInstruction wraps the textual schema for providers without native structured output
const schemaInstruction = `You must respond ONLY with valid JSON matching this exact schema:
%s

Do not include any markdown formatting, code blocks, or explanatory text. Return only the raw JSON object.`

// APIError is a non-2xx reply from a chat completions endpoint
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat completions API error: %d - %s", e.StatusCode, e.Body)
}

// ChatClient implements Client using an OpenAI-compatible chat completions API
type ChatClient struct {
	config     *Config
	endpoint   string
	httpClient *http.Client
}

// NewChatClient constructs a chat completions client.
// A missing key is only accepted when BaseURL points somewhere other than the public endpoint.
func NewChatClient(config *Config) (*ChatClient, error) {
	base := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if base == "" {
		base = DefaultNVIDIABaseURL
	}
	if !config.Credentialed() && base == DefaultNVIDIABaseURL {
		return nil, fmt.Errorf("nvidia: %w", ErrMissingAPIKey)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ChatClient{
		config:     config,
		endpoint:   base + "/chat/completions",
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateJSON sends one non-streaming completion and returns the first choice's content
func (c *ChatClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	system := req.System
	if req.Schema != nil {
		instruction := fmt.Sprintf(schemaInstruction, req.Schema.Describe())
		if system != "" {
			system += "\n"
		}
		system += instruction
	}

	body := chatRequest{
		Model: c.config.GetModel(),
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: c.config.Temperature,
		TopP:        c.config.TopP,
		MaxTokens:   c.config.MaxTokens,
		Stream:      false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.Credentialed() {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("chat completions request timeout: %w", err)
		}
		return "", fmt.Errorf("chat completions request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("chat completions response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completions error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response content from model")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Model returns the configured model name
func (c *ChatClient) Model() string {
	return c.config.GetModel()
}

// Close drops idle keep-alive connections
func (c *ChatClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
