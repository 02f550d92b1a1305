package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/command-pidog/pidog-api/internal/httpc"
	"github.com/command-pidog/pidog-api/internal/log"
)

// Client is the HTTP-based provider for any OpenAI-compatible API.
// One configured instance serves as "ollama", another as "openrouter";
// the wire format is identical.
type Client struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer token. Local providers leave it empty.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithHeader adds an extra request header sent on every call.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a provider client.
// baseURL points at the API root, e.g. "http://localhost:11434/v1".
func NewClient(name, baseURL, model string, opts ...Option) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		http:    httpc.Client,
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Model returns the default model.
func (c *Client) Model() string {
	return c.model
}

// Available reports whether the client is usable: local providers always
// are, keyed providers only when a key is configured.
func (c *Client) Available() bool {
	return c.name == "ollama" || c.apiKey != ""
}

// Chat generates a chat completion. The caller bounds the call with a
// context deadline.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]map[string]any, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = map[string]any{
			"role":    string(msg.Role),
			"content": msg.Content,
		}
	}

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   false,
	}

	log.Info("chat request", "component", "inference", "provider", c.name, "model", model, "messages", len(req.Messages))

	result, err := c.complete(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Content:   result.Choices[0].Message.Content,
		Model:     result.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Vision analyzes one JPEG frame, base64-encoded into a data URL the way
// OpenAI-compatible vision endpoints expect.
func (c *Client) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	b64 := base64.StdEncoding.EncodeToString(req.ImageJPEG)
	content := []map[string]any{
		{"type": "text", "text": req.Prompt},
		{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:image/jpeg;base64," + b64,
			},
		},
	}

	var messages []map[string]any
	if req.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]any{"role": "user", "content": content})

	payload := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   false,
	}

	log.Info("vision request", "component", "inference", "provider", c.name, "model", model, "image_bytes", len(req.ImageJPEG))

	result, err := c.complete(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &VisionResponse{
		Content:   result.Choices[0].Message.Content,
		Model:     result.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// complete posts the payload and decodes the completion.
func (c *Client) complete(ctx context.Context, payload map[string]any) (*chatCompletionResponse, error) {
	resp, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(c.name, fmt.Errorf("decode response: %w", err))
	}
	if len(result.Choices) == 0 {
		return nil, WrapError(c.name, ErrNoChoices)
	}
	return &result, nil
}

// post makes a POST request.
func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(c.name, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(c.name, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, WrapError(c.name, err)
	}
	return resp, nil
}

// parseError extracts an APIError from a non-200 response.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   c.name,
	}
}
