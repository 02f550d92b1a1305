// Package inference provides a unified interface for LLM chat and vision.
//
// Both supported providers (a local Ollama instance and OpenRouter) speak
// the OpenAI-compatible /chat/completions format, so one HTTP client
// serves both; the Provider interface exists so the agent layer and tests
// never depend on the wire format.
package inference

import "context"

// Role identifies a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ChatRequest for chat completions.
type ChatRequest struct {
	// Messages is the conversation history.
	Messages []Message

	// Model overrides the provider's default model.
	Model string
}

// ChatResponse from a chat completion.
type ChatResponse struct {
	Content   string
	Model     string
	LatencyMs int64
}

// VisionRequest analyzes one JPEG frame with a text prompt.
type VisionRequest struct {
	ImageJPEG []byte
	Prompt    string
	System    string
	Model     string
}

// VisionResponse from a vision completion.
type VisionResponse struct {
	Content   string
	Model     string
	LatencyMs int64
}

// Provider is the inference capability consumed by the agent layer.
type Provider interface {
	// Name returns the provider identifier (e.g. "ollama").
	Name() string

	// Model returns the default model for this provider instance.
	Model() string

	// Available reports whether the provider is usable as configured.
	Available() bool

	// Chat generates a response from a sequence of messages.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Vision analyzes an image with a text prompt.
	Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error)
}
