package inference

import "context"

// Mock implements Provider for testing.
type Mock struct {
	// ChatFunc is called when Chat is invoked.
	ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// VisionFunc is called when Vision is invoked.
	VisionFunc func(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// NameValue and ModelValue override the reported identity.
	NameValue  string
	ModelValue string
}

// NewMock creates a mock provider with canned responses.
func NewMock() *Mock {
	return &Mock{
		ChatFunc: func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			return &ChatResponse{Content: "Mock response", Model: "mock"}, nil
		},
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
			return &VisionResponse{Content: "I see a mock image", Model: "mock"}, nil
		},
		NameValue:  "mock",
		ModelValue: "mock",
	}
}

func (m *Mock) Name() string {
	return m.NameValue
}

func (m *Mock) Model() string {
	return m.ModelValue
}

func (m *Mock) Available() bool {
	return true
}

func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	return m.ChatFunc(ctx, req)
}

func (m *Mock) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	return m.VisionFunc(ctx, req)
}
