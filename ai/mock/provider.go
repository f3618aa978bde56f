package mock

import "github.com/douglasmakey/chatting-with-docs/ai"

// MockProvider is a test double for ai.Provider bundling the mock
// embedder and chat services.
type MockProvider struct {
	MockEmbedder *MockEmbedder
	MockChat     *MockChat
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider with fresh mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		MockEmbedder: NewMockEmbedder(),
		MockChat:     NewMockChat(),
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Chat returns the mock chat service.
func (p *MockProvider) Chat() ai.Chat {
	return p.MockChat
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
