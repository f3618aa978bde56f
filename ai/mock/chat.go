package mock

import "context"

// MockChat is a test double for ai.Chat.
type MockChat struct {
	// ReplyFunc is called by Reply if set. If nil, Reply echoes the
	// user message prefixed with "answer: ".
	ReplyFunc func(ctx context.Context, system, user string) (string, error)

	// Calls records the (system, user) pairs passed to Reply.
	Calls []ChatCall
}

// ChatCall is one recorded Reply invocation.
type ChatCall struct {
	System string
	User   string
}

// NewMockChat creates a mock chat client with default echo behavior.
func NewMockChat() *MockChat {
	return &MockChat{}
}

// Reply records the call and returns the injected or default response.
func (m *MockChat) Reply(ctx context.Context, system, user string) (string, error) {
	m.Calls = append(m.Calls, ChatCall{System: system, User: user})

	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, system, user)
	}
	return "answer: " + user, nil
}
