package services

import (
	"context"
	"sync"
)

// LineMessage is one message sent through MockLineClient
type LineMessage struct {
	To         string
	ReplyToken string
	Text       string
}

// MockLineClient records pushes and replies
type MockLineClient struct {
	mu       sync.Mutex
	pushes   []LineMessage
	replies  []LineMessage
	Profiles map[string]*LineProfile
	PushErr  error
}

func NewMockLineClient() *MockLineClient {
	return &MockLineClient{Profiles: make(map[string]*LineProfile)}
}

func (m *MockLineClient) PushText(_ context.Context, to, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PushErr != nil {
		return m.PushErr
	}
	m.pushes = append(m.pushes, LineMessage{To: to, Text: text})
	return nil
}

func (m *MockLineClient) ReplyText(_ context.Context, replyToken, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, LineMessage{ReplyToken: replyToken, Text: text})
	return nil
}

func (m *MockLineClient) GetProfile(_ context.Context, userID string) (*LineProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile, ok := m.Profiles[userID]; ok {
		copied := *profile
		return &copied, nil
	}
	return &LineProfile{UserID: userID}, nil
}

// Pushes returns the pushed messages in order
func (m *MockLineClient) Pushes() []LineMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LineMessage(nil), m.pushes...)
}

// PushesTo returns the messages pushed to one user
func (m *MockLineClient) PushesTo(to string) []LineMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LineMessage
	for _, msg := range m.pushes {
		if msg.To == to {
			out = append(out, msg)
		}
	}
	return out
}

// Replies returns the replies in order
func (m *MockLineClient) Replies() []LineMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LineMessage(nil), m.replies...)
}
