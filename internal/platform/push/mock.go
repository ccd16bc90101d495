package push

import (
	"context"
	"errors"
	"sync"
)

// MockSender records sent notifications for tests.
type MockSender struct {
	mu         sync.Mutex
	Sent       []Notification
	ShouldFail bool
}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errors.New("mock send failure")
	}
	m.Sent = append(m.Sent, n)
	return nil
}

func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
