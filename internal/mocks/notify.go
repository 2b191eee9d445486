package mocks

import (
	"context"
	"sync"

	"github.com/school-news-site/internal/notify"
)

// Notification is one recorded delivery
type Notification struct {
	URL  string
	Code uint32
}

// MockNotifier records deliveries instead of sending them
type MockNotifier struct {
	mu       sync.Mutex
	Sent     []Notification
	SendFunc func(ctx context.Context, url string, code uint32) error
}

var _ notify.Notifier = (*MockNotifier)(nil)

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{Sent: make([]Notification, 0)}
}

func (m *MockNotifier) Notify(url string, code uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Notification{URL: url, Code: code})
}

func (m *MockNotifier) Send(ctx context.Context, url string, code uint32) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, url, code)
	}
	m.Notify(url, code)
	return nil
}

func (m *MockNotifier) Wait() {}

// Notifications returns a copy of the recorded deliveries
func (m *MockNotifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.Sent))
	copy(out, m.Sent)
	return out
}
