package gmail

import (
	"context"
	"fmt"
	"sync"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// MockSource is a mock implementation of MessageSource for testing.
type MockSource struct {
	// Functions that can be set by tests to control behavior
	ListFn func(ctx context.Context, q Query) ([]string, error)
	GetFn  func(ctx context.Context, id string) (*model.RawMessage, error)

	messages map[string]model.RawMessage
	order    []string

	// Call tracking
	ListCalls []Query
	GetCalls  []string
	mu        sync.Mutex
}

// NewMockSource creates a mock serving messages in the given order.
func NewMockSource(messages ...model.RawMessage) *MockSource {
	m := &MockSource{messages: make(map[string]model.RawMessage, len(messages))}
	for _, msg := range messages {
		m.messages[msg.ID] = msg
		m.order = append(m.order, msg.ID)
	}
	return m
}

// List implements MessageSource.List.
func (m *MockSource) List(ctx context.Context, q Query) ([]string, error) {
	m.mu.Lock()
	m.ListCalls = append(m.ListCalls, q)
	m.mu.Unlock()

	if m.ListFn != nil {
		return m.ListFn(ctx, q)
	}

	ids := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if int64(len(ids)) == q.Limit() {
			break
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get implements MessageSource.Get.
func (m *MockSource) Get(ctx context.Context, id string) (*model.RawMessage, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	m.mu.Unlock()

	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}

	msg, ok := m.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return &msg, nil
}

// GetCallCount returns the number of Get calls so far.
func (m *MockSource) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetCalls)
}

// Reset clears all call tracking.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = nil
	m.GetCalls = nil
}

var _ MessageSource = (*MockSource)(nil)
