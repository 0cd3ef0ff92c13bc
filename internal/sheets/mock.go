package sheets

import (
	"context"
	"sync"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc        func(ctx context.Context, transactions []model.Transaction, summary model.Summary) error
	WriteCalls       []WriteCall
	LastTransactions []model.Transaction
	LastSummary      model.Summary
	WriteCallCount   int
	mu               sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error        error
	Transactions []model.Transaction
	Summary      model.Summary
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, transactions []model.Transaction, summary model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastTransactions = transactions
	m.LastSummary = summary

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, transactions, summary)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Transactions: transactions,
		Summary:      summary,
		Error:        err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, []model.Transaction, model.Summary) error {
		return err
	}
}

var _ service.ReportWriter = (*MockWriter)(nil)
