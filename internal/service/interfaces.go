// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Senders   []string
	Limit     int
}

// ImportRun records one fetch of transactions from a mail source.
type ImportRun struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	ID          string
	Query       string
	Source      string
	Fetched     int
	Saved       int
	ErrorDetail string
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)

	// Import run tracking
	StartImportRun(ctx context.Context, source, query string) (*ImportRun, error)
	FinishImportRun(ctx context.Context, run *ImportRun) error
	GetImportRuns(ctx context.Context, limit int) ([]ImportRun, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports transactions with their summary.
type ReportWriter interface {
	Write(ctx context.Context, transactions []model.Transaction, summary model.Summary) error
}

// ProgressFunc reports done out of total units of work.
type ProgressFunc func(done, total int)

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
