// Package tracker answers "what moved through my accounts" for a date range,
// caching fetched results and recording each import.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cache"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/gmail"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
)

// Fetcher turns a mail query into extracted transactions.
type Fetcher interface {
	Fetch(ctx context.Context, q gmail.Query) ([]model.Transaction, error)
}

// Config tunes a Tracker.
type Config struct {
	// Source names where messages come from, recorded on import runs.
	Source         string
	AllowedSenders []string
}

// Tracker loads transactions for a query.
type Tracker struct {
	fetcher Fetcher
	cache   *cache.TTL[[]model.Transaction]
	storage service.Storage
	logger  *slog.Logger
	config  Config
}

// New creates a tracker. cache and storage may be nil to disable caching or
// persistence.
func New(fetcher Fetcher, c *cache.TTL[[]model.Transaction], storage service.Storage, config Config, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if len(config.AllowedSenders) == 0 {
		config.AllowedSenders = gmail.DefaultAllowedSenders
	}
	if config.Source == "" {
		config.Source = "gmail"
	}
	return &Tracker{
		fetcher: fetcher,
		cache:   c,
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// Transactions validates q and returns its transactions newest first.
// Identical queries within the cache TTL are served from memory.
func (t *Tracker) Transactions(ctx context.Context, q gmail.Query) ([]model.Transaction, error) {
	if err := q.Validate(t.config.AllowedSenders); err != nil {
		return nil, err
	}

	if t.cache == nil {
		return t.load(ctx, q)
	}

	return t.cache.GetOrLoad(ctx, q.Key(), func(ctx context.Context) ([]model.Transaction, error) {
		return t.load(ctx, q)
	})
}

// Summary loads q's transactions and summarizes them.
func (t *Tracker) Summary(ctx context.Context, q gmail.Query) ([]model.Transaction, model.Summary, error) {
	txns, err := t.Transactions(ctx, q)
	if err != nil {
		return nil, model.Summary{}, err
	}
	return txns, Summarize(txns, q.Start, q.End), nil
}

func (t *Tracker) load(ctx context.Context, q gmail.Query) ([]model.Transaction, error) {
	var run *service.ImportRun
	if t.storage != nil {
		var err error
		run, err = t.storage.StartImportRun(ctx, t.config.Source, q.String())
		if err != nil {
			t.logger.Warn("failed to record import run", "error", err)
		}
	}

	txns, fetchErr := t.fetcher.Fetch(ctx, q)

	if t.storage != nil && fetchErr == nil && len(txns) > 0 {
		saved, err := t.storage.SaveTransactions(ctx, txns)
		if err != nil {
			t.logger.Warn("failed to save transactions", "error", err)
		}
		if run != nil {
			run.Saved = saved
		}
	}

	if run != nil {
		run.Fetched = len(txns)
		run.FinishedAt = time.Now()
		if fetchErr != nil {
			run.ErrorDetail = fetchErr.Error()
		}
		if err := t.storage.FinishImportRun(ctx, run); err != nil {
			t.logger.Warn("failed to finish import run", "id", run.ID, "error", err)
		}
	}

	if fetchErr != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", fetchErr)
	}

	t.logger.Info("loaded transactions", "query", q.String(), "count", len(txns))
	return txns, nil
}
