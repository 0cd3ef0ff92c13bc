package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel message fetches.
const DefaultConcurrency = 4

// Extractor turns raw messages into sorted transactions.
type Extractor interface {
	Extract(messages []model.RawMessage) []model.Transaction
}

// Fetcher lists matching messages, fetches them in parallel and extracts
// transactions.
type Fetcher struct {
	source      MessageSource
	extractor   Extractor
	logger      *slog.Logger
	progress    service.ProgressFunc
	concurrency int
}

// NewFetcher creates a fetcher. A concurrency below 1 uses DefaultConcurrency.
func NewFetcher(source MessageSource, extractor Extractor, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		source:      source,
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// OnProgress registers fn to be called after each message fetch.
func (f *Fetcher) OnProgress(fn service.ProgressFunc) {
	f.progress = fn
}

// Fetch runs q against the source. Messages that fail to download are
// skipped; re-authentication and cancellation abort the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, q Query) ([]model.Transaction, error) {
	ids, err := f.source.List(ctx, q)
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetching messages", "count", len(ids), "concurrency", f.concurrency)

	messages := make([]*model.RawMessage, len(ids))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			msg, err := f.source.Get(gctx, id)
			if err != nil {
				if errors.Is(err, common.ErrReauthRequired) || gctx.Err() != nil {
					return err
				}
				f.logger.Warn("skipping message", "id", id, "error", err)
			} else {
				messages[i] = msg
			}

			mu.Lock()
			done++
			if f.progress != nil {
				f.progress(done, len(ids))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	fetched := make([]model.RawMessage, 0, len(messages))
	for _, msg := range messages {
		if msg != nil {
			fetched = append(fetched, *msg)
		}
	}

	transactions := f.extractor.Extract(fetched)
	f.logger.Info("extracted transactions",
		"messages", len(fetched),
		"transactions", len(transactions))

	return transactions, nil
}
