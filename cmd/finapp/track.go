package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cache"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/cli"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/config"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/extract"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/gmail"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/googleauth"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/mailfile"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

// newGmailSource builds the Gmail API source; replaced in tests.
var newGmailSource = func(ctx context.Context, cfg *config.GmailConfig, logger *slog.Logger) (gmail.MessageSource, error) {
	httpClient, err := googleauth.HTTPClient(ctx, cfg.OAuth)
	if err != nil {
		return nil, err
	}

	clientCfg := gmail.DefaultClientConfig()
	clientCfg.OnReauth = func() {
		logger.Warn("Gmail rejected the stored credentials", "token_file", cfg.OAuth.TokenFile)
	}

	return gmail.NewClient(ctx, clientCfg, logger, option.WithHTTPClient(httpClient))
}

func trackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Fetch bank notifications and summarize transactions",
		Long: `Fetch bank notification emails for a date range, extract transactions,
and show a financial summary with a daily expense trend.

Messages come from Gmail unless --from-dir points at a directory of .eml files.
Extracted transactions are stored so that 'finapp history' and
'finapp export sheets' can use them later.`,
		RunE: runTrack,
	}

	addDateFlags(cmd)
	cmd.Flags().StringSlice("sender", nil, "sender address to include (repeatable, default: all allowed senders)")
	cmd.Flags().Int64("max-results", 0, "maximum messages to fetch (default: gmail.max_results)")
	cmd.Flags().String("from-dir", "", "read .eml files from this directory instead of Gmail")
	cmd.Flags().Bool("no-store", false, "do not save transactions to the database")
	cmd.Flags().Bool("no-progress", false, "hide the download progress bar")

	return cmd
}

func runTrack(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	v := viper.GetViper()
	logger := slog.Default()

	start, end, err := dateRangeFromFlags(cmd)
	if err != nil {
		return userFacing(err)
	}

	allowed := allowedSenders(v)
	senders, _ := cmd.Flags().GetStringSlice("sender")
	if len(senders) == 0 {
		senders = allowed
	}

	maxResults, _ := cmd.Flags().GetInt64("max-results")
	if maxResults <= 0 {
		maxResults = v.GetInt64("gmail.max_results")
	}

	q := gmail.Query{Start: start, End: end, Senders: senders, MaxResults: maxResults}

	source, sourceName, err := openSource(ctx, cmd, v, logger)
	if err != nil {
		return userFacing(err)
	}

	var store service.Storage
	if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
		s, storeErr := initStorage(ctx)
		if storeErr != nil {
			return storeErr
		}
		defer func() {
			if closeErr := s.Close(); closeErr != nil {
				slog.Warn("Failed to close database", "error", closeErr)
			}
		}()
		store = s
	}

	fetcher := gmail.NewFetcher(source, extract.NewDefault(logger), v.GetInt("gmail.concurrency"), logger)
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		fetcher.OnProgress(cli.NewFetchProgress(cmd.ErrOrStderr(), "Fetching messages...").Func())
	}

	txnCache := cache.New[[]model.Transaction](config.CacheTTL(v))
	defer txnCache.Close()

	tr := tracker.New(fetcher, txnCache, store, tracker.Config{
		Source:         sourceName,
		AllowedSenders: allowed,
	}, logger)

	txns, summary, err := tr.Summary(ctx, q)
	if err != nil {
		return userFacing(err)
	}

	printReport(cmd, "Transactions from "+sourceName, txns, &summary)
	return nil
}

func openSource(ctx context.Context, cmd *cobra.Command, v *viper.Viper, logger *slog.Logger) (gmail.MessageSource, string, error) {
	if dir, _ := cmd.Flags().GetString("from-dir"); dir != "" {
		src, err := mailfile.NewSource(config.ExpandPath(dir), logger)
		if err != nil {
			return nil, "", err
		}
		return src, "eml", nil
	}

	cfg, err := config.LoadGmailConfig(v)
	if err != nil {
		return nil, "", err
	}

	src, err := newGmailSource(ctx, cfg, logger)
	if err != nil {
		return nil, "", err
	}
	return src, "gmail", nil
}

func printReport(cmd *cobra.Command, title string, txns []model.Transaction, summary *model.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle(title))
	fmt.Fprintln(out, cli.RenderSummary(summary))
	if trend := cli.RenderDailyTrend(summary.DailyExpenses); trend != "" {
		fmt.Fprintln(out, trend)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, cli.RenderTransactions(txns))
}
