package main

import (
	"fmt"
	"log/slog"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cli"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/tracker"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored transactions or past imports",
		Long: `Show transactions saved by earlier 'finapp track' runs, without
contacting Gmail. With --runs, list past imports instead.`,
		RunE: runHistory,
	}

	addDateFlags(cmd)
	cmd.Flags().String("type", "", "only show this type (income, expense, unknown)")
	cmd.Flags().StringSlice("sender", nil, "only show these senders")
	cmd.Flags().Int("limit", 0, "maximum rows to show (0 = no limit)")
	cmd.Flags().Bool("runs", false, "list import runs instead of transactions")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()

	if runs, _ := cmd.Flags().GetBool("runs"); runs {
		importRuns, runsErr := store.GetImportRuns(ctx, limit)
		if runsErr != nil {
			return fmt.Errorf("failed to load import runs: %w", runsErr)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Import runs"))
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderImportRuns(importRuns))
		return nil
	}

	filter, err := historyFilter(cmd)
	if err != nil {
		return userFacing(err)
	}
	filter.Limit = limit

	txns, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	summary := tracker.Summarize(txns, *filter.StartDate, *filter.EndDate)
	printReport(cmd, "Transaction history", txns, &summary)
	return nil
}

func historyFilter(cmd *cobra.Command) (service.TransactionFilter, error) {
	start, end, err := dateRangeFromFlags(cmd)
	if err != nil {
		return service.TransactionFilter{}, err
	}
	// Include the whole end day.
	endOfDay := end.AddDate(0, 0, 1).Add(-1)

	filter := service.TransactionFilter{
		StartDate: &start,
		EndDate:   &endOfDay,
	}
	filter.Senders, _ = cmd.Flags().GetStringSlice("sender")

	if typ, _ := cmd.Flags().GetString("type"); typ != "" {
		t, err := model.ParseTransactionType(typ)
		if err != nil {
			return service.TransactionFilter{}, err
		}
		filter.Type = t
	}

	return filter, nil
}
