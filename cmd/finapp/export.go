package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/cli"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/config"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/sheets"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/tracker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newReportWriter builds the Sheets writer; replaced in tests.
var newReportWriter = func(ctx context.Context, cfg *sheets.Config, logger *slog.Logger) (service.ReportWriter, error) {
	return sheets.NewWriter(ctx, *cfg, logger)
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored transactions",
	}

	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export stored transactions and their summary to Google Sheets",
		Long: `Write the transactions saved by 'finapp track' for a date range to a
Google Sheets spreadsheet, together with the financial summary.

The spreadsheet named by sheets.spreadsheet_id is reused; otherwise a new
one named sheets.spreadsheet_name is created.`,
		RunE: runExportSheets,
	}

	addDateFlags(cmd)
	cmd.Flags().String("type", "", "only export this type (income, expense, unknown)")
	cmd.Flags().StringSlice("sender", nil, "only export these senders")

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter, err := historyFilter(cmd)
	if err != nil {
		return userFacing(err)
	}

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return userFacing(err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}()

	txns, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txns) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No stored transactions in range. Run 'finapp track' first."))
		return nil
	}

	writer, err := newReportWriter(ctx, sheetsCfg, slog.Default())
	if err != nil {
		return userFacing(err)
	}

	summary := tracker.Summarize(txns, *filter.StartDate, *filter.EndDate)
	if err := writer.Write(ctx, txns, summary); err != nil {
		return fmt.Errorf("failed to export to sheets: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to Google Sheets", len(txns))))
	return nil
}
