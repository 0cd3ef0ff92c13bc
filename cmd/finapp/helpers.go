package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/config"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/gmail"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	dateLayout       = time.DateOnly
	defaultRangeDays = 30
	maxLookbackDays  = 365
)

// now is replaced in tests.
var now = time.Now

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())
	slog.Debug("Opening database", "path", dbPath)

	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// parseDateRange resolves --from/--to. Missing values default to the last 30
// days ending today. The range may not reach more than a year back or end in
// the future.
func parseDateRange(from, to string, today time.Time) (time.Time, time.Time, error) {
	loc := today.Location()
	y, m, d := today.Date()
	today = time.Date(y, m, d, 0, 0, 0, 0, loc)

	end := today
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q (want YYYY-MM-DD): %w", to, err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -defaultRangeDays)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q (want YYYY-MM-DD): %w", from, err)
		}
		start = t
	}

	switch {
	case end.Before(start):
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s < %s", common.ErrInvalidDateRange, end.Format(dateLayout), start.Format(dateLayout))
	case end.After(today):
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is in the future", common.ErrInvalidDateRange, end.Format(dateLayout))
	case start.Before(today.AddDate(0, 0, -maxLookbackDays)):
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is more than %d days ago", common.ErrInvalidDateRange, start.Format(dateLayout), maxLookbackDays)
	}

	return start, end, nil
}

func addDateFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "start date YYYY-MM-DD (default: 30 days before --to)")
	cmd.Flags().String("to", "", "end date YYYY-MM-DD (default: today)")
}

func dateRangeFromFlags(cmd *cobra.Command) (time.Time, time.Time, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	return parseDateRange(from, to, now())
}

// allowedSenders reads gmail.allowed_senders without requiring credentials.
func allowedSenders(v *viper.Viper) []string {
	if senders := v.GetStringSlice("gmail.allowed_senders"); len(senders) > 0 {
		return senders
	}
	return gmail.DefaultAllowedSenders
}

// userFacing turns errors the user can act on into UserErrors.
func userFacing(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrReauthRequired):
		return common.NewUserError("Gmail access expired or was revoked. Run: finapp auth gmail", err)
	case errors.Is(err, common.ErrNoSenders):
		return common.NewUserError("Select at least one sender with --sender.", err)
	case errors.Is(err, common.ErrSenderNotAllowed), errors.Is(err, common.ErrInvalidDateRange):
		return common.NewUserError(err.Error(), err)
	case errors.Is(err, common.ErrMissingConfig):
		return common.NewUserError(err.Error()+". Set credentials in config.yaml or the environment.", err)
	}
	return err
}
