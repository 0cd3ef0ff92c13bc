package sheets

import (
	"fmt"
	"sort"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// typeOrder fixes the order of the per-type breakdown.
var typeOrder = []model.TransactionType{model.TypeIncome, model.TypeExpense, model.TypeUnknown}

// cellRange is a zero-based, end-exclusive row span in one column.
type cellRange struct {
	startRow int
	endRow   int
	column   int
}

type reportData struct {
	values         [][]any
	currencyRanges []cellRange
}

// prepareReportData lays out the summary, per-type counts, daily expenses and
// transaction details. Amounts are written as numbers so the sheet can sum them.
func prepareReportData(transactions []model.Transaction, summary model.Summary) reportData {
	estimatedRows := 20 + len(summary.DailyExpenses) + len(transactions)
	values := make([][]any, 0, estimatedRows)
	var ranges []cellRange

	values = append(values,
		[]any{
			"Finance Report",
			fmt.Sprintf("%s - %s", summary.Start.Format(dateLayout), summary.End.Format(dateLayout)),
		},
		[]any{}, // Empty row
		[]any{"Summary"},
	)
	start := len(values)
	values = append(values,
		[]any{"Total Income", summary.TotalIncome.InexactFloat64()},
		[]any{"Total Expense", summary.TotalExpense.InexactFloat64()},
		[]any{"Balance", summary.Balance.InexactFloat64()},
	)
	ranges = append(ranges, cellRange{startRow: start, endRow: len(values), column: 1})
	values = append(values, []any{"Total Transactions", summary.Count})

	values = append(values,
		[]any{}, // Empty row
		[]any{"By Type"},
		[]any{"Type", "Count"},
	)
	for _, t := range typeOrder {
		values = append(values, []any{t.Label(), summary.CountByType[t]})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Daily Expenses"},
		[]any{"Date", "Amount"},
	)
	start = len(values)
	for _, day := range summary.DailyExpenses {
		values = append(values, []any{day.Day.Format(dateLayout), day.Amount.InexactFloat64()})
	}
	if len(values) > start {
		ranges = append(ranges, cellRange{startRow: start, endRow: len(values), column: 1})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{}, // Empty row
		[]any{"Transaction Details"},
		[]any{"Date", "Type", "Amount", "Sender", "Subject"},
	)

	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	start = len(values)
	for _, txn := range sorted {
		values = append(values, []any{
			txn.FormattedDate(),
			txn.Type.Label(),
			txn.Amount.InexactFloat64(),
			txn.Sender,
			txn.Subject,
		})
	}
	if len(values) > start {
		ranges = append(ranges, cellRange{startRow: start, endRow: len(values), column: 2})
	}

	return reportData{values: values, currencyRanges: ranges}
}
