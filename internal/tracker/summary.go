package tracker

import (
	"sort"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/shopspring/decimal"
)

// Summarize totals income and expense, counts transactions per type, and
// sums expenses per calendar day. Days are taken in each transaction's own
// time zone and reported as UTC midnights in ascending order.
func Summarize(transactions []model.Transaction, start, end time.Time) model.Summary {
	summary := model.Summary{
		Start:        start,
		End:          end,
		Count:        len(transactions),
		CountByType:  make(map[model.TransactionType]int),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	daily := make(map[time.Time]decimal.Decimal)

	for _, txn := range transactions {
		summary.CountByType[txn.Type]++

		switch txn.Type {
		case model.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(txn.Amount)
		case model.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(txn.Amount)
			day := calendarDay(txn.Date)
			daily[day] = daily[day].Add(txn.Amount)
		}
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	summary.DailyExpenses = make([]model.DailyTotal, 0, len(daily))
	for day, amount := range daily {
		summary.DailyExpenses = append(summary.DailyExpenses, model.DailyTotal{Day: day, Amount: amount})
	}
	sort.Slice(summary.DailyExpenses, func(i, j int) bool {
		return summary.DailyExpenses[i].Day.Before(summary.DailyExpenses[j].Day)
	})

	return summary
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
