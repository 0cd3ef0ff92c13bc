package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyTotal is the sum of amounts for one calendar day.
type DailyTotal struct {
	Day    time.Time
	Amount decimal.Decimal
}

// Summary aggregates a set of transactions for display.
type Summary struct {
	Start         time.Time
	End           time.Time
	CountByType   map[TransactionType]int
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	Balance       decimal.Decimal // TotalIncome - TotalExpense
	DailyExpenses []DailyTotal    // ascending by day
	Count         int
}
