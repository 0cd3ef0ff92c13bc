package sheets

import (
	"testing"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

func sampleReport() ([]model.Transaction, model.Summary) {
	txns := []model.Transaction{
		{
			Date: time.Date(2025, 9, 1, 10, 0, 0, 0, wib), Type: model.TypeExpense,
			Amount: decimal.NewFromInt(150000), Sender: "bca@bca.co.id", Subject: "Pembayaran",
		},
		{
			Date: time.Date(2025, 9, 2, 8, 30, 0, 0, wib), Type: model.TypeIncome,
			Amount: decimal.NewFromInt(2500000), Sender: "bca@bca.co.id", Subject: "Transfer Masuk",
		},
	}
	summary := model.Summary{
		Start:        time.Date(2025, 9, 1, 0, 0, 0, 0, wib),
		End:          time.Date(2025, 9, 30, 0, 0, 0, 0, wib),
		Count:        2,
		TotalIncome:  decimal.NewFromInt(2500000),
		TotalExpense: decimal.NewFromInt(150000),
		Balance:      decimal.NewFromInt(2350000),
		CountByType:  map[model.TransactionType]int{model.TypeIncome: 1, model.TypeExpense: 1},
		DailyExpenses: []model.DailyTotal{
			{Day: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(150000)},
		},
	}
	return txns, summary
}

func findRow(values [][]any, first any) int {
	for i, row := range values {
		if len(row) > 0 && row[0] == first {
			return i
		}
	}
	return -1
}

func TestPrepareReportData(t *testing.T) {
	txns, summary := sampleReport()
	report := prepareReportData(txns, summary)
	values := report.values

	assert.Equal(t, []any{"Finance Report", "01/09/2025 - 30/09/2025"}, values[0])

	balance := findRow(values, "Balance")
	require.NotEqual(t, -1, balance)
	assert.Equal(t, 2350000.0, values[balance][1])

	unknown := findRow(values, "Tidak diketahui")
	require.NotEqual(t, -1, unknown)
	assert.Equal(t, 0, values[unknown][1])

	header := findRow(values, "Transaction Details")
	require.NotEqual(t, -1, header)
	require.Len(t, values, header+2+len(txns))

	// Newest first, input left untouched.
	assert.Equal(t, []any{"02/09/2025", "Pendapatan", 2500000.0, "bca@bca.co.id", "Transfer Masuk"}, values[header+2])
	assert.Equal(t, []any{"01/09/2025", "Pengeluaran", 150000.0, "bca@bca.co.id", "Pembayaran"}, values[header+3])
	assert.Equal(t, model.TypeExpense, txns[0].Type)

	require.Len(t, report.currencyRanges, 3)
	last := report.currencyRanges[2]
	assert.Equal(t, cellRange{startRow: header + 2, endRow: header + 4, column: 2}, last)
}

func TestPrepareReportData_Empty(t *testing.T) {
	report := prepareReportData(nil, model.Summary{})

	header := findRow(report.values, "Transaction Details")
	require.NotEqual(t, -1, header)
	assert.Len(t, report.values, header+2)
	// Only the summary totals carry currency formatting.
	assert.Len(t, report.currencyRanges, 1)
}
