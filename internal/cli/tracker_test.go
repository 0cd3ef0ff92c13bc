package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/tracker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var wib = time.FixedZone("WIB", 7*3600)

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{
			Date:            time.Date(2025, 9, 2, 8, 30, 0, 0, wib),
			Amount:          decimal.NewFromInt(2500000),
			Type:            model.TypeIncome,
			FormattedAmount: "Rp 2.500.000",
			Sender:          "noreply.livin@bankmandiri.co.id",
			Subject:         "Transfer masuk",
		},
		{
			Date:            time.Date(2025, 9, 1, 10, 0, 0, 0, wib),
			Amount:          decimal.NewFromInt(150000),
			Type:            model.TypeExpense,
			FormattedAmount: "Rp 150.000",
			Sender:          "bca@bca.co.id",
			Subject:         strings.Repeat("Pembayaran QRIS berhasil ", 4),
		},
	}
}

func TestRenderTransactions(t *testing.T) {
	assert.Contains(t, RenderTransactions(nil), "No transactions")

	out := RenderTransactions(sampleTransactions())
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "Date")
	assert.Contains(t, lines[0], "Subject")
	assert.Contains(t, out, "02/09/2025")
	assert.Contains(t, out, "Pendapatan")
	assert.Contains(t, out, "Pengeluaran")
	assert.Contains(t, out, "Rp 2.500.000")
	assert.Contains(t, out, "…")
	assert.Less(t, strings.Index(out, "02/09/2025"), strings.Index(out, "01/09/2025"))
}

func TestRenderSummary(t *testing.T) {
	txns := sampleTransactions()
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, wib)
	summary := tracker.Summarize(txns, start, start.AddDate(0, 0, 29))

	out := RenderSummary(&summary)
	assert.Contains(t, out, "01/09/2025 - 30/09/2025")
	assert.Contains(t, out, "Rp 2.500.000")
	assert.Contains(t, out, "Rp 150.000")
	assert.Contains(t, out, "Rp 2.350.000")
	assert.Contains(t, out, "Pendapatan")

	negative := model.Summary{Balance: decimal.NewFromInt(-5000)}
	assert.Contains(t, RenderSummary(&negative), "-Rp 5.000")
}

func TestRenderDailyTrend(t *testing.T) {
	assert.Empty(t, RenderDailyTrend(nil))

	days := []model.DailyTotal{
		{Day: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(100000)},
		{Day: time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(50000)},
	}
	out := RenderDailyTrend(days)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 3)
	assert.Equal(t, trendWidth, strings.Count(lines[1], "▇"))
	assert.Equal(t, trendWidth/2, strings.Count(lines[2], "▇"))
	assert.Contains(t, lines[1], "01/09")
	assert.Contains(t, lines[2], "Rp 50.000")
}

func TestRenderImportRuns(t *testing.T) {
	assert.Contains(t, RenderImportRuns(nil), "No imports")

	started := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)
	runs := []service.ImportRun{
		{StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond), Source: "gmail", Fetched: 12, Saved: 10},
		{StartedAt: started, FinishedAt: started.Add(time.Second), Source: "gmail", ErrorDetail: errors.New("reauth").Error()},
		{StartedAt: started, Source: "eml"},
	}

	out := RenderImportRuns(runs)
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "failed: reauth")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "eml")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
