package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	subjectWidth = 40
	trendWidth   = 30
)

var typeOrder = []model.TransactionType{model.TypeIncome, model.TypeExpense, model.TypeUnknown}

// RenderTransactions renders transactions as a table in the given order.
func RenderTransactions(txns []model.Transaction) string {
	if len(txns) == 0 {
		return FormatInfo("No transactions found.")
	}

	header := []string{"Date", "Type", "Amount", "Sender", "Subject"}
	rows := make([][]string, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		rows = append(rows, []string{
			t.FormattedDate(),
			t.Type.Label(),
			t.FormattedAmount,
			t.Sender,
			truncate(t.Subject, subjectWidth),
		})
	}

	return renderTable(header, rows, func(row, col int, cell string) string {
		if col != 2 {
			return cell
		}
		return typeStyle(txns[row].Type).Render(cell)
	})
}

// RenderSummary renders totals, balance and counts per type.
func RenderSummary(s *model.Summary) string {
	var b strings.Builder

	if !s.Start.IsZero() {
		fmt.Fprintf(&b, "Period:   %s - %s\n", s.Start.Format("02/01/2006"), s.End.Format("02/01/2006"))
	}
	fmt.Fprintf(&b, "Income:   %s\n", IncomeStyle.Render(currency.FormatRupiah(s.TotalIncome)))
	fmt.Fprintf(&b, "Expense:  %s\n", ExpenseStyle.Render(currency.FormatRupiah(s.TotalExpense)))

	balance := SuccessStyle
	if s.Balance.IsNegative() {
		balance = ErrorStyle
	}
	fmt.Fprintf(&b, "Balance:  %s\n", balance.Render(signedRupiah(s.Balance)))
	fmt.Fprintf(&b, "Count:    %d", s.Count)

	for _, typ := range typeOrder {
		if n := s.CountByType[typ]; n > 0 {
			fmt.Fprintf(&b, "\n  %-16s %d", typ.Label(), n)
		}
	}

	return RenderBox(ChartIcon+" Financial summary", b.String())
}

// RenderDailyTrend draws one bar per day scaled to the largest expense.
func RenderDailyTrend(days []model.DailyTotal) string {
	if len(days) == 0 {
		return ""
	}

	largest := decimal.Zero
	for _, d := range days {
		if d.Amount.GreaterThan(largest) {
			largest = d.Amount
		}
	}

	var b strings.Builder
	b.WriteString(BoldStyle.Render("Daily expenses") + "\n")
	for i, d := range days {
		width := 0
		if largest.IsPositive() {
			width = int(d.Amount.Div(largest).Mul(decimal.NewFromInt(trendWidth)).Round(0).IntPart())
		}
		fmt.Fprintf(&b, "%s %s %s",
			d.Day.Format("02/01"),
			ExpenseStyle.Render(strings.Repeat("▇", width)+strings.Repeat(" ", trendWidth-width)),
			currency.FormatRupiah(d.Amount))
		if i < len(days)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderImportRuns renders recorded fetches, newest first as given.
func RenderImportRuns(runs []service.ImportRun) string {
	if len(runs) == 0 {
		return FormatInfo("No imports recorded yet.")
	}

	header := []string{"Started", "Source", "Fetched", "Saved", "Duration", "Status"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		duration := "-"
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		status := "ok"
		if r.ErrorDetail != "" {
			status = "failed: " + truncate(r.ErrorDetail, subjectWidth)
		} else if r.FinishedAt.IsZero() {
			status = "running"
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format("02/01/2006 15:04"),
			r.Source,
			fmt.Sprint(r.Fetched),
			fmt.Sprint(r.Saved),
			duration,
			status,
		})
	}

	return renderTable(header, rows, nil)
}

// renderTable pads columns to their widest cell. style, when set, decorates a
// data cell after padding.
func renderTable(header []string, rows [][]string, style func(row, col int, cell string) string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	headerCells := make([]string, len(header))
	for i, h := range header {
		headerCells[i] = TableCellStyle.Render(pad(h, widths[i]))
	}

	lines := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...))}
	for r, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cell = pad(cell, widths[c])
			if style != nil {
				cell = style(r, c, cell)
			}
			cells[c] = TableCellStyle.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return strings.Join(lines, "\n")
}

func typeStyle(t model.TransactionType) lipgloss.Style {
	switch t {
	case model.TypeIncome:
		return IncomeStyle
	case model.TypeExpense:
		return ExpenseStyle
	default:
		return SubtleStyle
	}
}

func signedRupiah(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + currency.FormatRupiah(d.Abs())
	}
	return currency.FormatRupiah(d)
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
