package cli

import (
	"fmt"
	"strings"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

const (
	progressWidth = 30
	maxPlanRows   = 12
)

// RenderRecommendation renders the verdict, the score breakdown and the
// progress toward the minimum safe savings.
func RenderRecommendation(r *model.ScoreResult) string {
	verdict := FormatWarning("Not yet. Consider postponing this purchase.")
	style := DeferBoxStyle
	if r.CanAfford() {
		verdict = FormatSuccess("You can afford it!")
		style = BuyBoxStyle
	}

	var b strings.Builder
	b.WriteString(verdict + "\n\n")
	fmt.Fprintf(&b, "Score:            %s\n", BoldStyle.Render(percent(r.Score)))
	fmt.Fprintf(&b, "Affordability:    %s\n", percent(r.AffordRatio))
	fmt.Fprintf(&b, "Happiness:        %s\n", percent(r.HappinessRatio))
	fmt.Fprintf(&b, "Importance:       %s\n", percent(r.ImportanceRatio))
	fmt.Fprintf(&b, "Price:            %s\n", rupiah(r.Price))
	fmt.Fprintf(&b, "Cash on hand:     %s\n", rupiah(r.CashOnHand))
	fmt.Fprintf(&b, "Min safe savings: %s\n", rupiah(r.MinSafeSavings))
	fmt.Fprintf(&b, "Progress:         %s", ProgressIndicator(r.CurrentProgress, progressWidth))

	return renderBox(style, MoneyIcon+" Can I afford this?", b.String())
}

// RenderWarnings lists triggered warnings, or nothing when there are none.
func RenderWarnings(warnings []model.Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, FormatWarning(w.Message))
	}
	return strings.Join(lines, "\n")
}

// RenderSavingsPlan renders the month-by-month projection. Long plans are
// sampled evenly; the final month is always shown.
func RenderSavingsPlan(plan *model.SavingsPlan) string {
	if plan == nil {
		return ""
	}
	if plan.AlreadySufficient {
		return FormatSuccess("Your savings already meet the minimum safe amount.")
	}
	if plan.MonthsNeeded == 0 {
		return FormatInfo(fmt.Sprintf("Remaining to save: %s", rupiah(plan.Remaining)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saving %s a month, you need %d month(s) to close a gap of %s.\n\n",
		rupiah(plan.MonthlySavings), plan.MonthsNeeded, rupiah(plan.Remaining))
	if plan.Truncated {
		fmt.Fprintf(&b, "%s\n\n", SubtleStyle.Render(fmt.Sprintf("Showing the first %d months and the final month.", len(plan.Checkpoints)-1)))
	}

	header := TableHeaderStyle.Render(fmt.Sprintf("%-6s %-18s %s", "Month", "Balance", "Progress"))
	b.WriteString(header + "\n")

	step := (len(plan.Checkpoints) + maxPlanRows - 1) / maxPlanRows
	for i, cp := range plan.Checkpoints {
		last := i == len(plan.Checkpoints)-1
		if !last && (i+1)%step != 0 {
			continue
		}
		fmt.Fprintf(&b, "%-6d %-18s %s", cp.Month, rupiah(cp.Balance), ProgressIndicator(cp.Progress, progressWidth/2))
		if !last {
			b.WriteString("\n")
		}
	}

	return RenderBox(ChartIcon+" Savings plan", b.String())
}

// ProgressIndicator draws a bar of width cells filled to p (clamped to
// [0, 1]) followed by the percentage.
func ProgressIndicator(p float64, width int) string {
	if width < 1 {
		width = 1
	}
	p = clamp01(p)
	filled := int(p*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return ProgressStyle.Render(bar) + " " + percent(p)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func rupiah(n int64) string {
	if n < 0 {
		return "-" + currency.Symbol + " " + currency.FormatThousands(-n)
	}
	return currency.Symbol + " " + currency.FormatThousands(n)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
