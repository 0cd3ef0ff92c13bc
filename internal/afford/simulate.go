package afford

import (
	"math"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// MaxCheckpoints caps the number of monthly checkpoints a plan lists.
const MaxCheckpoints = 1200

// Simulate projects month-by-month savings from cashOnHand toward target.
// When target is already reached the plan is marked sufficient and has no
// checkpoints. A non-positive monthly amount yields an empty plan.
func Simulate(cashOnHand, target, monthly int64) model.SavingsPlan {
	plan := model.SavingsPlan{MonthlySavings: monthly}

	if cashOnHand >= target {
		plan.AlreadySufficient = true
		return plan
	}
	remaining := target - cashOnHand
	plan.Remaining = remaining

	if monthly <= 0 {
		return plan
	}

	months := ceilDiv(remaining, monthly)
	plan.MonthsNeeded = int(months)

	listed := months
	if months > MaxCheckpoints {
		listed = MaxCheckpoints - 1
		plan.Truncated = true
	}

	plan.Checkpoints = make([]model.SavingsCheckpoint, 0, listed+1)
	for month := int64(1); month <= listed; month++ {
		plan.Checkpoints = append(plan.Checkpoints, checkpoint(cashOnHand, target, monthly, month))
	}
	if plan.Truncated {
		plan.Checkpoints = append(plan.Checkpoints, checkpoint(cashOnHand, target, monthly, months))
	}

	return plan
}

func checkpoint(cashOnHand, target, monthly, month int64) model.SavingsCheckpoint {
	balance := addSat(cashOnHand, mulSat(monthly, month))
	return model.SavingsCheckpoint{
		Month:    int(month),
		Balance:  balance,
		Progress: progress(balance, target),
	}
}

// ceilDiv divides positive integers rounding up.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// mulSat multiplies non-negative integers, saturating at math.MaxInt64.
func mulSat(a, b int64) int64 {
	if a != 0 && b > math.MaxInt64/a {
		return math.MaxInt64
	}
	return a * b
}

// addSat adds a non-negative b to a, saturating at math.MaxInt64.
func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// progress is balance/target clamped to [0, 1]; a zero target counts as met.
func progress(balance, target int64) float64 {
	if target <= 0 {
		return 1
	}
	p := float64(balance) / float64(target)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
