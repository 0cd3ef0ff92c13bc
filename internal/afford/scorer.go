// Package afford scores whether a purchase is affordable from cash on hand,
// price, and how happy and important the purchase is to the buyer.
package afford

import (
	"math"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/model"
)

// Scoring constants.
const (
	// DefaultThreshold is the minimum score for a "buy" recommendation.
	DefaultThreshold = 0.75
	// SafetyMultiplier sets the minimum safe savings relative to price.
	SafetyMultiplier = 10
	// noCashRatio stands in for price/cash when cash is zero.
	noCashRatio = 1e9

	affordWarningBelow        = 0.90
	happinessWarningBelow     = 0.60
	importanceWarningBelow    = 0.60
	psychologicalWarningBelow = 0.65
)

// Warning messages keyed by code.
var warningMessages = map[model.WarningCode]string{
	model.WarnAffordability:    "The price is more than 10% of your savings.",
	model.WarnLowHappiness:     "Your happiness from this purchase is relatively low.",
	model.WarnLowImportance:    "This item is of relatively low importance.",
	model.WarnLowPsychological: "Combined psychological score is low; reconsider this purchase.",
}

// Weights are the fixed linear-combination weights of the score.
type Weights struct {
	Afford     float64
	Happiness  float64
	Importance float64
}

// DefaultWeights makes affordability dominate the score.
func DefaultWeights() Weights {
	return Weights{
		Afford:     0.6,
		Happiness:  0.15,
		Importance: 0.25,
	}
}

// Input is one affordability question.
type Input struct {
	CashOnHand     int64
	Price          int64
	Happiness      int // 0-100
	Importance     int // 0-100
	MonthlySavings int64
}

// Scorer evaluates affordability. The zero value is not usable; use NewScorer.
type Scorer struct {
	weights   Weights
	threshold float64
}

// NewScorer returns a scorer with the default weights and threshold.
func NewScorer() *Scorer {
	return &Scorer{
		weights:   DefaultWeights(),
		threshold: DefaultThreshold,
	}
}

// Score evaluates in. It never fails: out-of-range psychological inputs are
// clamped and zero cash takes the "cannot afford" path.
func (s *Scorer) Score(in Input) model.ScoreResult {
	affordRatio := AffordRatio(in.CashOnHand, in.Price)
	happinessRatio := float64(clampPercent(in.Happiness)) / 100
	importanceRatio := float64(clampPercent(in.Importance)) / 100

	score := s.weights.Afford*affordRatio +
		s.weights.Happiness*happinessRatio +
		s.weights.Importance*importanceRatio

	minSafe := MinSafeSavings(in.Price)

	result := model.ScoreResult{
		Score:           score,
		AffordRatio:     affordRatio,
		HappinessRatio:  happinessRatio,
		ImportanceRatio: importanceRatio,
		MinSafeSavings:  minSafe,
		CurrentProgress: progress(in.CashOnHand, minSafe),
		CashOnHand:      in.CashOnHand,
		Price:           in.Price,
		Recommendation:  model.RecommendDefer,
		Warnings:        Warnings(affordRatio, happinessRatio, importanceRatio),
	}

	if score >= s.threshold {
		result.Recommendation = model.RecommendBuy
	}

	if in.MonthlySavings > 0 {
		plan := Simulate(in.CashOnHand, minSafe, in.MonthlySavings)
		result.Savings = &plan
	}

	return result
}

// AffordRatio is min(cash/price, 1), computed through price/cash so that zero
// cash yields a near-zero ratio instead of a division by zero. A free item is
// fully affordable.
func AffordRatio(cashOnHand, price int64) float64 {
	if price <= 0 && cashOnHand > 0 {
		return 1
	}

	ratio := noCashRatio
	if cashOnHand > 0 {
		ratio = float64(price) / float64(cashOnHand)
	}

	return math.Min(1/ratio, 1)
}

// MinSafeSavings is the savings target before buying: ten times the price,
// saturating at math.MaxInt64.
func MinSafeSavings(price int64) int64 {
	if price > math.MaxInt64/SafetyMultiplier {
		return math.MaxInt64
	}
	return price * SafetyMultiplier
}

// Warnings evaluates each warning rule independently, in fixed order.
func Warnings(affordRatio, happinessRatio, importanceRatio float64) []model.Warning {
	var warnings []model.Warning

	add := func(code model.WarningCode) {
		warnings = append(warnings, model.Warning{Code: code, Message: warningMessages[code]})
	}

	if affordRatio < affordWarningBelow {
		add(model.WarnAffordability)
	}
	if happinessRatio < happinessWarningBelow {
		add(model.WarnLowHappiness)
	}
	if importanceRatio < importanceWarningBelow {
		add(model.WarnLowImportance)
	}
	if (happinessRatio+importanceRatio)/2 < psychologicalWarningBelow {
		add(model.WarnLowPsychological)
	}

	return warnings
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
