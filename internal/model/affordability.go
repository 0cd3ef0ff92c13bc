package model

// Recommendation is the outcome of an affordability evaluation.
type Recommendation string

// Recommendation constants.
const (
	RecommendBuy   Recommendation = "buy"
	RecommendDefer Recommendation = "defer"
)

// WarningCode identifies which warning rule fired.
type WarningCode string

// Warning codes, in the order the rules are evaluated.
const (
	WarnAffordability    WarningCode = "affordability"
	WarnLowHappiness     WarningCode = "low_happiness"
	WarnLowImportance    WarningCode = "low_importance"
	WarnLowPsychological WarningCode = "low_psychological"
)

// Warning is a single triggered warning rule.
type Warning struct {
	Code    WarningCode
	Message string
}

// ScoreResult is the output of one affordability evaluation. It has no
// identity and is recomputed on every request.
type ScoreResult struct {
	Savings         *SavingsPlan // nil when no monthly savings amount was supplied
	Recommendation  Recommendation
	Warnings        []Warning
	Score           float64
	AffordRatio     float64
	HappinessRatio  float64
	ImportanceRatio float64
	CurrentProgress float64 // cash on hand relative to MinSafeSavings, capped at 1
	MinSafeSavings  int64
	CashOnHand      int64
	Price           int64
}

// CanAfford reports whether the recommendation is to buy.
func (r *ScoreResult) CanAfford() bool {
	return r.Recommendation == RecommendBuy
}

// SavingsCheckpoint is the projected balance after a given month.
type SavingsCheckpoint struct {
	Month    int
	Balance  int64
	Progress float64
}

// SavingsPlan is a month-by-month projection toward MinSafeSavings.
// When the horizon is longer than the checkpoint limit only the leading
// months and the final month are listed and Truncated is set.
type SavingsPlan struct {
	Checkpoints       []SavingsCheckpoint
	MonthlySavings    int64
	Remaining         int64
	MonthsNeeded      int
	AlreadySufficient bool
	Truncated         bool
}
