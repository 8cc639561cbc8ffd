package core

import (
	"github.com/shopspring/decimal"
)

// GoalProjection is the output of the ad-hoc savings simulator.
type GoalProjection struct {
	MonthsToGoal int     `json:"monthsToGoal"`
	YearsToGoal  float64 `json:"yearsToGoal"`
	Computable   bool    `json:"computable"`
}

// ComputeGoalProjection estimates how long reaching targetAmount takes at
// monthlyContribution per month, starting from currentSaved. A contribution
// of zero or less cannot be projected and yields a zero, non-computable
// result instead of a non-finite one. A target already met projects to
// zero months.
func ComputeGoalProjection(targetAmount, currentSaved, monthlyContribution decimal.Decimal) GoalProjection {
	if !monthlyContribution.IsPositive() {
		return GoalProjection{}
	}

	gap := targetAmount.Sub(currentSaved)
	if !gap.IsPositive() {
		return GoalProjection{Computable: true}
	}

	months := int(gap.Div(monthlyContribution).Ceil().IntPart())
	years := float64(months) / 12
	return GoalProjection{MonthsToGoal: months, YearsToGoal: years, Computable: true}
}

// ComputeGoalPercentage returns the funding progress of a stored goal,
// clamped to [0, 100] so an over-funded goal never overflows its progress
// bar. A non-positive target is degenerate: 0 when nothing is saved,
// otherwise 100.
func ComputeGoalPercentage(g Goal) float64 {
	if !g.TargetAmount.IsPositive() {
		if g.CurrentAmount.IsPositive() {
			return 100
		}
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).InexactFloat64() * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
