// Package goals derives savings-goal progress, timelines and required
// contributions, and rolls goals up into a portfolio view.
//
// Every function is pure: the current time is always passed in and goals
// are updated by returning modified copies.
package goals

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/billu/internal/calc"
	"github.com/theirongolddev/billu/internal/model"
)

// ErrInvalidInput is returned for non-positive targets and negative or
// non-finite contribution amounts.
var ErrInvalidInput = fmt.Errorf("goals: %w", calc.ErrInvalidInput)

func validTarget(g model.Goal) error {
	if !calc.IsFinite(g.TargetAmount) || g.TargetAmount <= 0 {
		return fmt.Errorf("%w: goal %q target amount %v must be > 0", ErrInvalidInput, g.ID, g.TargetAmount)
	}
	return nil
}

// Progress returns min(current/target*100, 100), always within [0, 100].
func Progress(g model.Goal) (float64, error) {
	if err := validTarget(g); err != nil {
		return 0, err
	}
	return calc.Clamp(g.CurrentAmount/g.TargetAmount*100, 0, 100), nil
}

// MonthsRemaining approximates the months left until targetDate as
// ceil(days/30). Past-due dates report 0.
func MonthsRemaining(targetDate, now time.Time) int {
	return calc.ApproxMonthsUntil(targetDate, now)
}

// MonthlyContributionNeeded spreads the remaining amount over the months
// left. It returns 0 once the goal is due or overdue.
func MonthlyContributionNeeded(g model.Goal, now time.Time) float64 {
	months := MonthsRemaining(g.TargetDate, now)
	if months <= 0 {
		return 0
	}
	return Remaining(g) / float64(months)
}

// Remaining is the amount still missing, never negative.
func Remaining(g model.Goal) float64 {
	return math.Max(g.TargetAmount-g.CurrentAmount, 0)
}

// RecordContribution returns a copy of g with amount added and the balance
// clamped to the target. The input goal is left untouched. A goal whose
// balance already lies outside [0, target] is rejected, since clamping it
// would move the balance down.
func RecordContribution(g model.Goal, amount float64) (model.Goal, error) {
	if err := validTarget(g); err != nil {
		return g, err
	}
	if !calc.IsFinite(g.CurrentAmount) || g.CurrentAmount < 0 || g.CurrentAmount > g.TargetAmount {
		return g, fmt.Errorf("%w: goal %q balance %v is outside [0, %v]", ErrInvalidInput, g.ID, g.CurrentAmount, g.TargetAmount)
	}
	if !calc.IsFinite(amount) || amount < 0 {
		return g, fmt.Errorf("%w: contribution %v must be a finite amount >= 0", ErrInvalidInput, amount)
	}

	next := g
	next.CurrentAmount = calc.Clamp(g.CurrentAmount+amount, 0, g.TargetAmount)
	return next, nil
}

// PortfolioProgress returns total saved over total targeted, as a
// percentage. An empty portfolio reports 0.
func PortfolioProgress(goals []model.Goal) float64 {
	var current, target float64
	for _, g := range goals {
		current += g.CurrentAmount
		target += g.TargetAmount
	}
	if target <= 0 {
		return 0
	}
	return current / target * 100
}

// State reports whether g is completed. Goals with an invalid target are
// never completed.
func State(g model.Goal) model.GoalState {
	p, err := Progress(g)
	if err == nil && p >= 100 {
		return model.GoalCompleted
	}
	return model.GoalInProgress
}
