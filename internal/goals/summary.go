package goals

import (
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

// Status is the derived view of one goal at a point in time.
type Status struct {
	Goal            model.Goal
	Progress        float64
	Remaining       float64
	MonthsRemaining int
	MonthlyNeeded   float64
	State           model.GoalState
}

// PortfolioSummary aggregates every goal.
type PortfolioSummary struct {
	TotalSaved  float64
	TotalTarget float64
	Progress    float64
	Completed   int
	InProgress  int
	Goals       []Status
}

// Describe derives the status of a single goal.
func Describe(g model.Goal, now time.Time) (Status, error) {
	p, err := Progress(g)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Goal:            g,
		Progress:        p,
		Remaining:       Remaining(g),
		MonthsRemaining: MonthsRemaining(g.TargetDate, now),
		MonthlyNeeded:   MonthlyContributionNeeded(g, now),
		State:           State(g),
	}, nil
}

// Summarize describes every goal and rolls them up. It fails on the first
// goal with an invalid target.
func Summarize(goals []model.Goal, now time.Time) (PortfolioSummary, error) {
	s := PortfolioSummary{
		Progress: PortfolioProgress(goals),
		Goals:    make([]Status, 0, len(goals)),
	}
	for _, g := range goals {
		st, err := Describe(g, now)
		if err != nil {
			return PortfolioSummary{}, err
		}
		s.TotalSaved += g.CurrentAmount
		s.TotalTarget += g.TargetAmount
		if st.State == model.GoalCompleted {
			s.Completed++
		} else {
			s.InProgress++
		}
		s.Goals = append(s.Goals, st)
	}
	return s, nil
}
