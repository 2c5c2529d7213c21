package goals

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/theirongolddev/billu/internal/calc"
	"github.com/theirongolddev/billu/internal/model"
)

// MaxPlanContributions bounds how many schedule firings ProjectCompletion
// will walk before giving up.
const MaxPlanContributions = 1200

// Plan is a recurring contribution: Amount is added at every firing of
// Schedule, a standard five-field cron expression ("0 9 1 * *").
type Plan struct {
	Amount   float64
	Schedule string
}

// Projection is the outcome of following a plan.
type Projection struct {
	Reached       bool
	CompletedAt   time.Time
	Contributions int
	FinalAmount   float64
	OnTrack       bool // reached no later than the goal's target date
}

// ProjectCompletion simulates plan from now and reports when g would be
// fully funded.
func ProjectCompletion(g model.Goal, plan Plan, now time.Time) (Projection, error) {
	if err := validTarget(g); err != nil {
		return Projection{}, err
	}
	if !calc.IsFinite(plan.Amount) || plan.Amount <= 0 {
		return Projection{}, fmt.Errorf("%w: plan amount %v must be > 0", ErrInvalidInput, plan.Amount)
	}
	sched, err := cron.ParseStandard(plan.Schedule)
	if err != nil {
		return Projection{}, fmt.Errorf("%w: schedule %q: %v", ErrInvalidInput, plan.Schedule, err)
	}

	proj := Projection{FinalAmount: g.CurrentAmount}
	if State(g) == model.GoalCompleted {
		proj.Reached = true
		proj.CompletedAt = now
		proj.OnTrack = true
		return proj, nil
	}

	current := g
	at := now
	for i := 1; i <= MaxPlanContributions; i++ {
		at = sched.Next(at)
		if at.IsZero() {
			break
		}
		current, err = RecordContribution(current, plan.Amount)
		if err != nil {
			return Projection{}, err
		}
		proj.Contributions = i
		proj.FinalAmount = current.CurrentAmount
		if State(current) == model.GoalCompleted {
			proj.Reached = true
			proj.CompletedAt = at
			proj.OnTrack = !at.After(g.TargetDate)
			break
		}
	}
	return proj, nil
}
