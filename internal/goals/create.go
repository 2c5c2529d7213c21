package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/billu/internal/calc"
	"github.com/theirongolddev/billu/internal/model"
)

// ContributionPresets are the one-tap contribution amounts offered next to
// each goal.
var ContributionPresets = []float64{500, 1000, 5000}

// GoalInput is the raw form data for a new goal.
type GoalInput struct {
	Name         string
	TargetAmount float64
	TargetDate   time.Time
	Category     string
}

// NewGoal validates in and returns a goal with a zero balance. newID
// generates the goal ID; nil uses a random UUID.
func NewGoal(in GoalInput, now time.Time, newID func() string) (model.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Goal{}, fmt.Errorf("%w: goal name is required", ErrInvalidInput)
	}
	if !calc.IsFinite(in.TargetAmount) || in.TargetAmount <= 0 {
		return model.Goal{}, fmt.Errorf("%w: target amount %v must be > 0", ErrInvalidInput, in.TargetAmount)
	}
	if in.TargetDate.IsZero() {
		return model.Goal{}, fmt.Errorf("%w: target date is required", ErrInvalidInput)
	}
	category, err := ParseCategory(in.Category)
	if err != nil {
		return model.Goal{}, err
	}

	if newID == nil {
		newID = uuid.NewString
	}

	return model.Goal{
		ID:           newID(),
		Name:         name,
		TargetAmount: in.TargetAmount,
		TargetDate:   in.TargetDate,
		Category:     category,
		CreatedAt:    now,
	}, nil
}
