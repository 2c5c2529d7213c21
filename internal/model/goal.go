package model

import "time"

// GoalCategory tags a goal with what it is saving for.
type GoalCategory string

// GoalState is the observable lifecycle state of a goal.
type GoalState string

const (
	GoalInProgress GoalState = "in_progress"
	GoalCompleted  GoalState = "completed"
)

// Goal is a named savings target with a balance and a deadline.
// CurrentAmount stays within [0, TargetAmount] and never decreases.
type Goal struct {
	ID            string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    time.Time
	Category      GoalCategory
	CreatedAt     time.Time
}

// Contribution records money added to a goal.
type Contribution struct {
	GoalID string
	Amount float64 // amount actually applied after clamping
	At     time.Time
}
