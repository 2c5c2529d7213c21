package goals

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

func TestProjectCompletion_MonthlyPlan(t *testing.T) {
	g := model.Goal{
		ID:            "trip",
		TargetAmount:  10000,
		CurrentAmount: 7000,
		TargetDate:    time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	plan := Plan{Amount: 1000, Schedule: "0 9 1 * *"}

	proj, err := ProjectCompletion(g, plan, testNow)
	if err != nil {
		t.Fatalf("ProjectCompletion: %v", err)
	}
	// testNow is 2024-03-01 10:00, so the firings are Apr 1, May 1, Jun 1.
	want := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	if !proj.Reached || proj.Contributions != 3 || !proj.CompletedAt.Equal(want) {
		t.Fatalf("projection = %+v, want reached after 3 contributions at %s", proj, want)
	}
	if !proj.OnTrack || proj.FinalAmount != 10000 {
		t.Fatalf("projection = %+v, want on track at 10000", proj)
	}
}

func TestProjectCompletion_LatePlan(t *testing.T) {
	g := model.Goal{
		ID:           "car",
		TargetAmount: 5000,
		TargetDate:   time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	proj, err := ProjectCompletion(g, Plan{Amount: 1000, Schedule: "0 9 1 * *"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !proj.Reached || proj.OnTrack {
		t.Fatalf("projection = %+v, want reached but late", proj)
	}
}

func TestProjectCompletion_AlreadyDone(t *testing.T) {
	g := model.Goal{ID: "done", TargetAmount: 100, CurrentAmount: 100, TargetDate: testNow}
	proj, err := ProjectCompletion(g, Plan{Amount: 10, Schedule: "@daily"}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !proj.Reached || proj.Contributions != 0 || !proj.CompletedAt.Equal(testNow) {
		t.Fatalf("projection = %+v", proj)
	}
}

func TestProjectCompletion_Invalid(t *testing.T) {
	g := emergencyFund()
	for _, plan := range []Plan{
		{Amount: 0, Schedule: "@monthly"},
		{Amount: 100, Schedule: "not a schedule"},
	} {
		if _, err := ProjectCompletion(g, plan, testNow); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("plan %+v: err = %v, want ErrInvalidInput", plan, err)
		}
	}
}
