package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

type fakeStore struct {
	goals []model.Goal
	saved []model.Contribution
	err   error
}

func (f *fakeStore) LoadGoals() ([]model.Goal, error) { return f.goals, nil }

func (f *fakeStore) AddContribution(g model.Goal, c model.Contribution) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, c)
	return nil
}

func testGoals() []model.Goal {
	return []model.Goal{
		{ID: "a", Name: "Emergency Fund", TargetAmount: 120000, CurrentAmount: 50000,
			TargetDate: testNow.AddDate(0, 0, 90), Category: "emergency"},
		{ID: "b", Name: "New Laptop", TargetAmount: 1000, CurrentAmount: 800,
			TargetDate: testNow.AddDate(0, 0, 30), Category: "electronics"},
	}
}

func testTransactions() []model.Transaction {
	var txs []model.Transaction
	for i, amt := range []float64{22000, 23000, 24000} {
		month := time.Date(2024, time.Month(i+1), 10, 12, 0, 0, 0, time.Local)
		txs = append(txs,
			model.Transaction{ID: "e", Date: month, Amount: amt, Kind: model.KindExpense, Category: "food"},
			model.Transaction{ID: "i", Date: month, Amount: 50000, Kind: model.KindIncome, Category: "salary"},
		)
	}
	return txs
}

func newTestApp(st *fakeStore) App {
	opts := forecast.DefaultOptions()
	opts.Horizon = 2
	return NewApp(Options{
		Goals:    st,
		Forecast: opts,
		Presets:  []float64{500, 1000, 5000},
		Config:   config.DefaultConfig(),
		Now:      func() time.Time { return testNow },
	})
}

func loaded(t *testing.T, a App, st *fakeStore) App {
	t.Helper()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Transactions: testTransactions(), Goals: st.goals})
	return m.(App)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, keys ...string) (App, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var m tea.Model = a
	for _, k := range keys {
		m, cmd = m.Update(key(k))
	}
	return m.(App), cmd
}

func TestForecastLabelsCrossYearEnd(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := newTestApp(st)
	var txs []model.Transaction
	for _, m := range []time.Month{time.November, time.December} {
		txs = append(txs, model.Transaction{ID: "e", Date: time.Date(2023, m, 10, 12, 0, 0, 0, time.Local), Amount: 20000, Kind: model.KindExpense, Category: "food"})
	}
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Transactions: txs, Goals: st.goals})
	a = m.(App)

	if a.forecastErr != nil {
		t.Fatalf("forecastErr = %v", a.forecastErr)
	}
	if len(a.points) != 4 || a.points[2].Label != "Jan" || a.points[3].Label != "Feb" {
		t.Fatalf("points = %+v, want predictions labelled Jan and Feb", a.points)
	}
}

func TestDataLoadedBuildsForecast(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := loaded(t, newTestApp(st), st)

	if !a.loaded {
		t.Fatal("app not marked loaded")
	}
	if a.forecastErr != nil {
		t.Fatalf("forecastErr = %v", a.forecastErr)
	}
	if len(a.points) != 3+2 {
		t.Fatalf("got %d points, want 5", len(a.points))
	}
	if a.points[3].Label != "Apr" || a.points[3].Expenses != 24000 {
		t.Errorf("first prediction = %+v, want Apr 24000", a.points[3])
	}
	if a.portfolio.TotalSaved != 50800 {
		t.Errorf("TotalSaved = %v", a.portfolio.TotalSaved)
	}

	view := a.View()
	if !strings.Contains(view, "Next month") {
		t.Errorf("forecast view missing metric card")
	}
}

func TestTabSwitching(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := loaded(t, newTestApp(st), st)

	a, _ = press(t, a, "g")
	if a.activeTab != tabGoals {
		t.Errorf("activeTab = %d after g, want goals", a.activeTab)
	}
	a, _ = press(t, a, "tab")
	if a.activeTab != tabInsights {
		t.Errorf("activeTab = %d after tab, want insights", a.activeTab)
	}
	a, _ = press(t, a, "tab")
	if a.activeTab != tabForecast {
		t.Errorf("activeTab = %d after wrap, want forecast", a.activeTab)
	}
	if !strings.Contains(a.View(), "Monthly expenses") {
		t.Error("forecast view missing chart card")
	}
}

func TestGoalCursorClamps(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := loaded(t, newTestApp(st), st)

	a, _ = press(t, a, "g", "j", "j", "down")
	if a.goalCursor != 1 {
		t.Errorf("goalCursor = %d, want 1", a.goalCursor)
	}
	a, _ = press(t, a, "k", "k")
	if a.goalCursor != 0 {
		t.Errorf("goalCursor = %d, want 0", a.goalCursor)
	}
}

func TestQuickContribution(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := loaded(t, newTestApp(st), st)

	a, cmd := press(t, a, "g", "2")
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg := cmd()
	saved, ok := msg.(ContributionSavedMsg)
	if !ok {
		t.Fatalf("cmd returned %T", msg)
	}
	if len(st.saved) != 1 || st.saved[0].Amount != 1000 || st.saved[0].GoalID != "a" {
		t.Errorf("saved = %+v", st.saved)
	}

	m, _ := a.Update(saved)
	a = m.(App)
	if a.goals[0].CurrentAmount != 51000 {
		t.Errorf("CurrentAmount = %v, want 51000", a.goals[0].CurrentAmount)
	}
	if !strings.Contains(a.status, "Emergency Fund") {
		t.Errorf("status = %q", a.status)
	}
}

func TestQuickContributionClampsToTarget(t *testing.T) {
	st := &fakeStore{goals: testGoals()}
	a := loaded(t, newTestApp(st), st)

	a, cmd := press(t, a, "g", "j", "3")
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	m, _ := a.Update(cmd())
	a = m.(App)

	if st.saved[0].Amount != 200 {
		t.Errorf("recorded %v, want the 200 actually applied", st.saved[0].Amount)
	}
	if a.goals[1].CurrentAmount != 1000 {
		t.Errorf("CurrentAmount = %v, want 1000", a.goals[1].CurrentAmount)
	}

	// A full goal takes no more.
	a, cmd = press(t, a, "1")
	if cmd != nil {
		t.Error("completed goal should not produce a save")
	}
	if !strings.Contains(a.status, "fully funded") {
		t.Errorf("status = %q", a.status)
	}
}

func TestQuickContributionError(t *testing.T) {
	st := &fakeStore{goals: testGoals(), err: errors.New("disk full")}
	a := loaded(t, newTestApp(st), st)

	a, cmd := press(t, a, "g", "1")
	m, _ := a.Update(cmd())
	a = m.(App)

	if a.goals[0].CurrentAmount != 50000 {
		t.Errorf("failed save changed the goal: %v", a.goals[0].CurrentAmount)
	}
	if !strings.Contains(a.status, "disk full") {
		t.Errorf("status = %q", a.status)
	}
}

func TestEmptyLedger(t *testing.T) {
	st := &fakeStore{}
	a := newTestApp(st)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(DataLoadedMsg{})
	a = m.(App)

	if a.forecastErr == nil {
		t.Error("expected forecast error with no history")
	}
	if !strings.Contains(a.View(), "Add transactions") {
		t.Error("empty forecast view missing hint")
	}
	a, _ = press(t, a, "g")
	if !strings.Contains(a.View(), "No goals yet") {
		t.Error("empty goals view missing hint")
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	SetupValues{Currency: "usd", LedgerDir: "/srv/ledger", Theme: "terminal", Horizon: 6}.Apply(&cfg)
	if cfg.General.Currency != "USD" || cfg.General.LedgerDir != "/srv/ledger" ||
		cfg.Appearance.Theme != "terminal" || cfg.Forecast.Horizon != 6 {
		t.Errorf("cfg = %+v", cfg)
	}
}
