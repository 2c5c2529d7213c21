package store

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "billu.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleGoal(id string) model.Goal {
	return model.Goal{
		ID:            id,
		Name:          "New Laptop",
		TargetAmount:  120000,
		CurrentAmount: 50000,
		TargetDate:    time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Category:      "electronics",
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGoalRoundTrip(t *testing.T) {
	s := openTest(t)
	g := sampleGoal("g1")

	if err := s.SaveGoal(g); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	got, err := s.GetGoal("g1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.Name != g.Name || got.TargetAmount != g.TargetAmount || got.CurrentAmount != g.CurrentAmount {
		t.Errorf("got %+v, want %+v", got, g)
	}
	if !got.TargetDate.Equal(g.TargetDate) || !got.CreatedAt.Equal(g.CreatedAt) {
		t.Errorf("dates = %v/%v, want %v/%v", got.TargetDate, got.CreatedAt, g.TargetDate, g.CreatedAt)
	}
	if got.Category != g.Category {
		t.Errorf("Category = %q, want %q", got.Category, g.Category)
	}

	g.Name = "Gaming Laptop"
	if err := s.SaveGoal(g); err != nil {
		t.Fatalf("SaveGoal update: %v", err)
	}
	n, err := s.GoalCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("GoalCount = %d, want 1 after upsert", n)
	}
	got, _ = s.GetGoal("g1")
	if got.Name != "Gaming Laptop" {
		t.Errorf("Name = %q after update", got.Name)
	}
}

func TestGetGoalNotFound(t *testing.T) {
	s := openTest(t)
	if _, err := s.GetGoal("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteGoal("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGoal err = %v, want ErrNotFound", err)
	}
}

func TestLoadGoalsOrder(t *testing.T) {
	s := openTest(t)
	older := sampleGoal("b")
	newer := sampleGoal("a")
	newer.CreatedAt = older.CreatedAt.Add(24 * time.Hour)
	for _, g := range []model.Goal{newer, older} {
		if err := s.SaveGoal(g); err != nil {
			t.Fatal(err)
		}
	}

	goals, err := s.LoadGoals()
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 || goals[0].ID != "b" || goals[1].ID != "a" {
		t.Errorf("order = %+v, want b then a", goals)
	}
}

func TestAddContribution(t *testing.T) {
	s := openTest(t)
	g := sampleGoal("g1")
	if err := s.SaveGoal(g); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g.CurrentAmount += 5000
	if err := s.AddContribution(g, model.Contribution{GoalID: g.ID, Amount: 5000, At: at}); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}
	g.CurrentAmount += 1000
	if err := s.AddContribution(g, model.Contribution{GoalID: g.ID, Amount: 1000, At: at.Add(time.Hour)}); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}

	got, _ := s.GetGoal("g1")
	if math.Abs(got.CurrentAmount-56000) > 1e-9 {
		t.Errorf("CurrentAmount = %v, want 56000", got.CurrentAmount)
	}

	hist, err := s.Contributions("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || hist[0].Amount != 5000 || hist[1].Amount != 1000 {
		t.Errorf("history = %+v", hist)
	}
	if !hist[0].At.Equal(at) {
		t.Errorf("At = %v, want %v", hist[0].At, at)
	}

	if err := s.DeleteGoal("g1"); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	hist, _ = s.Contributions("g1")
	if len(hist) != 0 {
		t.Errorf("contributions survived goal deletion: %+v", hist)
	}
}

func TestAddContributionUnknownGoal(t *testing.T) {
	s := openTest(t)
	err := s.AddContribution(sampleGoal("ghost"), model.Contribution{GoalID: "ghost", Amount: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if n, _ := s.GoalCount(); n != 0 {
		t.Errorf("GoalCount = %d, want 0", n)
	}
}

func TestContributionsSubSecondOrder(t *testing.T) {
	s := openTest(t)
	g := sampleGoal("g1")
	if err := s.SaveGoal(g); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	later := model.Contribution{GoalID: g.ID, Amount: 200, At: base.Add(100 * time.Millisecond)}
	earlier := model.Contribution{GoalID: g.ID, Amount: 100, At: base}
	for _, c := range []model.Contribution{later, earlier} {
		g.CurrentAmount += c.Amount
		if err := s.AddContribution(g, c); err != nil {
			t.Fatalf("AddContribution: %v", err)
		}
	}

	hist, err := s.Contributions(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 || hist[0].Amount != 100 || hist[1].Amount != 200 {
		t.Fatalf("history = %+v, want oldest first", hist)
	}
	if !hist[1].At.Equal(later.At) {
		t.Errorf("At = %v, want %v", hist[1].At, later.At)
	}
}

func TestLoadGoalsSubSecondOrder(t *testing.T) {
	s := openTest(t)
	older := sampleGoal("b")
	older.CreatedAt = time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	newer := sampleGoal("a")
	newer.CreatedAt = older.CreatedAt.Add(250 * time.Millisecond)
	for _, g := range []model.Goal{newer, older} {
		if err := s.SaveGoal(g); err != nil {
			t.Fatal(err)
		}
	}

	goals, err := s.LoadGoals()
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 || goals[0].ID != "b" || goals[1].ID != "a" {
		t.Fatalf("order = %+v, want b then a", goals)
	}
}

func TestLegacyTimestampsStillParse(t *testing.T) {
	s := openTest(t)
	g := sampleGoal("g1")
	if err := s.SaveGoal(g); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(s.rebind("INSERT INTO contributions (goal_id, amount, contributed_at) VALUES (?, ?, ?)"),
		g.ID, 10.0, "2024-03-01T10:00:05.5Z"); err != nil {
		t.Fatal(err)
	}

	hist, err := s.Contributions(g.ID)
	if err != nil {
		t.Fatalf("Contributions: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 0, 5, 500_000_000, time.UTC)
	if len(hist) != 1 || !hist[0].At.Equal(want) {
		t.Errorf("history = %+v, want one entry at %v", hist, want)
	}
}

func TestCorruptTimestampsAreErrors(t *testing.T) {
	s := openTest(t)
	g := sampleGoal("g1")
	if err := s.SaveGoal(g); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(s.rebind("INSERT INTO contributions (goal_id, amount, contributed_at) VALUES (?, ?, ?)"),
		g.ID, 10.0, "yesterday"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Contributions(g.ID); err == nil {
		t.Error("Contributions accepted a corrupt contributed_at")
	}

	if _, err := s.db.Exec(s.rebind("UPDATE goals SET target_date = ? WHERE id = ?"), "soon", g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoal(g.ID); err == nil {
		t.Error("GetGoal accepted a corrupt target_date")
	}
	if _, err := s.LoadGoals(); err == nil {
		t.Error("LoadGoals accepted a corrupt target_date")
	}

	tx := model.Transaction{ID: "1", Date: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Amount: 5, Kind: model.KindExpense, Category: "coffee"}
	if err := s.SaveFile("/ledger/a.csv", []model.Transaction{tx}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec("UPDATE transactions SET tx_date = 'garbage'"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadAllTransactions(); err == nil {
		t.Error("LoadAllTransactions accepted a corrupt tx_date")
	}
}

func TestLedgerCache(t *testing.T) {
	s := openTest(t)
	day := time.Date(2024, 2, 3, 9, 0, 0, 0, time.UTC)
	txs := []model.Transaction{
		{ID: "1", Date: day, Amount: 120, Kind: model.KindExpense, Category: "coffee", Merchant: "Blue Tokai", Recurring: true},
		{ID: "2", Date: day.Add(time.Hour), Amount: 50000, Kind: model.KindIncome, Category: "salary", Merchant: "Acme", Notes: "feb"},
	}

	if err := s.SaveFile("/ledger/a.jsonl", txs, 100, 200); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	tracked, err := s.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if fi := tracked["/ledger/a.jsonl"]; fi.MtimeNs != 100 || fi.SizeBytes != 200 {
		t.Errorf("tracked = %+v", tracked)
	}

	got, err := s.LoadAllTransactions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].FilePath != "/ledger/a.jsonl" || !got[0].Recurring || got[0].Kind != model.KindExpense {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Notes != "feb" || got[1].Kind != model.KindIncome || !got[1].Date.Equal(txs[1].Date) {
		t.Errorf("second = %+v", got[1])
	}

	// Re-saving replaces rather than appends.
	if err := s.SaveFile("/ledger/a.jsonl", txs[:1], 101, 100); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.TransactionCount(); n != 1 {
		t.Errorf("TransactionCount = %d, want 1", n)
	}

	if err := s.DeleteFile("/ledger/a.jsonl"); err != nil {
		t.Fatal(err)
	}
	tracked, _ = s.GetTrackedFiles()
	if len(tracked) != 0 {
		t.Errorf("tracked after delete = %+v", tracked)
	}
	if n, _ := s.TransactionCount(); n != 0 {
		t.Errorf("TransactionCount = %d after delete", n)
	}
}

func TestRebindDollar(t *testing.T) {
	got := rebindDollar("SELECT a FROM t WHERE x = ? AND y IN (?, ?)")
	want := "SELECT a FROM t WHERE x = $1 AND y IN ($2, $3)"
	if got != want {
		t.Errorf("rebindDollar = %q, want %q", got, want)
	}
}

func TestIsPostgres(t *testing.T) {
	tests := map[string]bool{
		"postgres://u@localhost/billu":   true,
		"postgresql://u@localhost/billu": true,
		"/home/u/.local/share/billu.db":  false,
		"billu.db":                       false,
	}
	for dsn, want := range tests {
		if got := isPostgres(dsn); got != want {
			t.Errorf("isPostgres(%q) = %v, want %v", dsn, got, want)
		}
	}
}
