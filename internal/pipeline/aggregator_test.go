package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/billu/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func expense(date time.Time, amount float64, category string) model.Transaction {
	return model.Transaction{Date: date, Amount: amount, Kind: model.KindExpense, Category: category}
}

func income(date time.Time, amount float64) model.Transaction {
	return model.Transaction{Date: date, Amount: amount, Kind: model.KindIncome, Category: "salary"}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAggregateMonths(t *testing.T) {
	txs := []model.Transaction{
		expense(day(2024, 3, 5), 0.1, "coffee"),
		expense(day(2024, 1, 10), 100, "food"),
		expense(day(2024, 3, 6), 0.2, "coffee"),
		income(day(2024, 1, 1), 5000),
		expense(day(2024, 1, 20), 50.5, "transport"),
	}

	months := AggregateMonths(txs, time.Time{}, time.Time{})
	if len(months) != 3 {
		t.Fatalf("got %d months, want 3 (Feb filled)", len(months))
	}

	if months[0].Month.Month() != time.January || !approx(months[0].Expenses, 150.5) || months[0].Income != 5000 {
		t.Errorf("Jan = %+v", months[0])
	}
	if months[0].Transactions != 3 {
		t.Errorf("Jan transactions = %d, want 3", months[0].Transactions)
	}
	if months[1].Month.Month() != time.February || months[1].Expenses != 0 || months[1].Transactions != 0 {
		t.Errorf("Feb = %+v, want zero month", months[1])
	}
	// decimal sums avoid 0.30000000000000004
	if months[2].Expenses != 0.3 {
		t.Errorf("Mar expenses = %v, want exactly 0.3", months[2].Expenses)
	}

	hist := History(months)
	labels := []string{"Jan", "Feb", "Mar"}
	for i, h := range hist {
		if h.Label != labels[i] {
			t.Errorf("hist[%d].Label = %q, want %q", i, h.Label, labels[i])
		}
	}
	if hist[0].Income != 5000 {
		t.Errorf("hist[0].Income = %v", hist[0].Income)
	}
}

func TestAggregateMonthsWindow(t *testing.T) {
	txs := []model.Transaction{
		expense(day(2024, 1, 10), 100, "food"),
		expense(day(2024, 2, 10), 200, "food"),
		expense(day(2024, 3, 10), 300, "food"),
	}
	months := AggregateMonths(txs, day(2024, 2, 1), day(2024, 3, 1))
	if len(months) != 1 || months[0].Expenses != 200 {
		t.Errorf("windowed = %+v, want only Feb", months)
	}
	if got := AggregateMonths(nil, time.Time{}, time.Time{}); got != nil {
		t.Errorf("empty = %+v, want nil", got)
	}
}

func TestAggregateCategories(t *testing.T) {
	txs := []model.Transaction{
		expense(day(2024, 1, 1), 300, "food"),
		expense(day(2024, 1, 2), 100, "coffee"),
		expense(day(2024, 1, 3), 600, "food"),
		income(day(2024, 1, 4), 99999),
	}
	cats := AggregateCategories(txs, time.Time{}, time.Time{})
	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Category != "food" || cats[0].Amount != 900 || cats[0].Transactions != 2 {
		t.Errorf("first = %+v", cats[0])
	}
	if !approx(cats[0].SharePercent, 90) || !approx(cats[1].SharePercent, 10) {
		t.Errorf("shares = %v, %v; want 90, 10", cats[0].SharePercent, cats[1].SharePercent)
	}
}

func TestCompareCategories(t *testing.T) {
	txs := []model.Transaction{
		expense(day(2024, 1, 5), 100, "coffee"),
		expense(day(2024, 1, 6), 500, "shopping"),
		expense(day(2024, 2, 5), 140, "coffee"),
		expense(day(2024, 2, 6), 80, "transport"),
	}
	changes := CompareCategories(txs, day(2024, 2, 15))

	byName := make(map[string]CategoryChange)
	for _, c := range changes {
		byName[c.Category] = c
	}
	if c := byName["coffee"]; !approx(c.ChangePercent, 40) || c.New {
		t.Errorf("coffee = %+v, want +40%%", c)
	}
	if c := byName["transport"]; !c.New || c.Current != 80 {
		t.Errorf("transport = %+v, want new", c)
	}
	if c := byName["shopping"]; c.ChangePercent != -100 || c.Current != 0 {
		t.Errorf("shopping = %+v, want -100%%", c)
	}
	if changes[0].Category != "shopping" {
		t.Errorf("largest change first: got %q", changes[0].Category)
	}
}

func TestAggregateWeekdays(t *testing.T) {
	// 2024-01-06 is a Saturday, 2024-01-08 a Monday.
	txs := []model.Transaction{
		expense(day(2024, 1, 6), 300, "food"),
		expense(day(2024, 1, 6), 100, "coffee"),
		expense(day(2024, 1, 8), 100, "food"),
		expense(day(2024, 1, 15), 100, "food"),
		income(day(2024, 1, 9), 5000),
	}
	days := AggregateWeekdays(txs, time.Time{}, time.Time{})
	if len(days) != 7 {
		t.Fatalf("got %d days", len(days))
	}
	if days[0].Weekday != time.Monday || days[6].Weekday != time.Sunday {
		t.Errorf("order = %v..%v, want Monday..Sunday", days[0].Weekday, days[6].Weekday)
	}
	if days[0].Amount != 200 || days[0].Days != 2 || days[0].Transactions != 2 {
		t.Errorf("Monday = %+v", days[0])
	}
	if days[5].Amount != 400 || days[5].Days != 1 {
		t.Errorf("Saturday = %+v", days[5])
	}
	if days[1].Amount != 0 {
		t.Errorf("Tuesday = %+v, income must be ignored", days[1])
	}

	// 400 per weekend day vs 100 per weekday: 300% more.
	if got := WeekendPremium(days); !approx(got, 300) {
		t.Errorf("WeekendPremium = %v, want 300", got)
	}
	if got := WeekendPremium(AggregateWeekdays(nil, time.Time{}, time.Time{})); got != 0 {
		t.Errorf("WeekendPremium(empty) = %v", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	txs := []model.Transaction{
		expense(day(2024, 1, 1), 1, "coffee"),
		expense(day(2024, 1, 1), 1, "food"),
	}
	if got := FilterByCategory(txs, "COF"); len(got) != 1 || got[0].Category != "coffee" {
		t.Errorf("FilterByCategory = %+v", got)
	}
	if got := FilterByCategory(txs, ""); len(got) != 2 {
		t.Errorf("empty filter dropped rows")
	}
}

func TestNextMonthLabels(t *testing.T) {
	months := []model.MonthlyStats{
		{Month: time.Date(2024, time.November, 1, 0, 0, 0, 0, time.Local)},
		{Month: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.Local)},
	}
	got := NextMonthLabels(months, 3, "Jan 2006")
	want := []string{"Jan 2025", "Feb 2025", "Mar 2025"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := NextMonthLabels(nil, 3, "Jan"); got != nil {
		t.Errorf("empty history = %v, want nil", got)
	}
}
