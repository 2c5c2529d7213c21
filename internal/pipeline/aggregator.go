// Package pipeline orchestrates ledger loading, caching, and aggregation of
// transactions into forecastable periods.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/billu/internal/model"
)

// AggregateMonths sums transactions per calendar month (local time) within
// [since, until) and returns one entry per month, oldest first. Months
// without any transaction between the first and last active month are
// filled with zeros so the series stays evenly spaced.
func AggregateMonths(txs []model.Transaction, since, until time.Time) []model.MonthlyStats {
	filtered := FilterByTime(txs, since, until)
	if len(filtered) == 0 {
		return nil
	}

	type bucket struct {
		expenses, income decimal.Decimal
		count            int
	}
	byMonth := make(map[time.Time]*bucket)

	var first, last time.Time
	for _, tx := range filtered {
		key := monthStart(tx.Date)
		b, ok := byMonth[key]
		if !ok {
			b = &bucket{}
			byMonth[key] = b
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Kind == model.KindIncome {
			b.income = b.income.Add(amount)
		} else {
			b.expenses = b.expenses.Add(amount)
		}
		b.count++

		if first.IsZero() || key.Before(first) {
			first = key
		}
		if key.After(last) {
			last = key
		}
	}

	var months []model.MonthlyStats
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		ms := model.MonthlyStats{Month: m}
		if b, ok := byMonth[m]; ok {
			ms.Expenses = b.expenses.InexactFloat64()
			ms.Income = b.income.InexactFloat64()
			ms.Transactions = b.count
		}
		months = append(months, ms)
	}
	return months
}

// History converts monthly totals into the period series the forecaster
// consumes.
func History(months []model.MonthlyStats) []model.HistoricalPeriod {
	periods := make([]model.HistoricalPeriod, 0, len(months))
	for _, m := range months {
		periods = append(periods, m.Period())
	}
	return periods
}

// NextMonthLabels labels the n months after the last aggregated month with
// layout, crossing year boundaries ("Dec 2024" is followed by "Jan 2025").
// It returns nil when months is empty.
func NextMonthLabels(months []model.MonthlyStats, n int, layout string) []string {
	if len(months) == 0 || n <= 0 {
		return nil
	}
	last := months[len(months)-1].Month
	labels := make([]string, n)
	for i := range labels {
		labels[i] = last.AddDate(0, i+1, 0).Format(layout)
	}
	return labels
}

// AggregateCategories computes per-category spending with share
// percentages (0-100), largest first. Income is ignored.
func AggregateCategories(txs []model.Transaction, since, until time.Time) []model.CategoryStats {
	filtered := FilterByTime(txs, since, until)

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	total := decimal.Zero
	for _, tx := range filtered {
		if tx.Kind == model.KindIncome {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		sums[tx.Category] = sums[tx.Category].Add(amount)
		counts[tx.Category]++
		total = total.Add(amount)
	}

	cats := make([]model.CategoryStats, 0, len(sums))
	for name, sum := range sums {
		cs := model.CategoryStats{
			Category:     name,
			Amount:       sum.InexactFloat64(),
			Transactions: counts[name],
		}
		if total.IsPositive() {
			cs.SharePercent = sum.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		cats = append(cats, cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Amount == cats[j].Amount {
			return cats[i].Category < cats[j].Category
		}
		return cats[i].Amount > cats[j].Amount
	})
	return cats
}

// CategoryChange compares a category's spending in two consecutive months.
type CategoryChange struct {
	Category      string
	Current       float64
	Previous      float64
	ChangePercent float64 // 0 when there was no previous spending
	New           bool    // no spending in the previous month
}

// CompareCategories compares each category's spending in the month
// containing at against the month before it, largest change first.
func CompareCategories(txs []model.Transaction, at time.Time) []CategoryChange {
	cur := monthStart(at)
	prev := cur.AddDate(0, -1, 0)
	next := cur.AddDate(0, 1, 0)

	current := AggregateCategories(txs, cur, next)
	previous := AggregateCategories(txs, prev, cur)

	prevByName := make(map[string]float64, len(previous))
	for _, c := range previous {
		prevByName[c.Category] = c.Amount
	}

	changes := make([]CategoryChange, 0, len(current))
	for _, c := range current {
		ch := CategoryChange{Category: c.Category, Current: c.Amount}
		p, ok := prevByName[c.Category]
		ch.Previous = p
		ch.New = !ok
		if ok && p > 0 {
			ch.ChangePercent = (c.Amount - p) / p * 100
		}
		changes = append(changes, ch)
	}
	for _, p := range previous {
		found := false
		for _, c := range current {
			if c.Category == p.Category {
				found = true
				break
			}
		}
		if !found {
			changes = append(changes, CategoryChange{Category: p.Category, Previous: p.Amount, ChangePercent: -100})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return abs(changes[i].ChangePercent) > abs(changes[j].ChangePercent)
	})
	return changes
}

// AggregateWeekdays attributes spending to the day of the week, Monday
// first. Days counts the distinct dates with spending for each weekday.
func AggregateWeekdays(txs []model.Transaction, since, until time.Time) []model.WeekdayStats {
	filtered := FilterByTime(txs, since, until)

	days := make([]model.WeekdayStats, 7)
	for i := range days {
		days[i].Weekday = time.Weekday((i + 1) % 7)
	}
	seen := make(map[string]struct{})

	for _, tx := range filtered {
		if tx.Kind == model.KindIncome {
			continue
		}
		local := tx.Date.Local()
		idx := (int(local.Weekday()) + 6) % 7
		days[idx].Amount += tx.Amount
		days[idx].Transactions++

		key := local.Format("2006-01-02")
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			days[idx].Days++
		}
	}
	return days
}

// WeekendPremium returns how much more (in percent) is spent on an active
// weekend day than on an active weekday. It returns 0 when either side has
// no activity.
func WeekendPremium(days []model.WeekdayStats) float64 {
	var weekendAmt, weekdayAmt float64
	var weekendDays, weekdayDays int
	for _, d := range days {
		if d.Weekday == time.Saturday || d.Weekday == time.Sunday {
			weekendAmt += d.Amount
			weekendDays += d.Days
		} else {
			weekdayAmt += d.Amount
			weekdayDays += d.Days
		}
	}
	if weekendDays == 0 || weekdayDays == 0 || weekdayAmt == 0 {
		return 0
	}
	perWeekend := weekendAmt / float64(weekendDays)
	perWeekday := weekdayAmt / float64(weekdayDays)
	return (perWeekend/perWeekday - 1) * 100
}

// FilterByTime returns transactions dated within [since, until). A zero
// bound is open.
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txs
	}

	var result []model.Transaction
	for _, tx := range txs {
		if !since.IsZero() && tx.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !tx.Date.Before(until) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

// FilterByCategory returns transactions whose category matches the
// substring, ignoring case.
func FilterByCategory(txs []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txs
	}
	var result []model.Transaction
	for _, tx := range txs {
		if containsIgnoreCase(tx.Category, category) {
			result = append(result, tx)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func monthStart(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
