package model

import "time"

// HistoricalPeriod is one observed period total. A slice of periods is
// chronological: its order is the time axis.
type HistoricalPeriod struct {
	Label    string
	Expenses float64
	Income   float64 // 0 when unknown
}

// PointKind marks a forecast point as observed or projected.
type PointKind string

const (
	PointActual    PointKind = "actual"
	PointPredicted PointKind = "predicted"
)

// ForecastPoint is a derived series value produced by the forecaster.
type ForecastPoint struct {
	Label    string
	Expenses float64
	Kind     PointKind
}

// MonthlyStats holds the totals for one calendar month of ledger data.
type MonthlyStats struct {
	Month        time.Time // first day of the month, local time
	Expenses     float64
	Income       float64
	Transactions int
}

// Period converts the month into a HistoricalPeriod labelled "Jan".."Dec".
func (m MonthlyStats) Period() HistoricalPeriod {
	return HistoricalPeriod{
		Label:    m.Month.Format("Jan"),
		Expenses: m.Expenses,
		Income:   m.Income,
	}
}

// CategoryStats holds spending for a single category.
type CategoryStats struct {
	Category     string
	Amount       float64
	Transactions int
	SharePercent float64
}

// WeekdayStats holds spending attributed to one day of the week.
type WeekdayStats struct {
	Weekday      time.Weekday
	Amount       float64
	Transactions int
	Days         int // distinct dates with spending
}
