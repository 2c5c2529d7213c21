// Package calc holds the small numeric and date helpers shared by the
// forecast and goals packages.
package calc

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput is the root of every validation error raised by the
// forecasting and goal-tracking core.
var ErrInvalidInput = errors.New("invalid input")

// DaysPerMonth is the fixed month length used by goal timelines.
const DaysPerMonth = 30

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// DaysBetween returns the signed, fractional number of days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// ApproxMonthsUntil returns ceil(days(target-now)/30), floored at zero.
// A partial 30-day block counts as a whole month.
func ApproxMonthsUntil(target, now time.Time) int {
	months := math.Ceil(DaysBetween(now, target) / DaysPerMonth)
	if months <= 0 {
		return 0
	}
	return int(months)
}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabel returns the three-letter label for a month.
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthLabels[m-1]
}

// MonthIndex parses a month label ("Mar", "march", "MAR") into a month.
// It returns false when the label does not name a month.
func MonthIndex(label string) (time.Month, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if len(l) < 3 {
		return 0, false
	}
	for i, short := range monthLabels {
		m := time.Month(i + 1)
		if l == strings.ToLower(short) || l == strings.ToLower(m.String()) {
			return m, true
		}
	}
	return 0, false
}
