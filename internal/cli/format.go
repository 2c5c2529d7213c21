// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	currencyMu sync.RWMutex
	currency   = "INR"
)

// SetCurrency sets the ISO 4217 code used by FormatMoney.
func SetCurrency(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	currencyMu.Lock()
	currency = code
	currencyMu.Unlock()
}

// Currency returns the ISO 4217 code used by FormatMoney.
func Currency() string {
	currencyMu.RLock()
	defer currencyMu.RUnlock()
	return currency
}

// FormatMoney formats an amount in the configured currency,
// e.g. 50000 -> "₹50,000.00" for INR.
func FormatMoney(amount float64) string {
	return FormatMoneyIn(amount, Currency())
}

// FormatMoneyIn formats an amount in the given currency. Unknown codes fall
// back to "CODE 1,234.50".
func FormatMoneyIn(amount float64, code string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", code, formatFixed(amount))
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func formatFixed(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := math.Floor(amount)
	cents := int64(math.Round((amount - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	s := fmt.Sprintf("%s.%02d", FormatNumber(int64(whole)), cents)
	if neg {
		return "-" + s
	}
	return s
}

// FormatCompact formats an amount with human-readable suffixes.
// e.g., 950 -> "950", 24000 -> "24.0K", 1234567 -> "1.2M"
func FormatCompact(amount float64) string {
	abs := math.Abs(amount)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", amount/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", amount/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", amount/1_000)
	default:
		return strconv.FormatInt(int64(math.Round(amount)), 10)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatMonths formats a whole number of months remaining.
func FormatMonths(n int) string {
	switch {
	case n <= 0:
		return "due"
	case n == 1:
		return "1 month"
	default:
		return fmt.Sprintf("%d months", n)
	}
}

// FormatDelta formats a money delta with a sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatDayOfWeek returns a 3-letter day abbreviation.
func FormatDayOfWeek(d time.Weekday) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if d >= 0 && int(d) < len(days) {
		return days[d]
	}
	return "???"
}

// FormatDate formats a date the way goal tables show it, e.g. "30 Jun 2024".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}
