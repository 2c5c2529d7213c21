package calc

import (
	"math"
	"testing"
	"time"
)

func TestApproxMonthsUntil(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days float64
		want int
	}{
		{"past due", -10, 0},
		{"same instant", 0, 0},
		{"one day", 1, 1},
		{"29 days", 29, 1},
		{"exactly 30 days", 30, 1},
		{"31 days", 31, 2},
		{"90 days", 90, 3},
		{"half a day", 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := now.Add(time.Duration(tt.days * 24 * float64(time.Hour)))
			if got := ApproxMonthsUntil(target, now); got != tt.want {
				t.Fatalf("ApproxMonthsUntil(+%.1fd) = %d, want %d", tt.days, got, tt.want)
			}
		})
	}
}

func TestMonthIndex(t *testing.T) {
	for _, label := range []string{"Mar", "mar", "March", " MARCH "} {
		m, ok := MonthIndex(label)
		if !ok || m != time.March {
			t.Fatalf("MonthIndex(%q) = %v, %v; want March, true", label, m, ok)
		}
	}
	for _, label := range []string{"", "Ma", "Q1", "Period 3"} {
		if _, ok := MonthIndex(label); ok {
			t.Fatalf("MonthIndex(%q) unexpectedly matched", label)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(time.April); got != "Apr" {
		t.Fatalf("MonthLabel(April) = %q, want Apr", got)
	}
	if got := MonthLabel(0); got != "" {
		t.Fatalf("MonthLabel(0) = %q, want empty", got)
	}
}

func TestClampAndMean(t *testing.T) {
	if Clamp(150, 0, 100) != 100 || Clamp(-1, 0, 100) != 0 || Clamp(42, 0, 100) != 42 {
		t.Fatal("Clamp did not limit to range")
	}
	if Mean(nil) != 0 {
		t.Fatal("Mean(nil) should be 0")
	}
	if got := Mean([]float64{22000, 18500, 24000}); math.Abs(got-21500) > 1e-9 {
		t.Fatalf("Mean = %.2f, want 21500", got)
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || !IsFinite(3) {
		t.Fatal("IsFinite misclassified a value")
	}
}
