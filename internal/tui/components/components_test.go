package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 || widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Errorf("LayoutRow(100, 3) = %v", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(10, 0) should be nil")
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Next month", Value: "24,000"},
		{Label: "Trend", Value: "down", Delta: "-8.3%", Tone: ToneGood},
	}, 60)
	if w := lipgloss.Width(row); w != 60 {
		t.Errorf("row width = %d, want 60", w)
	}
}

func TestBarChartLabels(t *testing.T) {
	out := BarChart(
		[]float64{22000, 23000, 24000, 25000},
		[]string{"Jan", "Feb", "Mar", "Apr"},
		nil, 60, 8,
	)
	for _, lbl := range []string{"Jan", "Apr"} {
		if !strings.Contains(out, lbl) {
			t.Errorf("chart missing label %q:\n%s", lbl, out)
		}
	}
	if BarChart(nil, nil, nil, 60, 8) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestGoalBar(t *testing.T) {
	out := GoalBar("New Laptop", 41.666, 12, 20)
	if !strings.Contains(out, "41.7%") || !strings.Contains(out, "New Laptop") {
		t.Errorf("GoalBar = %q", out)
	}
	if out := GoalBar("x", 180, 4, 10); !strings.Contains(out, "100.0%") {
		t.Errorf("clamped GoalBar = %q", out)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('g') != 1 {
		t.Errorf("TabIdxByKey('g') = %d", TabIdxByKey('g'))
	}
	if TabIdxByKey('z') != -1 {
		t.Errorf("TabIdxByKey('z') = %d", TabIdxByKey('z'))
	}
}
