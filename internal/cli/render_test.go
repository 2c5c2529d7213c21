package cli

import (
	"strings"
	"testing"
)

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(41.666, 12)
	if !strings.Contains(out, "41.7%") {
		t.Errorf("RenderProgressBar = %q", out)
	}
	if out := RenderProgressBar(250, 10); !strings.Contains(out, "100.0%") {
		t.Errorf("clamped bar = %q", out)
	}
	if RenderProgressBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestPadByDisplayWidth(t *testing.T) {
	if got := padLeft("₹5", 4); got != "  ₹5" {
		t.Errorf("padLeft = %q", got)
	}
	if got := padRight("₹5", 4); got != "₹5  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("toolong", 3); got != "toolong" {
		t.Errorf("padRight overflow = %q", got)
	}
}

func TestRenderTableAlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Month", "Spent"},
		Rows: [][]string{
			{"Jan", "₹22,000.00"},
			{"---"},
			{"Total", "₹1.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 5 {
		t.Fatalf("table too short:\n%s", out)
	}
	want := len([]rune(lines[0]))
	for i, l := range lines {
		if got := len([]rune(l)); got != want {
			t.Errorf("line %d is %d runes wide, want %d:\n%s", i, got, want, out)
		}
	}
}
