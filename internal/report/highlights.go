// Package report turns aggregated ledger data into highlights and a
// markdown report.
package report

import (
	"fmt"
	"math"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/source"
)

// Thresholds below which a pattern is not worth reporting.
const (
	MinWeekendPremium = 5.0
	MinCategoryChange = 10.0
)

// Tone says whether a highlight is good or bad news for the budget.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneUp           // spending more
	ToneDown         // spending less
)

// Highlight is one notable spending pattern.
type Highlight struct {
	Tone   Tone
	Marker string
	Text   string
}

// Highlights lists the weekend premium and up to limit category changes.
// limit <= 0 means no limit.
func Highlights(weekdays []model.WeekdayStats, changes []pipeline.CategoryChange, limit int) []Highlight {
	var out []Highlight

	if p := pipeline.WeekendPremium(weekdays); math.Abs(p) >= MinWeekendPremium {
		h := Highlight{Tone: ToneUp, Marker: "●"}
		word := "more"
		if p < 0 {
			h.Tone = ToneDown
			word = "less"
		}
		h.Text = fmt.Sprintf("You spend %.0f%% %s per day on weekends", math.Abs(p), word)
		out = append(out, h)
	}

	shown := 0
	for _, ch := range changes {
		if limit > 0 && shown == limit {
			break
		}
		name := source.CategoryName(ch.Category)
		switch {
		case ch.New:
			out = append(out, Highlight{ToneUp, "●",
				fmt.Sprintf("New this month: %s (%s)", name, cli.FormatMoney(ch.Current))})
		case ch.ChangePercent >= MinCategoryChange:
			out = append(out, Highlight{ToneUp, "▲",
				fmt.Sprintf("%s spending up %.0f%%", name, ch.ChangePercent)})
		case ch.ChangePercent <= -MinCategoryChange:
			out = append(out, Highlight{ToneDown, "▼",
				fmt.Sprintf("%s spending down %.0f%%", name, -ch.ChangePercent)})
		default:
			continue
		}
		shown++
	}
	return out
}
