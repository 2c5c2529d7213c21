package forecast

import (
	"fmt"
	"time"

	"github.com/theirongolddev/billu/internal/calc"
)

// GenericLabel is the fallback label for the step-th prediction (1-based).
func GenericLabel(step int) string {
	return fmt.Sprintf("Period %d", step)
}

// CalendarLabels labels n future periods following lastLabel. When
// lastLabel names a month, the months left in that calendar year are used
// first ("Jun" continues with "Jul".."Dec"); every other step falls back to
// GenericLabel.
func CalendarLabels(lastLabel string, n int) []string {
	labels := make([]string, n)
	m, ok := calc.MonthIndex(lastLabel)
	for i := range labels {
		next := int(m) + 1 + i
		if ok && next <= int(time.December) {
			labels[i] = calc.MonthLabel(time.Month(next))
			continue
		}
		labels[i] = GenericLabel(i + 1)
	}
	return labels
}

func labelsFor(lastLabel string, explicit []string, n int) []string {
	if explicit == nil {
		return CalendarLabels(lastLabel, n)
	}
	labels := make([]string, n)
	for i := range labels {
		if i < len(explicit) && explicit[i] != "" {
			labels[i] = explicit[i]
		} else {
			labels[i] = GenericLabel(i + 1)
		}
	}
	return labels
}
