// Package forecast projects future period spending from a short history
// using exponential smoothing with a linear trend carry-over and a floor.
package forecast

import (
	"fmt"
	"math"

	"github.com/theirongolddev/billu/internal/calc"
	"github.com/theirongolddev/billu/internal/model"
)

// ErrInvalidInput is returned for an empty history or out-of-range options.
var ErrInvalidInput = fmt.Errorf("forecast: %w", calc.ErrInvalidInput)

// DefaultSmoothingFactor is the smoothing weight used when the caller has
// no preference.
const DefaultSmoothingFactor = 0.3

// Options controls a projection.
type Options struct {
	Horizon         int     // number of future periods, >= 1
	SmoothingFactor float64 // in (0, 1]
	Floor           float64 // predictions never go below this, >= 0
	Noise           NoiseSource
	Labels          []string // optional labels for the predicted periods
}

// DefaultOptions returns a three-period projection with no floor and no noise.
func DefaultOptions() Options {
	return Options{
		Horizon:         3,
		SmoothingFactor: DefaultSmoothingFactor,
		Noise:           NoNoise{},
	}
}

func (o Options) validate() error {
	if o.Horizon < 1 {
		return fmt.Errorf("%w: horizon %d < 1", ErrInvalidInput, o.Horizon)
	}
	if !(o.SmoothingFactor > 0 && o.SmoothingFactor <= 1) {
		return fmt.Errorf("%w: smoothing factor %v outside (0, 1]", ErrInvalidInput, o.SmoothingFactor)
	}
	if !calc.IsFinite(o.Floor) || o.Floor < 0 {
		return fmt.Errorf("%w: floor %v must be a finite value >= 0", ErrInvalidInput, o.Floor)
	}
	return nil
}

// Forecast returns every historical period as an actual point followed by
// opts.Horizon predicted points.
func Forecast(history []model.HistoricalPeriod, opts Options) ([]model.ForecastPoint, error) {
	predicted, err := Predict(history, opts)
	if err != nil {
		return nil, err
	}

	points := make([]model.ForecastPoint, 0, len(history)+len(predicted))
	for _, h := range history {
		points = append(points, model.ForecastPoint{
			Label:    h.Label,
			Expenses: h.Expenses,
			Kind:     model.PointActual,
		})
	}
	return append(points, predicted...), nil
}

// Predict returns only the opts.Horizon predicted points.
//
// The first prediction carries the last observed value forward unchanged.
// Each later prediction adds the average per-period drift of the whole
// window, (last-first)/len, plus one draw from opts.Noise to the running
// forecast. Every emitted value is raised to opts.Floor; the running
// forecast itself is not.
func Predict(history []model.HistoricalPeriod, opts Options) ([]model.ForecastPoint, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty history", ErrInvalidInput)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	values := make([]float64, len(history))
	for i, h := range history {
		if !calc.IsFinite(h.Expenses) {
			return nil, fmt.Errorf("%w: period %d (%q) has non-finite expenses", ErrInvalidInput, i, h.Label)
		}
		values[i] = h.Expenses
	}

	noise := opts.Noise
	if noise == nil {
		noise = NoNoise{}
	}

	trend := Trend(history)

	labels := labelsFor(history[len(history)-1].Label, opts.Labels, opts.Horizon)
	points := make([]model.ForecastPoint, opts.Horizon)
	running := values[len(values)-1]
	for i := range points {
		if i > 0 {
			running = running + trend + noise.Perturb()
		}
		points[i] = model.ForecastPoint{
			Label:    labels[i],
			Expenses: math.Max(running, opts.Floor),
			Kind:     model.PointPredicted,
		}
	}
	return points, nil
}

// Trend returns the average per-period drift over the history window, or 0
// for fewer than two periods.
func Trend(history []model.HistoricalPeriod) float64 {
	if len(history) < 2 {
		return 0
	}
	first := history[0].Expenses
	last := history[len(history)-1].Expenses
	return (last - first) / float64(len(history))
}
