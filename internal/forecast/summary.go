package forecast

import (
	"fmt"
	"math"

	"github.com/theirongolddev/billu/internal/calc"
	"github.com/theirongolddev/billu/internal/model"
)

// Direction is the sign of the expected change from the last period.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Summary condenses a history and its projection into headline numbers.
type Summary struct {
	AvgExpenses   float64
	AvgSavings    float64 // mean of income-expenses over periods with income
	HasIncome     bool
	LastExpenses  float64
	LastIncome    float64
	PredictedNext float64
	Direction     Direction
	TrendPercent  float64 // |next-last| / last * 100

	// ProjectedSavings is LastIncome - PredictedNext; only meaningful when
	// HasIncome is true.
	ProjectedSavings float64
}

// Summarize computes the headline numbers for a history and the points
// returned by Forecast or Predict. When points holds no predicted value the
// average expenses stand in for the next period.
func Summarize(history []model.HistoricalPeriod, points []model.ForecastPoint) (Summary, error) {
	if len(history) == 0 {
		return Summary{}, fmt.Errorf("%w: empty history", ErrInvalidInput)
	}

	expenses := make([]float64, 0, len(history))
	var savings []float64
	for _, h := range history {
		expenses = append(expenses, h.Expenses)
		if h.Income > 0 {
			savings = append(savings, h.Income-h.Expenses)
		}
	}

	last := history[len(history)-1]
	s := Summary{
		AvgExpenses:  calc.Mean(expenses),
		AvgSavings:   calc.Mean(savings),
		HasIncome:    len(savings) > 0,
		LastExpenses: last.Expenses,
		LastIncome:   last.Income,
	}

	s.PredictedNext = s.AvgExpenses
	for _, p := range points {
		if p.Kind == model.PointPredicted {
			s.PredictedNext = p.Expenses
			break
		}
	}

	s.Direction = DirectionDown
	if s.PredictedNext > s.LastExpenses {
		s.Direction = DirectionUp
	}
	if s.LastExpenses != 0 {
		s.TrendPercent = math.Abs((s.PredictedNext - s.LastExpenses) / s.LastExpenses * 100)
	}
	if s.HasIncome {
		income := last.Income
		if income <= 0 {
			income = latestIncome(history)
		}
		s.LastIncome = income
		s.ProjectedSavings = income - s.PredictedNext
	}
	return s, nil
}

func latestIncome(history []model.HistoricalPeriod) float64 {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Income > 0 {
			return history[i].Income
		}
	}
	return 0
}
