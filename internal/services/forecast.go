package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"dinero/internal/core"
)

// Advice strings returned by the forecast estimator.
const (
	AdviceNoData       = "Not enough data to predict next month yet."
	AdviceGrowing      = "Spending is trending up. Review your recent expenses."
	AdviceBelowAverage = "You are spending below your average. Good job!"
	AdviceOnTrack      = "Spending is on track with your average."
)

// Forecast is a naive next-month spending estimate. Informational only.
type Forecast struct {
	Prediction core.Money
	Advice     string
	History    []core.MonthAmount
}

// ForecastEstimator extrapolates next month's spending from historical
// monthly totals using the average month-over-month delta. It is a linear
// extrapolation, not a model.
type ForecastEstimator struct {
	store Store
}

func NewForecastEstimator(store Store) *ForecastEstimator {
	return &ForecastEstimator{store: store}
}

// PredictNext returns the estimate for the month after the last recorded
// one. Zero history predicts 0; a single month predicts that month again;
// otherwise the mean delta between consecutive months is added to the
// last total. The advice compares the prediction to the historical mean:
// above 110% of it is growing, below 90% is below average, else on track.
func (f *ForecastEstimator) PredictNext(ctx context.Context, userID int64) (Forecast, error) {
	history, err := f.store.MonthlyExpenseTotals(ctx, userID)
	if err != nil {
		return Forecast{}, fmt.Errorf("load monthly totals: %w", err)
	}

	if len(history) == 0 {
		return Forecast{Advice: AdviceNoData}, nil
	}

	last := history[len(history)-1].Amount
	prediction := last
	if len(history) > 1 {
		// The mean of consecutive deltas telescopes to
		// (last - first) / (n - 1).
		first := history[0].Amount
		meanDelta := last.Decimal().
			Sub(first.Decimal()).
			Div(decimal.NewFromInt(int64(len(history) - 1)))
		cents := last.Decimal().Add(meanDelta).Round(2).Shift(2).IntPart()
		if cents < 0 {
			cents = 0
		}
		prediction = core.Money{Cents: cents}
	}

	var sum decimal.Decimal
	for _, ma := range history {
		sum = sum.Add(ma.Amount.Decimal())
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(history))))

	advice := AdviceOnTrack
	switch {
	case prediction.Decimal().GreaterThan(mean.Mul(decimal.NewFromFloat(1.1))):
		advice = AdviceGrowing
	case prediction.Decimal().LessThan(mean.Mul(decimal.NewFromFloat(0.9))):
		advice = AdviceBelowAverage
	}

	return Forecast{Prediction: prediction, Advice: advice, History: history}, nil
}
