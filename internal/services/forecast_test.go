package services

import (
	"context"
	"testing"

	"dinero/internal/storage/memstore"
)

func TestPredictNext(t *testing.T) {
	ctx := context.Background()
	const userID = 1

	t.Run("no history", func(t *testing.T) {
		estimator := NewForecastEstimator(memstore.New())

		f, err := estimator.PredictNext(ctx, userID)
		if err != nil {
			t.Fatalf("PredictNext() error = %v", err)
		}
		if f.Prediction.Cents != 0 {
			t.Errorf("prediction = %d, want 0", f.Prediction.Cents)
		}
		if f.Advice != AdviceNoData {
			t.Errorf("advice = %q, want %q", f.Advice, AdviceNoData)
		}
	})

	t.Run("single month repeats itself", func(t *testing.T) {
		store := memstore.New()
		addExpense(t, store, userID, "Food", "2025-04-10", 10000)
		estimator := NewForecastEstimator(store)

		f, err := estimator.PredictNext(ctx, userID)
		if err != nil {
			t.Fatalf("PredictNext() error = %v", err)
		}
		if f.Prediction.Cents != 10000 {
			t.Errorf("prediction = %d, want 10000", f.Prediction.Cents)
		}
		if f.Advice != AdviceOnTrack {
			t.Errorf("advice = %q, want %q", f.Advice, AdviceOnTrack)
		}
	})

	t.Run("growing trend extrapolates the mean delta", func(t *testing.T) {
		store := memstore.New()
		// Month totals 100, 120, 140: mean delta 20, prediction 160,
		// which is above 110% of the 120 average.
		addExpense(t, store, userID, "Food", "2025-04-10", 10000)
		addExpense(t, store, userID, "Food", "2025-05-10", 12000)
		addExpense(t, store, userID, "Food", "2025-06-10", 14000)
		estimator := NewForecastEstimator(store)

		f, err := estimator.PredictNext(ctx, userID)
		if err != nil {
			t.Fatalf("PredictNext() error = %v", err)
		}
		if f.Prediction.Cents != 16000 {
			t.Errorf("prediction = %d cents, want 16000", f.Prediction.Cents)
		}
		if f.Advice != AdviceGrowing {
			t.Errorf("advice = %q, want %q", f.Advice, AdviceGrowing)
		}
		if len(f.History) != 3 {
			t.Errorf("history length = %d, want 3", len(f.History))
		}
	})

	t.Run("shrinking trend clamps at zero and flags below average", func(t *testing.T) {
		store := memstore.New()
		addExpense(t, store, userID, "Food", "2025-04-10", 30000)
		addExpense(t, store, userID, "Food", "2025-05-10", 20000)
		addExpense(t, store, userID, "Food", "2025-06-10", 10000)
		estimator := NewForecastEstimator(store)

		f, err := estimator.PredictNext(ctx, userID)
		if err != nil {
			t.Fatalf("PredictNext() error = %v", err)
		}
		if f.Prediction.Cents != 0 {
			t.Errorf("prediction = %d, want clamped to 0", f.Prediction.Cents)
		}
		if f.Advice != AdviceBelowAverage {
			t.Errorf("advice = %q, want %q", f.Advice, AdviceBelowAverage)
		}
	})

	t.Run("flat history stays on track", func(t *testing.T) {
		store := memstore.New()
		addExpense(t, store, userID, "Food", "2025-05-10", 10000)
		addExpense(t, store, userID, "Food", "2025-06-10", 10000)
		estimator := NewForecastEstimator(store)

		f, err := estimator.PredictNext(ctx, userID)
		if err != nil {
			t.Fatalf("PredictNext() error = %v", err)
		}
		if f.Prediction.Cents != 10000 {
			t.Errorf("prediction = %d, want 10000", f.Prediction.Cents)
		}
		if f.Advice != AdviceOnTrack {
			t.Errorf("advice = %q, want %q", f.Advice, AdviceOnTrack)
		}
	})
}
