package http

import (
	"net/http"

	"dinero/internal/core"
	"dinero/internal/services"
)

type progressResponse struct {
	Category string  `json:"category"`
	Budget   string  `json:"budget"`
	Spent    string  `json:"spent"`
	Percent  float64 `json:"percent"`
	State    string  `json:"state"`
}

func progressToResponse(records []services.ProgressRecord) []progressResponse {
	out := make([]progressResponse, len(records))
	for i, rec := range records {
		out[i] = progressResponse{
			Category: rec.Category,
			Budget:   rec.Budget.String(),
			Spent:    rec.Spent.String(),
			Percent:  rec.Percent,
			State:    string(rec.State),
		}
	}
	return out
}

// handleDashboard returns the month summary: totals, balance, budget
// progress, and the month's income/expense series on a shared axis.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)
	month := s.monthParam(r)

	summary, err := s.svc.Summary.ForMonth(ctx, userID, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	labels, incomeValues, expenseValues, err := s.svc.Trends.MonthRangeSeries(ctx, userID, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"month":    summary.Month,
		"income":   summary.Income.String(),
		"expenses": summary.Expenses.String(),
		"balance":  summary.Balance.String(),
		"progress": progressToResponse(summary.Progress),
		"series": map[string]any{
			"labels":   labels,
			"income":   incomeValues,
			"expenses": expenseValues,
		},
	})
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	kind := core.KindExpense
	if r.URL.Query().Get("kind") == string(core.KindIncome) {
		kind = core.KindIncome
	}

	labels, values, err := s.svc.Trends.DailySeries(r.Context(), userIDFrom(r.Context()), kind, s.trendDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"labels": labels,
		"values": values,
	})
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	labels, values, err := s.svc.Trends.CategorySeries(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"labels": labels,
		"values": values,
	})
}

func (s *Server) handleMonthChart(w http.ResponseWriter, r *http.Request) {
	labels, incomeValues, expenseValues, err := s.svc.Trends.MonthRangeSeries(r.Context(), userIDFrom(r.Context()), s.monthParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"labels":   labels,
		"income":   incomeValues,
		"expenses": expenseValues,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := s.svc.Forecast.PredictNext(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	history := make([]map[string]any, len(forecast.History))
	for i, ma := range forecast.History {
		history[i] = map[string]any{
			"month": ma.Month,
			"total": ma.Amount.String(),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"prediction": forecast.Prediction.String(),
		"advice":     forecast.Advice,
		"history":    history,
	})
}
