package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dinero/internal/core"
	"dinero/internal/services"
)

type expenseRequest struct {
	Title       string `json:"title,omitempty"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount"` // major units, dot or comma separator
	Date        string `json:"date"`   // YYYY-MM-DD
	Description string `json:"description,omitempty"`
	SplitWith   string `json:"split_with,omitempty"`
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title,omitempty"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	SplitWith   string `json:"split_with,omitempty"`
}

type alertResponse struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

func expenseToResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Category:    core.DisplayCategory(e.Category),
		Amount:      e.Amount.String(),
		Date:        e.Date.String(),
		Description: e.Description,
		SplitWith:   e.SplitWith,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.svc.Expenses.CreateExpense(r.Context(), userIDFrom(r.Context()), services.ExpenseInput{
		Title:       req.Title,
		Category:    req.Category,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
		SplitWith:   req.SplitWith,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	alerts := make([]alertResponse, len(result.Alerts))
	for i, a := range result.Alerts {
		alerts[i] = alertResponse{
			Severity: string(a.Severity),
			Category: a.Category,
			Message:  a.Message,
		}
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":            result.ID,
		"category":      core.DisplayCategory(result.Category),
		"alerts":        alerts,
		"large_expense": result.LargeExpense,
	})
}

// handleListTransactions returns the month's expenses and incomes,
// newest first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month := s.monthParam(r)
	expenses, incomes, err := s.svc.Expenses.ListMonth(r.Context(), userIDFrom(r.Context()), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	expenseItems := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		expenseItems[i] = expenseToResponse(e)
	}
	incomeItems := make([]incomeResponse, len(incomes))
	for i, in := range incomes {
		incomeItems[i] = incomeToResponse(in)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"month":    month,
		"expenses": expenseItems,
		"incomes":  incomeItems,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Expenses.DeleteExpense(r.Context(), id, userIDFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Expenses.ClearAll(r.Context(), userIDFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}
