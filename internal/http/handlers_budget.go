package http

import (
	"net/http"

	"dinero/internal/core"
)

type budgetRequest struct {
	Category string `json:"category,omitempty"` // raw; "total"/"all"/"*" set the total budget
	Month    string `json:"month"`              // YYYY-MM
	Amount   string `json:"amount"`
}

type budgetResponse struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Month    string `json:"month"`
	Amount   string `json:"amount"`
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.svc.Budgets.Save(r.Context(), userIDFrom(r.Context()), req.Category, req.Month, amount); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	month := s.monthParam(r)
	rows, err := s.svc.Budgets.List(r.Context(), userIDFrom(r.Context()), month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]budgetResponse, len(rows))
	for i, row := range rows {
		items[i] = budgetResponse{
			ID:       row.ID,
			Category: row.Category,
			Month:    row.Month,
			Amount:   row.Amount.String(),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"month":   month,
		"budgets": items,
	})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Budgets.Delete(r.Context(), id, userIDFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
