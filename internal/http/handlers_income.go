package http

import (
	"net/http"

	"dinero/internal/core"
	"dinero/internal/services"
)

type incomeRequest struct {
	Source      string `json:"source"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type incomeResponse struct {
	ID          int64  `json:"id"`
	Source      string `json:"source"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

func incomeToResponse(in core.Income) incomeResponse {
	return incomeResponse{
		ID:          in.ID,
		Source:      in.Source,
		Amount:      in.Amount.String(),
		Date:        in.Date.String(),
		Description: in.Description,
	}
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
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

	id, err := s.svc.Expenses.CreateIncome(r.Context(), userIDFrom(r.Context()), services.IncomeInput{
		Source:      req.Source,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Expenses.DeleteIncome(r.Context(), id, userIDFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
