package http

import (
	"encoding/csv"
	"log/slog"
	"net/http"

	"dinero/internal/core"
)

// handleExportCSV streams every expense the user owns as CSV, newest
// first, matching the list ordering.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.Expenses.ListAllExpenses(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)

	cw := csv.NewWriter(w)
	records := make([][]string, 0, len(expenses)+1)
	records = append(records, []string{"Date", "Category", "Title", "Description", "Amount"})
	for _, e := range expenses {
		records = append(records, []string{
			e.Date.String(),
			core.DisplayCategory(e.Category),
			e.Title,
			e.Description,
			e.Amount.String(),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		// Headers are already sent; nothing left but to log.
		slog.ErrorContext(r.Context(), "Failed to write CSV export",
			"request_id", requestIDFrom(r.Context()),
			"error", err)
	}
}
