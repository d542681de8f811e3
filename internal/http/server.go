// Package http is the JSON API over the finance services: auth, expense
// and income entry, budgets, the dashboard aggregates, and CSV export.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"dinero/internal/core"
	"dinero/internal/services"
)

// Services bundles everything the handlers call into.
type Services struct {
	Auth     *services.AuthService
	Expenses *services.ExpenseService
	Budgets  *services.BudgetService
	Summary  *services.SummaryService
	Trends   *services.TrendBuilder
	Forecast *services.ForecastEstimator
}

type Server struct {
	router    *chi.Mux
	svc       Services
	sessions  *SessionStore
	limiter   *rateLimiter
	trendDays int
	now       func() time.Time
	ready     func(context.Context) error
}

func NewServer(svc Services, sessions *SessionStore, trendDays int) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		svc:       svc,
		sessions:  sessions,
		limiter:   newRateLimiter(30),
		trendDays: trendDays,
		now:       time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware)
	s.router.Use(loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)

	s.router.Group(func(r chi.Router) {
		r.Use(s.limiter.middleware)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
	})

	s.router.Route("/api", func(api chi.Router) {
		api.Use(s.requireAuth)

		api.Post("/auth/logout", s.handleLogout)
		api.Get("/me", s.handleMe)
		api.Put("/me/daily-limit", s.handleSetDailyLimit)

		api.Post("/expenses", s.handleCreateExpense)
		api.Get("/expenses", s.handleListTransactions)
		api.Delete("/expenses/{id}", s.handleDeleteExpense)
		api.Get("/expenses/export", s.handleExportCSV)

		api.Post("/incomes", s.handleCreateIncome)
		api.Delete("/incomes/{id}", s.handleDeleteIncome)

		api.Delete("/transactions", s.handleClearAll)

		api.Post("/budgets", s.handleSaveBudget)
		api.Get("/budgets", s.handleListBudgets)
		api.Delete("/budgets/{id}", s.handleDeleteBudget)

		api.Get("/dashboard", s.handleDashboard)
		api.Get("/charts/daily", s.handleDailyChart)
		api.Get("/charts/categories", s.handleCategoryChart)
		api.Get("/charts/month", s.handleMonthChart)
		api.Get("/forecast", s.handleForecast)
	})
}

// Handler returns the root handler for the HTTP server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops the background goroutines the server owns.
func (s *Server) Close() {
	s.limiter.stop()
	s.sessions.Stop()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetReadyCheck installs the dependency probe behind /readyz, typically
// a store ping. Without one /readyz reports ready as soon as the server
// is routing.
func (s *Server) SetReadyCheck(fn func(context.Context) error) {
	s.ready = fn
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			respondError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// monthParam reads the month query parameter, defaulting to the current
// month when absent. Malformed tokens are not silently defaulted; they
// surface as 400 from the service call.
func (s *Server) monthParam(r *http.Request) string {
	if month := r.URL.Query().Get("month"); month != "" {
		return month
	}
	return core.CurrentMonth(s.now())
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to status codes. Unknown errors become an
// opaque 500; their detail goes to the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	var conflict *core.ConflictError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.As(err, &conflict):
		respondError(w, http.StatusConflict, conflict.Error())
	case errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &core.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}
