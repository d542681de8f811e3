package http

import (
	"net/http"

	"dinero/internal/core"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}

type userResponse struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email,omitempty"`
	DailyLimit *string `json:"daily_limit,omitempty"`
}

func userToResponse(u *core.User) userResponse {
	resp := userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
	if u.DailyLimit != nil {
		limit := u.DailyLimit.String()
		resp.DailyLimit = &limit
	}
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := s.svc.Auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token := s.sessions.Create(id)
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := s.svc.Auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token := s.sessions.Create(u.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userToResponse(u),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Auth.GetUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, userToResponse(u))
}

type dailyLimitRequest struct {
	// Amount in major units, e.g. "25.00". Null or empty clears the limit.
	Amount string `json:"amount"`
}

func (s *Server) handleSetDailyLimit(w http.ResponseWriter, r *http.Request) {
	var req dailyLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var limit *core.Money
	if req.Amount != "" {
		m, err := core.ParseAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		limit = &m
	}

	if err := s.svc.Auth.SetDailyLimit(r.Context(), userIDFrom(r.Context()), limit); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
