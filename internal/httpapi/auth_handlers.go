package httpapi

import (
	"errors"
	"net/http"
	"time"

	"arts.org/internal/audit"
	"arts.org/internal/auth"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Principal auth.Principal `json:"principal"`
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pair, principal, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "authentication error")
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": principal.ID,
		"role":    string(principal.Role),
	})
	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     pair.Token,
		ExpiresAt: pair.ExpiresAt,
		Principal: principal,
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(r)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
