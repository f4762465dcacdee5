package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
)

type AuthHandler struct {
	Manager *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler {
	return &AuthHandler{Manager: m}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	session, err := h.Manager.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.RecordLogin("invalid")
			writeErrorResponse(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
			return
		}
		middleware.RecordLogin("error")
		hlog.FromRequest(r).Error().Err(err).Msg("login falhou")
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro ao autenticar")
		return
	}

	middleware.RecordLogin("success")
	writeJSON(w, http.StatusOK, session)
}

// Logout (POST /auth/logout)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())
	if err := h.Manager.Logout(r.Context(), session); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("logout falhou")
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro ao encerrar sessão")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me (GET /auth/me)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       session.User,
		"expires_at": session.ExpiresAt,
	})
}
