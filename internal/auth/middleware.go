package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Authenticate exige um Bearer token válido e não revogado.
func (m *Manager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeAuthError(w, http.StatusUnauthorized, "token ausente")
			return
		}

		s, err := m.Restore(r.Context(), header)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenRevoked) {
				writeAuthError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.Error().Err(err).Msg("auth: restore session")
			writeAuthError(w, http.StatusInternalServerError, "erro ao validar sessão")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "token ausente")
			return
		}
		if !s.User.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "Permissão negada: apenas administradores")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
