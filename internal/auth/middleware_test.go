package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tvdoutor/contratos/internal/entity"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	user := staffUser(t, "s3nha!")
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("TouchActivity", ctx, user.ID, loginTime).Return(nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	m := newTestManager(repo, loginTime)
	s, err := m.Login(ctx, user.Email, "s3nha!")
	require.NoError(t, err)

	var seen *Session
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+s.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user.ID, seen.User.ID)
	})
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name string
		user *entity.User
		want int
	}{
		{"user", &entity.User{ID: "u", Role: entity.RoleUser}, http.StatusForbidden},
		{"admin", &entity.User{ID: "a", Role: entity.RoleAdmin}, http.StatusNoContent},
		{"super admin flag", &entity.User{ID: "s", Role: entity.RoleUser, IsSuperAdmin: true}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			req = req.WithContext(WithSession(req.Context(), &Session{User: tc.user}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
