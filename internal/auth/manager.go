// Package auth owns the staff session: login, restoring a session from a
// bearer token and logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
)

var (
	ErrInvalidCredentials = errors.New("email ou senha inválidos")
	ErrInvalidToken       = errors.New("token inválido")
	ErrTokenRevoked       = errors.New("sessão encerrada")
)

const DefaultTTL = 12 * time.Hour

type Claims struct {
	UserID       string      `json:"user_id"`
	Role         entity.Role `json:"role"`
	IsSuperAdmin bool        `json:"is_super_admin,omitempty"`
	jwt.RegisteredClaims
}

// Session is the logged in user plus the token that proves it.
type Session struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	TokenID   string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type Manager struct {
	Users     entity.UserRepositoryInterface
	Blacklist Blacklist
	Secret    []byte
	Issuer    string
	TTL       time.Duration
	Now       func() time.Time
}

func NewManager(users entity.UserRepositoryInterface, blacklist Blacklist, secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		Users:     users,
		Blacklist: blacklist,
		Secret:    []byte(secret),
		Issuer:    "tvdoutor-contratos",
		TTL:       ttl,
		Now:       time.Now,
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := m.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	now := m.Now()
	token, jti, exp, err := m.issue(user, now)
	if err != nil {
		return nil, err
	}

	if err := m.Users.TouchActivity(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("falha ao atualizar last_activity")
	}

	return &Session{User: user, Token: token, TokenID: jti, ExpiresAt: exp}, nil
}

func (m *Manager) issue(user *entity.User, now time.Time) (string, string, time.Time, error) {
	jti := uuid.NewString()
	exp := now.Add(m.TTL)
	claims := Claims{
		UserID:       user.ID,
		Role:         user.Role,
		IsSuperAdmin: user.IsSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    m.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, jti, exp, nil
}

// Restore rebuilds the session carried by a bearer token.
func (m *Manager) Restore(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.Now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.Secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := m.Blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := m.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &Session{
		User:      user,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session token for the rest of its lifetime.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if s == nil || s.TokenID == "" {
		return nil
	}
	ttl := s.ExpiresAt.Sub(m.Now())
	if ttl <= 0 {
		return nil
	}
	return m.Blacklist.Revoke(ctx, s.TokenID, ttl)
}
