package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tvdoutor/contratos/internal/entity"
)

var loginTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func staffUser(t *testing.T, password string) *entity.User {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{
		ID:           "user-1",
		Name:         "Ana Souza",
		Email:        "ana@tvdoutor.com.br",
		PasswordHash: hash,
		Role:         entity.RoleUser,
	}
}

func newTestManager(repo *MockUserRepository, now time.Time) *Manager {
	m := NewManager(repo, NewMemoryBlacklist(), "segredo-de-teste", time.Hour)
	m.Now = func() time.Time { return now }
	return m
}

func TestPasswordHashing(t *testing.T) {
	hash, err := BcryptHasher{Cost: bcrypt.MinCost}.Hash("s3nha!")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3nha!"))
	assert.False(t, CheckPassword(hash, "outra"))
	assert.False(t, CheckPassword("not-a-hash", "s3nha!"))
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues token and touches activity", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := staffUser(t, "s3nha!")
		repo.On("FindByEmail", ctx, "ana@tvdoutor.com.br").Return(user, nil)
		repo.On("TouchActivity", ctx, "user-1", loginTime).Return(nil)

		m := newTestManager(repo, loginTime)
		s, err := m.Login(ctx, "  Ana@TVDoutor.com.br ", "s3nha!")

		require.NoError(t, err)
		assert.NotEmpty(t, s.Token)
		assert.NotEmpty(t, s.TokenID)
		assert.Equal(t, loginTime.Add(time.Hour), s.ExpiresAt)
		assert.Equal(t, "user-1", s.User.ID)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "ana@tvdoutor.com.br").Return(staffUser(t, "s3nha!"), nil)

		_, err := newTestManager(repo, loginTime).Login(ctx, "ana@tvdoutor.com.br", "errada")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertNotCalled(t, "TouchActivity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "x@y.com").Return(nil, entity.ErrUserNotFound)

		_, err := newTestManager(repo, loginTime).Login(ctx, "x@y.com", "qualquer")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure is not a credential error", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "x@y.com").Return(nil, errors.New("db down"))

		_, err := newTestManager(repo, loginTime).Login(ctx, "x@y.com", "qualquer")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("touch failure does not block login", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "ana@tvdoutor.com.br").Return(staffUser(t, "s3nha!"), nil)
		repo.On("TouchActivity", ctx, "user-1", loginTime).Return(errors.New("timeout"))

		s, err := newTestManager(repo, loginTime).Login(ctx, "ana@tvdoutor.com.br", "s3nha!")
		require.NoError(t, err)
		assert.NotEmpty(t, s.Token)
	})
}

func TestManager_RestoreAndLogout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	user := staffUser(t, "s3nha!")
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("TouchActivity", ctx, user.ID, loginTime).Return(nil)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	m := newTestManager(repo, loginTime)
	s, err := m.Login(ctx, user.Email, "s3nha!")
	require.NoError(t, err)

	restored, err := m.Restore(ctx, "Bearer "+s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.TokenID, restored.TokenID)
	assert.Equal(t, user.ID, restored.User.ID)

	require.NoError(t, m.Logout(ctx, restored))

	_, err = m.Restore(ctx, s.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestManager_RestoreRejects(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	user := staffUser(t, "s3nha!")
	repo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	repo.On("TouchActivity", ctx, user.ID, loginTime).Return(nil)

	m := newTestManager(repo, loginTime)
	s, err := m.Login(ctx, user.Email, "s3nha!")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestManager(repo, loginTime.Add(2*time.Hour))
		_, err := later.Restore(ctx, s.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := newTestManager(repo, loginTime)
		other.Secret = []byte("outro-segredo")
		_, err := other.Restore(ctx, s.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Restore(ctx, "Bearer abc.def.ghi")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := m.Restore(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMemoryBlacklist_Expires(t *testing.T) {
	ctx := context.Background()
	now := loginTime
	b := NewMemoryBlacklist()
	b.now = func() time.Time { return now }

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
