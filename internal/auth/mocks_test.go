package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tvdoutor/contratos/internal/entity"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateCredentials(ctx context.Context, id, email, passwordHash string) error {
	return m.Called(ctx, id, email, passwordHash).Error(0)
}

func (m *MockUserRepository) DeleteCredentials(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, update entity.ProfileUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockUserRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, params entity.SearchUsersParams) ([]entity.UserRow, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserRow), args.Error(1)
}

func (m *MockUserRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}
