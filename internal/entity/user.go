package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// User junta credenciais e perfil.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	CompanyID    *string    `json:"company_id"`
	LastActivity *time.Time `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.IsSuperAdmin || u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// UserRow is the admin listing line.
type UserRow struct {
	UserID       string     `json:"user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	LastActivity *time.Time `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	CompanyID    *string    `json:"company_id"`
	Contracts    int        `json:"contratos"`
}

type SearchUsersParams struct {
	Q      string
	Role   Role
	Active *bool // ativo = atividade nos últimos 30 dias
	Limit  int
	Offset int
}

// ProfileUpdate carries only the fields being changed.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty"`
	Role         *Role   `json:"role,omitempty"`
	IsSuperAdmin *bool   `json:"is_super_admin,omitempty"`
	CompanyID    *string `json:"company_id,omitempty"`
}

func (u ProfileUpdate) Fields() []string {
	var fields []string
	if u.Name != nil {
		fields = append(fields, "name")
	}
	if u.Role != nil {
		fields = append(fields, "role")
	}
	if u.IsSuperAdmin != nil {
		fields = append(fields, "is_super_admin")
	}
	if u.CompanyID != nil {
		fields = append(fields, "company_id")
	}
	return fields
}

type ActivityLog struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

// CredentialRepository guarda email + hash da senha.
type CredentialRepository interface {
	CreateCredentials(ctx context.Context, id, email, passwordHash string) error
	DeleteCredentials(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type UserRepositoryInterface interface {
	CredentialRepository
	CreateProfile(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	TouchActivity(ctx context.Context, id string, at time.Time) error
	Search(ctx context.Context, params SearchUsersParams) ([]UserRow, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

type ActivityLogRepositoryInterface interface {
	Record(ctx context.Context, entry *ActivityLog) error
}
