package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

type CreateUserInput struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      entity.Role `json:"role"`
	CompanyID *string     `json:"company_id"`
}

type CreateUserOutput struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
}

type ManageUsersUseCase struct {
	Users  entity.UserRepositoryInterface
	Logs   entity.ActivityLogRepositoryInterface
	Hasher PasswordHasher
	Now    func() time.Time
}

func NewManageUsersUseCase(users entity.UserRepositoryInterface, logs entity.ActivityLogRepositoryInterface, hasher PasswordHasher) *ManageUsersUseCase {
	return &ManageUsersUseCase{Users: users, Logs: logs, Hasher: hasher, Now: time.Now}
}

func requireAdmin(actor *entity.User, action string) error {
	if actor == nil || !actor.IsAdmin() {
		return permissionDenied("Permissão negada: apenas administradores podem " + action)
	}
	return nil
}

// Create registers credentials and profile. If the profile insert fails the
// credentials are removed again.
func (uc *ManageUsersUseCase) Create(ctx context.Context, actor *entity.User, input CreateUserInput) (*CreateUserOutput, error) {
	if err := requireAdmin(actor, "criar usuários"); err != nil {
		return nil, err
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if verrs := ValidateCreateUserInput(input); len(verrs) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: joinValidationErrors(verrs)}
	}
	if input.Role == "" {
		input.Role = entity.RoleUser
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "erro ao processar senha", Err: err}
	}

	now := uc.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CompanyID:    input.CompanyID,
		LastActivity: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx := NewTransaction()
	tx.AddStep("create_credentials",
		func(ctx context.Context) error {
			return uc.Users.CreateCredentials(ctx, user.ID, user.Email, user.PasswordHash)
		},
		func(ctx context.Context) error {
			return uc.Users.DeleteCredentials(ctx, user.ID)
		},
	)
	tx.AddStep("create_profile",
		func(ctx context.Context) error {
			return uc.Users.CreateProfile(ctx, user)
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: CodeConflict, Message: entity.ErrEmailAlreadyExists.Error()}
		}
		return nil, gatewayError("Erro ao criar usuário", err)
	}

	uc.record(ctx, actor, "create_user", user.ID, map[string]any{
		"created_user_email": user.Email,
		"created_user_name":  user.Name,
		"created_user_role":  user.Role,
	})

	return &CreateUserOutput{Success: true, UserID: user.ID}, nil
}

func (uc *ManageUsersUseCase) Update(ctx context.Context, actor *entity.User, userID string, update entity.ProfileUpdate) error {
	if err := requireAdmin(actor, "atualizar usuários"); err != nil {
		return err
	}
	if update.Role != nil && !update.Role.Valid() {
		return &DomainError{Code: CodeValidation, Message: "validation failed: role (must be user, admin or super_admin)"}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return &DomainError{Code: CodeValidation, Message: "validation failed: name (is required)"}
	}
	// só super admin promove outro super admin
	if update.IsSuperAdmin != nil && !actor.IsSuperAdmin {
		return permissionDenied("Permissão negada: apenas super administradores podem alterar esse campo")
	}

	if err := uc.Users.UpdateProfile(ctx, userID, update); err != nil {
		return uc.userError("Erro ao atualizar usuário", err)
	}

	uc.record(ctx, actor, "update_user", userID, map[string]any{
		"updated_fields": update.Fields(),
		"changes":        update,
	})
	return nil
}

func (uc *ManageUsersUseCase) Delete(ctx context.Context, actor *entity.User, userID string) error {
	if err := requireAdmin(actor, "excluir usuários"); err != nil {
		return err
	}
	if actor.ID == userID {
		return &DomainError{Code: CodeValidation, Message: "Você não pode excluir sua própria conta"}
	}

	target, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return uc.userError("Erro ao excluir usuário", err)
	}

	// o perfil sai junto por cascade
	if err := uc.Users.DeleteCredentials(ctx, userID); err != nil {
		return uc.userError("Erro ao excluir usuário", err)
	}

	uc.record(ctx, actor, "delete_user", userID, map[string]any{
		"deleted_user_name":  target.Name,
		"deleted_user_email": target.Email,
	})
	return nil
}

func (uc *ManageUsersUseCase) ResetPassword(ctx context.Context, actor *entity.User, userID, newPassword string) error {
	if err := requireAdmin(actor, "resetar senhas"); err != nil {
		return err
	}
	if verrs := validatePassword(newPassword); len(verrs) > 0 {
		return &DomainError{Code: CodeValidation, Message: joinValidationErrors(verrs)}
	}

	hash, err := uc.Hasher.Hash(newPassword)
	if err != nil {
		return &TechnicalError{Code: "HASH_ERROR", Message: "erro ao processar senha", Err: err}
	}
	if err := uc.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return uc.userError("Erro ao resetar senha", err)
	}

	uc.record(ctx, actor, "reset_password", userID, map[string]any{
		"action_description": "Password reset by admin",
	})
	return nil
}

func (uc *ManageUsersUseCase) Search(ctx context.Context, actor *entity.User, params entity.SearchUsersParams) ([]entity.UserRow, error) {
	if err := requireAdmin(actor, "listar usuários"); err != nil {
		return nil, err
	}
	params.Limit, params.Offset = clampPage(params.Limit, params.Offset, defaultUserPageSize, maxUserPageSize)

	rows, err := uc.Users.Search(ctx, params)
	if err != nil {
		return nil, gatewayError("Erro ao buscar usuários", err)
	}
	return rows, nil
}

func (uc *ManageUsersUseCase) userError(msg string, err error) error {
	if errors.Is(err, entity.ErrUserNotFound) {
		return &DomainError{Code: CodeNotFound, Message: entity.ErrUserNotFound.Error()}
	}
	return gatewayError(msg, err)
}

// record grava o log de atividade. Falha aqui não desfaz a operação.
func (uc *ManageUsersUseCase) record(ctx context.Context, actor *entity.User, action, resourceID string, details map[string]any) {
	if uc.Logs == nil {
		return
	}
	entry := &entity.ActivityLog{
		ID:           uuid.New().String(),
		UserID:       actor.ID,
		Action:       action,
		ResourceType: "user",
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    uc.Now(),
	}
	if err := uc.Logs.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("falha ao registrar atividade")
	}
}

func clampPage(limit, offset, def, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
