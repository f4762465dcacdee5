package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/infra/database"
	"github.com/tvdoutor/contratos/internal/usecase"
)

type adminInput struct {
	Email    string
	Name     string
	Password string
}

func newCreateAdminCmd() *cobra.Command {
	var in adminInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Cria o primeiro super admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := createAdmin(cmd.Context(), database.NewUserRepository(db), in, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "super admin criado: %s (%s)\n", strings.ToLower(in.Email), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email do administrador")
	cmd.Flags().StringVar(&in.Name, "name", "Administrador", "nome exibido")
	cmd.Flags().StringVar(&in.Password, "password", "", "senha inicial (mínimo 6 caracteres)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// createAdmin grava credenciais e perfil; se o perfil falhar, as credenciais são removidas.
func createAdmin(ctx context.Context, users entity.UserRepositoryInterface, in adminInput, now time.Time) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("email inválido: %q", in.Email)
	}
	if len(in.Password) < 6 {
		return "", fmt.Errorf("a senha precisa de pelo menos 6 caracteres")
	}

	hash, err := auth.HashPassword(in.Password, 0)
	if err != nil {
		return "", err
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Role:         entity.RoleSuperAdmin,
		IsSuperAdmin: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx := usecase.NewTransaction()
	tx.AddStep("create_credentials",
		func(ctx context.Context) error { return users.CreateCredentials(ctx, user.ID, email, hash) },
		func(ctx context.Context) error { return users.DeleteCredentials(ctx, user.ID) },
	)
	tx.AddStep("create_profile",
		func(ctx context.Context) error { return users.CreateProfile(ctx, user) },
		nil,
	)
	if err := tx.Execute(ctx); err != nil {
		return "", err
	}
	return user.ID, nil
}
