package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/infra/memory"
)

func TestQuoteCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"quote", "--e43", "2", "--e55", "1", "--players", "3", "--unit", "R$ 100,00", "--monthly", "R$ 199,00"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "R$ 600,00")
	assert.Contains(t, out.String(), "R$ 799,00")
}

func TestQuoteCmd_Defaults(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"quote"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "R$ 0,00")
}

func TestCreateAdminCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"create-admin", "--email", "a@b.com"})

	assert.Error(t, cmd.Execute())
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(func() time.Time { return now })

	id, err := createAdmin(ctx, store.Users, adminInput{Email: " Dono@TVDoutor.com.br ", Name: "Dono", Password: "segredo1"}, now)
	require.NoError(t, err)

	u, err := store.Users.FindByEmail(ctx, "dono@tvdoutor.com.br")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.True(t, u.IsSuperAdmin)
	assert.Equal(t, entity.RoleSuperAdmin, u.Role)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "segredo1"))

	_, err = createAdmin(ctx, store.Users, adminInput{Email: "dono@tvdoutor.com.br", Password: "segredo1"}, now)
	assert.True(t, errors.Is(err, entity.ErrEmailAlreadyExists))
}

func TestCreateAdmin_Validation(t *testing.T) {
	store := memory.NewStore(time.Now)

	_, err := createAdmin(context.Background(), store.Users, adminInput{Email: "sem-arroba", Password: "segredo1"}, time.Now())
	assert.Error(t, err)

	_, err = createAdmin(context.Background(), store.Users, adminInput{Email: "a@b.com", Password: "123"}, time.Now())
	assert.Error(t, err)
}
