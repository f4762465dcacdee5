package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateCredentials(ctx context.Context, id, email, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, NOW())`,
		id, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		log.Error().Err(err).Msg("erro crítico no banco ao criar credenciais")
		return err
	}
	return nil
}

func (r *UserRepository) DeleteCredentials(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrUserNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return userAffected(res, err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrUserNotFound
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	return userAffected(res, err)
}

func (r *UserRepository) CreateProfile(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, email, role, is_super_admin, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, string(u.Role), u.IsSuperAdmin, u.CompanyID, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("erro ao criar perfil: %w", err)
	}
	return nil
}

const selectUser = `
	SELECT u.id, p.name, u.email, u.password_hash, p.role, p.is_super_admin,
		p.company_id, p.last_activity, p.created_at, p.updated_at
	FROM users u JOIN profiles p ON p.user_id = u.id`

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrUserNotFound
	}
	return r.findOne(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, selectUser+` WHERE u.email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		u         entity.User
		companyID sql.NullString
		lastSeen  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsSuperAdmin,
		&companyID, &lastSeen, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	if companyID.Valid {
		u.CompanyID = &companyID.String
	}
	if lastSeen.Valid {
		u.LastActivity = &lastSeen.Time
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update entity.ProfileUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrUserNotFound
	}

	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Role != nil {
		add("role", string(*update.Role))
	}
	if update.IsSuperAdmin != nil {
		add("is_super_admin", *update.IsSuperAdmin)
	}
	if update.CompanyID != nil {
		add("company_id", nullString(*update.CompanyID))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE profiles SET %s, updated_at = NOW() WHERE user_id = $%d`,
		strings.Join(sets, ", "), len(args))
	res, err := r.DB.ExecContext(ctx, query, args...)
	return userAffected(res, err)
}

func (r *UserRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE profiles SET last_activity = $1 WHERE user_id = $2`, at, id)
	return err
}

func (r *UserRepository) Search(ctx context.Context, params entity.SearchUsersParams) ([]entity.UserRow, error) {
	query, args := buildUserSearch(params, time.Now())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao pesquisar usuários: %w", err)
	}
	defer rows.Close()

	out := []entity.UserRow{}
	for rows.Next() {
		var (
			row       entity.UserRow
			companyID sql.NullString
			lastSeen  sql.NullTime
		)
		if err := rows.Scan(
			&row.UserID, &row.Name, &row.Email, &row.Role, &row.IsSuperAdmin,
			&lastSeen, &row.CreatedAt, &companyID, &row.Contracts,
		); err != nil {
			return nil, err
		}
		if companyID.Valid {
			row.CompanyID = &companyID.String
		}
		if lastSeen.Valid {
			row.LastActivity = &lastSeen.Time
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// activeWindow: um usuário é "ativo" se teve atividade nos últimos 30 dias.
const activeWindow = 30 * 24 * time.Hour

func buildUserSearch(params entity.SearchUsersParams, now time.Time) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.email ILIKE $%d)", n, n))
	}
	if params.Role != "" {
		args = append(args, string(params.Role))
		where = append(where, fmt.Sprintf("p.role = $%d", len(args)))
	}
	if params.Active != nil {
		args = append(args, now.Add(-activeWindow))
		if *params.Active {
			where = append(where, fmt.Sprintf("p.last_activity >= $%d", len(args)))
		} else {
			where = append(where, fmt.Sprintf("(p.last_activity IS NULL OR p.last_activity < $%d)", len(args)))
		}
	}

	var b strings.Builder
	b.WriteString(`SELECT p.user_id, p.name, p.email, p.role, p.is_super_admin, p.last_activity,
		p.created_at, p.company_id,
		(SELECT COUNT(*) FROM contracts c WHERE c.created_by = p.user_id) AS contratos
		FROM profiles p`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, params.Limit, params.Offset)
	fmt.Fprintf(&b, " ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

func (r *UserRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE last_activity >= $1`, since).Scan(&n)
	return n, err
}

func userAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}
