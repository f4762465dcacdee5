package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tvdoutor/contratos/internal/entity"
)

type ActivityLogRepository struct {
	DB *sql.DB
}

func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) Record(ctx context.Context, e *entity.ActivityLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("details: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO activity_logs (id, user_id, action, resource_type, resource_id, details, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Action, e.ResourceType, e.ResourceID, details, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao registrar atividade: %w", err)
	}
	return nil
}
