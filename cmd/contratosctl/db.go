package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tvdoutor/contratos/internal/config"
	"github.com/tvdoutor/contratos/internal/infra/database"
)

func openDatabase(ctx context.Context) (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL não definido")
	}
	return database.NewDBConnection(ctx, cfg.DatabaseURL)
}
