package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tvdoutor/contratos/internal/entity"
)

// ReportRepository runs the yearly aggregates over contracts.
type ReportRepository struct {
	DB *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

func (r *ReportRepository) MonthlyRevenue(ctx context.Context, year int) ([]entity.MonthlyRevenueRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', signature_date), 'YYYY-MM-DD') AS month,
			COALESCE(SUM(total_contract_value), 0)
		FROM contracts
		WHERE EXTRACT(YEAR FROM signature_date) = $1
		GROUP BY 1 ORDER BY 1`, year)
	if err != nil {
		return nil, fmt.Errorf("report_monthly_revenue: %w", err)
	}
	defer rows.Close()

	out := []entity.MonthlyRevenueRow{}
	for rows.Next() {
		var row entity.MonthlyRevenueRow
		if err := rows.Scan(&row.Month, &row.Revenue); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportRepository) ContractStatus(ctx context.Context, year int) ([]entity.ContractStatusRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT status_enum, COUNT(*)
		FROM contracts
		WHERE EXTRACT(YEAR FROM signature_date) = $1
		GROUP BY status_enum ORDER BY status_enum`, year)
	if err != nil {
		return nil, fmt.Errorf("report_contract_status: %w", err)
	}
	defer rows.Close()

	out := []entity.ContractStatusRow{}
	for rows.Next() {
		var row entity.ContractStatusRow
		if err := rows.Scan(&row.Status, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ReportRepository) ContractsByState(ctx context.Context, year int) ([]entity.ContractsByStateRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(state, ''), '—'), COUNT(*), COALESCE(SUM(total_contract_value), 0)
		FROM contracts
		WHERE EXTRACT(YEAR FROM signature_date) = $1
		GROUP BY 1 ORDER BY 2 DESC, 1`, year)
	if err != nil {
		return nil, fmt.Errorf("report_contracts_by_state: %w", err)
	}
	defer rows.Close()

	out := []entity.ContractsByStateRow{}
	for rows.Next() {
		var row entity.ContractsByStateRow
		if err := rows.Scan(&row.State, &row.Contracts, &row.Revenue); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
