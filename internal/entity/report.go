package entity

import "context"

type MonthlyRevenueRow struct {
	Month   string  `json:"month"` // YYYY-MM-01
	Revenue float64 `json:"revenue"`
}

type ContractStatusRow struct {
	Status ContractStatus `json:"status_enum"`
	Total  int            `json:"total"`
}

type ContractsByStateRow struct {
	State     string  `json:"estado"`
	Contracts int     `json:"contratos"`
	Revenue   float64 `json:"receita"`
}

type ReportRepositoryInterface interface {
	MonthlyRevenue(ctx context.Context, year int) ([]MonthlyRevenueRow, error)
	ContractStatus(ctx context.Context, year int) ([]ContractStatusRow, error)
	ContractsByState(ctx context.Context, year int) ([]ContractsByStateRow, error)
}
