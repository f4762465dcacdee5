package usecase

import (
	"context"
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
)

type ReportsUseCase struct {
	Repo entity.ReportRepositoryInterface
	Now  func() time.Time
}

func NewReportsUseCase(repo entity.ReportRepositoryInterface) *ReportsUseCase {
	return &ReportsUseCase{Repo: repo, Now: time.Now}
}

// Year normaliza o ano pedido; zero ou negativo vira o ano corrente.
func (uc *ReportsUseCase) Year(year int) int {
	if year <= 0 {
		return uc.Now().Year()
	}
	return year
}

func (uc *ReportsUseCase) MonthlyRevenue(ctx context.Context, year int) ([]entity.MonthlyRevenueRow, error) {
	rows, err := uc.Repo.MonthlyRevenue(ctx, uc.Year(year))
	if err != nil {
		return nil, gatewayError("Erro ao carregar receita mensal", err)
	}
	return rows, nil
}

func (uc *ReportsUseCase) ContractStatus(ctx context.Context, year int) ([]entity.ContractStatusRow, error) {
	rows, err := uc.Repo.ContractStatus(ctx, uc.Year(year))
	if err != nil {
		return nil, gatewayError("Erro ao carregar status dos contratos", err)
	}
	return rows, nil
}

func (uc *ReportsUseCase) ContractsByState(ctx context.Context, year int) ([]entity.ContractsByStateRow, error) {
	rows, err := uc.Repo.ContractsByState(ctx, uc.Year(year))
	if err != nil {
		return nil, gatewayError("Erro ao carregar contratos por estado", err)
	}
	return rows, nil
}
