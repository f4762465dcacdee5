package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/tvdoutor/contratos/internal/entity"
)

// ReportRepository computes the yearly aggregates from the contract fixture.
type ReportRepository struct {
	Contracts *ContractRepository
}

func NewReportRepository(contracts *ContractRepository) *ReportRepository {
	return &ReportRepository{Contracts: contracts}
}

func (r *ReportRepository) MonthlyRevenue(_ context.Context, year int) ([]entity.MonthlyRevenueRow, error) {
	byMonth := map[string]float64{}
	for _, c := range r.Contracts.signedIn(year) {
		month := fmt.Sprintf("%04d-%02d-01", year, int(c.SignatureDate.Month()))
		byMonth[month] += c.TotalContractValue
	}

	out := make([]entity.MonthlyRevenueRow, 0, len(byMonth))
	for m, v := range byMonth {
		out = append(out, entity.MonthlyRevenueRow{Month: m, Revenue: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (r *ReportRepository) ContractStatus(_ context.Context, year int) ([]entity.ContractStatusRow, error) {
	byStatus := map[entity.ContractStatus]int{}
	for _, c := range r.Contracts.signedIn(year) {
		byStatus[c.Status]++
	}

	out := make([]entity.ContractStatusRow, 0, len(byStatus))
	for s, n := range byStatus {
		out = append(out, entity.ContractStatusRow{Status: s, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *ReportRepository) ContractsByState(_ context.Context, year int) ([]entity.ContractsByStateRow, error) {
	byState := map[string]*entity.ContractsByStateRow{}
	for _, c := range r.Contracts.signedIn(year) {
		state := c.State
		if state == "" {
			state = "—"
		}
		row, ok := byState[state]
		if !ok {
			row = &entity.ContractsByStateRow{State: state}
			byState[state] = row
		}
		row.Contracts++
		row.Revenue += c.TotalContractValue
	}

	out := make([]entity.ContractsByStateRow, 0, len(byState))
	for _, row := range byState {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contracts != out[j].Contracts {
			return out[i].Contracts > out[j].Contracts
		}
		return out[i].State < out[j].State
	})
	return out, nil
}
