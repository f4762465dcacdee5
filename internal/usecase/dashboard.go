package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

const activeUserWindow = 30 * 24 * time.Hour

type RecentContract struct {
	ID             string                `json:"id"`
	ContractorName string                `json:"contractorName"`
	CityState      string                `json:"cityState"`
	SignatureDate  string                `json:"signatureDate"`
	Status         entity.ContractStatus `json:"status"`
	Value          string                `json:"value"`
}

type DashboardStats struct {
	Year               int               `json:"year"`
	ContractsGenerated int               `json:"contractsGenerated"`
	ActiveUsers        int               `json:"activeUsers"`
	ConversionRate     string            `json:"conversionRate"`
	TotalValue         float64           `json:"totalValue"`
	Formatted          map[string]string `json:"formatted"`
	RecentContracts    []RecentContract  `json:"recentContracts"`
}

type DashboardUseCase struct {
	Reports   entity.ReportRepositoryInterface
	Contracts entity.ContractRepositoryInterface
	Users     entity.UserRepositoryInterface
	Now       func() time.Time
}

func NewDashboardUseCase(reports entity.ReportRepositoryInterface, contracts entity.ContractRepositoryInterface, users entity.UserRepositoryInterface) *DashboardUseCase {
	return &DashboardUseCase{Reports: reports, Contracts: contracts, Users: users, Now: time.Now}
}

func (uc *DashboardUseCase) Execute(ctx context.Context) (*DashboardStats, error) {
	now := uc.Now()
	year := now.Year()

	statusRows, err := uc.Reports.ContractStatus(ctx, year)
	if err != nil {
		return nil, gatewayError("Erro ao carregar dashboard", err)
	}
	monthly, err := uc.Reports.MonthlyRevenue(ctx, year)
	if err != nil {
		return nil, gatewayError("Erro ao carregar dashboard", err)
	}
	active, err := uc.Users.CountActiveSince(ctx, now.Add(-activeUserWindow))
	if err != nil {
		return nil, gatewayError("Erro ao carregar dashboard", err)
	}
	recents, err := uc.Contracts.Search(ctx, entity.SearchContractsParams{Limit: 3})
	if err != nil {
		return nil, gatewayError("Erro ao carregar dashboard", err)
	}

	stats := &DashboardStats{Year: year, ActiveUsers: active}

	byStatus := make(map[entity.ContractStatus]int, len(statusRows))
	for _, r := range statusRows {
		stats.ContractsGenerated += r.Total
		byStatus[r.Status] += r.Total
	}
	stats.ConversionRate = ConversionRate(byStatus[entity.StatusApproved], byStatus[entity.StatusPending], byStatus[entity.StatusRejected])

	for _, r := range monthly {
		stats.TotalValue += pricing.Safe(r.Revenue)
	}

	stats.Formatted = map[string]string{
		"contractsGenerated": humanize.FormatInteger("#.###,", stats.ContractsGenerated),
		"activeUsers":        humanize.FormatInteger("#.###,", stats.ActiveUsers),
		"conversionRate":     stats.ConversionRate,
		"totalValue":         pricing.FormatNumberAsCurrency(stats.TotalValue),
	}

	stats.RecentContracts = make([]RecentContract, 0, len(recents))
	for _, r := range recents {
		stats.RecentContracts = append(stats.RecentContracts, recentContract(r, now))
	}
	return stats, nil
}

// ConversionRate é aprovados / (aprovados + pendentes + rejeitados), com uma casa.
func ConversionRate(approved, pending, rejected int) string {
	denom := approved + pending + rejected
	if denom == 0 {
		return "0%"
	}
	rate := math.Round(float64(approved)/float64(denom)*1000) / 10
	return fmt.Sprintf("%.1f%%", rate)
}

func recentContract(r entity.ContractRow, now time.Time) RecentContract {
	rc := RecentContract{
		ID:             r.ID,
		ContractorName: "—",
		CityState:      "—",
		SignatureDate:  now.Format(time.RFC3339),
		Status:         r.Status,
		Value:          pricing.FormatNullableCurrency(r.TotalContractValue),
	}
	if r.Title != nil && *r.Title != "" {
		rc.ContractorName = *r.Title
	}
	var parts []string
	for _, p := range []*string{r.City, r.State} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) > 0 {
		rc.CityState = strings.Join(parts, ", ")
	}
	if r.SignatureDate != nil {
		rc.SignatureDate = *r.SignatureDate
	}
	return rc
}
