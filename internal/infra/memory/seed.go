package memory

import (
	"context"
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
)

// Store agrupa os repositórios em memória que compartilham dados.
type Store struct {
	Contracts *ContractRepository
	Users     *UserRepository
	Logs      *ActivityLogRepository
	Reports   *ReportRepository
}

func NewStore(now func() time.Time) *Store {
	contracts := NewContractRepository()
	contracts.Now = now
	users := NewUserRepository(contracts)
	users.Now = now
	return &Store{
		Contracts: contracts,
		Users:     users,
		Logs:      NewActivityLogRepository(),
		Reports:   NewReportRepository(contracts),
	}
}

const (
	DemoAdminID    = "00000000-0000-4000-8000-000000000001"
	DemoAdminEmail = "admin@tvdoutor.com.br"
	demoUserID     = "00000000-0000-4000-8000-000000000002"
)

type seedContract struct {
	id       string
	title    string
	city     string
	state    string
	month    time.Month
	status   entity.ContractStatus
	plan     entity.Plan
	monthly  float64
	unit     float64
	e43, e55 int
	players  int
}

var seedContracts = []seedContract{
	{"00000000-0000-4000-9000-000000000001", "Contrato TV Doutor - Clínica Vida", "São Paulo", "SP", time.January, entity.StatusApproved, entity.PlanExclusivo, 199, 249, 2, 1, 3},
	{"00000000-0000-4000-9000-000000000002", "Contrato TV Doutor - Hospital Boa Saúde", "Campinas", "SP", time.February, entity.StatusApproved, entity.PlanPadrao, 0, 199, 4, 2, 6},
	{"00000000-0000-4000-9000-000000000003", "Contrato TV Doutor - Odonto Sorriso", "Belo Horizonte", "MG", time.February, entity.StatusPending, entity.PlanEspecialidades, 0, 249, 1, 0, 1},
	{"00000000-0000-4000-9000-000000000004", "Contrato TV Doutor - Centro Médico Sul", "Porto Alegre", "RS", time.March, entity.StatusRejected, entity.PlanExclusivo, 199, 299, 3, 3, 6},
	{"00000000-0000-4000-9000-000000000005", "Contrato TV Doutor - Pediatria Feliz", "Rio de Janeiro", "RJ", time.March, entity.StatusPending, entity.PlanPadrao, 0, 149, 1, 1, 2},
}

// Seed loads the demo fixture: one super admin (password hash given), one
// regular user and a handful of contracts signed in the current year.
func (s *Store) Seed(ctx context.Context, adminPasswordHash string) error {
	now := s.Users.Now()

	users := []*entity.User{
		{ID: DemoAdminID, Name: "Administrador", Email: DemoAdminEmail, Role: entity.RoleSuperAdmin, IsSuperAdmin: true},
		{ID: demoUserID, Name: "Comercial Demo", Email: "comercial@tvdoutor.com.br", Role: entity.RoleUser},
	}
	for i, u := range users {
		if err := s.Users.CreateCredentials(ctx, u.ID, u.Email, adminPasswordHash); err != nil {
			return err
		}
		u.CreatedAt = now.Add(-time.Duration(len(users)-i) * 24 * time.Hour)
		u.UpdatedAt = u.CreatedAt
		if err := s.Users.CreateProfile(ctx, u); err != nil {
			return err
		}
	}
	if err := s.Users.TouchActivity(ctx, demoUserID, now.Add(-48*time.Hour)); err != nil {
		return err
	}

	for i, sc := range seedContracts {
		signed := time.Date(now.Year(), sc.month, 10, 0, 0, 0, 0, time.UTC)
		implementation := sc.unit * float64(sc.e43+sc.e55+sc.players)
		c := &entity.Contract{
			ID: sc.id,
			ContractPayload: entity.ContractPayload{
				Title:                   sc.title,
				City:                    sc.city,
				State:                   sc.state,
				SignatureDate:           signed,
				DueDate:                 signed.AddDate(0, 0, 10),
				PlanContracted:          sc.plan,
				ImplementationUnitValue: sc.unit,
				ImplementationValue:     implementation,
				MonthlyPlanValue:        sc.monthly,
				TotalContractValue:      implementation + sc.monthly,
				PaymentMethod:           entity.PaymentBoleto,
				ContractTerm:            entity.Term12,
				Equipment:               entity.EquipmentCounts{Equipment43: sc.e43, Equipment55: sc.e55, Players: sc.players},
				CreatedBy:               demoUserID,
			},
			Status:           sc.status,
			ProcessingStatus: entity.ProcessingCompleted,
			CreatedAt:        now.Add(-time.Duration(len(seedContracts)-i) * time.Hour),
		}
		c.UpdatedAt = c.CreatedAt
		s.Contracts.put(c)
	}
	return nil
}
