package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tvdoutor/contratos/internal/entity"
)

// MockContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, payload entity.ContractPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id string) (*entity.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contract), args.Error(1)
}

func (m *MockContractRepository) Search(ctx context.Context, params entity.SearchContractsParams) ([]entity.ContractRow, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ContractRow), args.Error(1)
}

func (m *MockContractRepository) UpdateStatus(ctx context.Context, id string, status entity.ContractStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockContractRepository) UpdateProcessing(ctx context.Context, id string, update entity.ProcessingUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockContractRepository) SetArchiveKey(ctx context.Context, id, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

func (m *MockContractRepository) ExpireStaleProcessing(ctx context.Context, olderThan time.Duration) ([]string, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateCredentials(ctx context.Context, id, email, passwordHash string) error {
	return m.Called(ctx, id, email, passwordHash).Error(0)
}

func (m *MockUserRepository) DeleteCredentials(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, update entity.ProfileUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockUserRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, params entity.SearchUsersParams) ([]entity.UserRow, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserRow), args.Error(1)
}

func (m *MockUserRepository) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

// MockActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Record(ctx context.Context, entry *entity.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

// MockReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) MonthlyRevenue(ctx context.Context, year int) ([]entity.MonthlyRevenueRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MonthlyRevenueRow), args.Error(1)
}

func (m *MockReportRepository) ContractStatus(ctx context.Context, year int) ([]entity.ContractStatusRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ContractStatusRow), args.Error(1)
}

func (m *MockReportRepository) ContractsByState(ctx context.Context, year int) ([]entity.ContractsByStateRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ContractsByStateRow), args.Error(1)
}

// MockHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishContractGenerated(ctx context.Context, event entity.ContractGeneratedEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockArchive
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) PutContractText(ctx context.Context, contractID, text string) (string, error) {
	args := m.Called(ctx, contractID, text)
	return args.String(0), args.Error(1)
}

// MockGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateDocument(ctx context.Context, event entity.ContractGeneratedEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendContractReady(to, name, title, downloadURL string) error {
	return m.Called(to, name, title, downloadURL).Error(0)
}

func (m *MockEmailService) SendContractFailed(to, name, title, reason string) error {
	return m.Called(to, name, title, reason).Error(0)
}

func validDraft() *entity.Draft {
	d := entity.NewDraft()
	d.Contractors[0] = entity.Contractor{
		Name:                "Clínica Saúde Ltda",
		CNPJ:                "11.222.333/0001-81",
		Address:             "Rua das Flores, 100 - Centro",
		LegalRepresentative: "Maria Souza",
		RepresentativeCPF:   "529.982.247-25",
	}
	d.CityState = "São Paulo, SP"
	d.SignatureDate = "2025-03-10"
	d.ContractedPlan = "cuidar-educar-exclusivo"
	d.ImplementationValue = "R$ 100,00"
	d.MonthlyValue = "R$ 199,00"
	d.PaymentMethod = "pix"
	d.DueDate = "2025-04-10"
	d.ContractTerm = "12"
	d.Equipment43 = "2"
	d.Equipment55 = "1"
	d.Players = "3"
	return d
}

func adminUser() *entity.User {
	return &entity.User{ID: "admin-1", Name: "Admin", Email: "admin@tvdoutor.com.br", Role: entity.RoleAdmin}
}
