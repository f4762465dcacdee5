package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrContractNotFound = errors.New("contrato não encontrado")
	ErrLastContractor   = errors.New("o contrato precisa de pelo menos um contratante")
	ErrContractorIndex  = errors.New("contratante inexistente")
	ErrUnknownField     = errors.New("campo desconhecido")
)

type Plan string

const (
	PlanEspecialidades Plan = "cuidar-educar-especialidades"
	PlanExclusivo      Plan = "cuidar-educar-exclusivo"
	PlanPadrao         Plan = "cuidar-educar-padrao"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanEspecialidades, PlanExclusivo, PlanPadrao:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCartao PaymentMethod = "cartao"
	PaymentPix    PaymentMethod = "pix"
	PaymentBoleto PaymentMethod = "boleto"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCartao, PaymentPix, PaymentBoleto:
		return true
	}
	return false
}

// ContractTerm em meses, sempre com renovação automática.
type ContractTerm int

const (
	Term12 ContractTerm = 12
	Term24 ContractTerm = 24
	Term36 ContractTerm = 36
)

func (t ContractTerm) Valid() bool {
	return t == Term12 || t == Term24 || t == Term36
}

type ContractStatus string

const (
	StatusDraft    ContractStatus = "draft"
	StatusPending  ContractStatus = "pending"
	StatusApproved ContractStatus = "approved"
	StatusRejected ContractStatus = "rejected"
	StatusCanceled ContractStatus = "canceled"
	StatusExpired  ContractStatus = "expired"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCanceled, StatusExpired:
		return true
	}
	return false
}

type ProcessingStatus string

const (
	ProcessingRunning   ProcessingStatus = "processing"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingError     ProcessingStatus = "error"
)

// Equipment counts of the persisted contract.
type EquipmentCounts struct {
	Equipment43 int `json:"equipment43"`
	Equipment55 int `json:"equipment55"`
	Players     int `json:"players"`
}

func (e EquipmentCounts) Total() int {
	return e.Equipment43 + e.Equipment55 + e.Players
}

// ContractorRecord is a contractor after normalisation, as sent to the backend.
type ContractorRecord struct {
	Name                string `json:"name"`
	CNPJ                string `json:"cnpj"`
	Address             string `json:"address"`
	LegalRepresentative string `json:"legal_representative"`
	RepresentativeCPF   string `json:"representative_cpf"`
}

// ContractPayload é o que vai para o gateway de persistência.
type ContractPayload struct {
	Title                   string             `json:"title"`
	City                    string             `json:"city"`
	State                   string             `json:"state"`
	SignatureDate           time.Time          `json:"signature_date"`
	PlanContracted          Plan               `json:"plan_contracted"`
	ImplementationUnitValue float64            `json:"implementation_unit_value"`
	ImplementationValue     float64            `json:"implementation_value"`
	MonthlyPlanValue        float64            `json:"monthly_plan_value"`
	TotalContractValue      float64            `json:"total_contract_value"`
	PaymentMethod           PaymentMethod      `json:"payment_method"`
	DueDate                 time.Time          `json:"due_date"`
	ContractTerm            ContractTerm       `json:"contract_term"`
	GeneratedContractText   string             `json:"generated_contract_text"`
	Contractors             []ContractorRecord `json:"contractors"`
	Equipment               EquipmentCounts    `json:"equipment"`
	CreatedBy               string             `json:"created_by,omitempty"`
}

// Contract is the persisted contract, owned by the backend.
type Contract struct {
	ID string `json:"id"`
	ContractPayload
	Status            ContractStatus   `json:"status_enum"`
	ProcessingStatus  ProcessingStatus `json:"processing_status"`
	ProcessingMessage string           `json:"processing_message,omitempty"`
	DownloadURL       string           `json:"download_url,omitempty"`
	ArchiveKey        string           `json:"archive_key,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ContractRow is the summary line returned by contract search.
type ContractRow struct {
	ID                 string         `json:"id"`
	Title              *string        `json:"title"`
	City               *string        `json:"city"`
	State              *string        `json:"state"`
	SignatureDate      *string        `json:"signature_date"`
	Status             ContractStatus `json:"status_enum"`
	PlanContracted     *string        `json:"plan_contracted"`
	MonthlyPlanValue   *float64       `json:"monthly_plan_value"`
	TotalContractValue *float64       `json:"total_contract_value"`
}

type SearchContractsParams struct {
	Q      string
	Status ContractStatus
	Limit  int
	Offset int
}

type ProcessingUpdate struct {
	Status      ProcessingStatus
	Message     string
	DownloadURL string
}

type ContractRepositoryInterface interface {
	Create(ctx context.Context, payload ContractPayload) (string, error)
	FindByID(ctx context.Context, id string) (*Contract, error)
	Search(ctx context.Context, params SearchContractsParams) ([]ContractRow, error)
	UpdateStatus(ctx context.Context, id string, status ContractStatus) error
	UpdateProcessing(ctx context.Context, id string, update ProcessingUpdate) error
	SetArchiveKey(ctx context.Context, id, key string) error
	ExpireStaleProcessing(ctx context.Context, olderThan time.Duration) ([]string, error)
}
