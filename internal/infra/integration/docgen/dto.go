package docgen

import (
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
)

const Source = "Sistema de Contrato - TV Doutor"

type GenerateRequest struct {
	ContractData ContractData `json:"contractData"`
	Timestamp    time.Time    `json:"timestamp"`
	Source       string       `json:"source"`
}

type ContractData struct {
	entity.ContractGeneratedEvent
	FormattedImplementationValue string `json:"formattedImplementationValue"`
	FormattedMonthlyValue        string `json:"formattedMonthlyValue"`
	FormattedContractTotal       string `json:"formattedContractTotal"`
}

// WebhookResponse é o que o fluxo de geração devolve.
type WebhookResponse struct {
	Status      string `json:"status"` // "success" | "error"
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	ContractID  string `json:"contractId,omitempty"`
	Error       string `json:"error,omitempty"`
}
