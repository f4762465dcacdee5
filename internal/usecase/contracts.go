package usecase

import (
	"context"
	"errors"

	"github.com/tvdoutor/contratos/internal/entity"
)

const (
	defaultContractPageSize = 20
	maxContractPageSize     = 50
)

type ProcessingStatusOutput struct {
	ContractID   string                  `json:"contractId"`
	Status       entity.ProcessingStatus `json:"status"`
	Message      string                  `json:"message"`
	Progress     int                     `json:"progress"`
	DownloadURL  string                  `json:"downloadUrl,omitempty"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
}

type ContractQueries struct {
	Repo entity.ContractRepositoryInterface
}

func NewContractQueries(repo entity.ContractRepositoryInterface) *ContractQueries {
	return &ContractQueries{Repo: repo}
}

func (q *ContractQueries) Search(ctx context.Context, params entity.SearchContractsParams) ([]entity.ContractRow, error) {
	if params.Status != "" && !params.Status.Valid() {
		return nil, &DomainError{Code: CodeValidation, Message: "status inválido: " + string(params.Status)}
	}
	params.Limit, params.Offset = clampPage(params.Limit, params.Offset, defaultContractPageSize, maxContractPageSize)

	rows, err := q.Repo.Search(ctx, params)
	if err != nil {
		return nil, gatewayError("Erro ao buscar contratos", err)
	}
	return rows, nil
}

func (q *ContractQueries) Get(ctx context.Context, id string) (*entity.Contract, error) {
	c, err := q.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, contractError("Erro ao buscar contrato", err)
	}
	return c, nil
}

func (q *ContractQueries) UpdateStatus(ctx context.Context, actor *entity.User, id string, status entity.ContractStatus) error {
	if err := requireAdmin(actor, "alterar o status de contratos"); err != nil {
		return err
	}
	if !status.Valid() {
		return &DomainError{Code: CodeValidation, Message: "status inválido: " + string(status)}
	}
	if err := q.Repo.UpdateStatus(ctx, id, status); err != nil {
		return contractError("Erro ao atualizar contrato", err)
	}
	return nil
}

// ProcessingStatus reports where the document generation of a contract is.
func (q *ContractQueries) ProcessingStatus(ctx context.Context, id string) (*ProcessingStatusOutput, error) {
	c, err := q.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, contractError("Erro ao consultar processamento", err)
	}

	out := &ProcessingStatusOutput{ContractID: c.ID, Status: c.ProcessingStatus}
	switch c.ProcessingStatus {
	case entity.ProcessingCompleted:
		out.Message = orDefault(c.ProcessingMessage, "Contrato gerado com sucesso!")
		out.Progress = 100
		out.DownloadURL = c.DownloadURL
	case entity.ProcessingError:
		out.Message = "Erro no processamento"
		out.ErrorMessage = orDefault(c.ProcessingMessage, "Erro desconhecido")
	default:
		out.Status = entity.ProcessingRunning
		out.Message = "Iniciando processamento do contrato..."
		out.Progress = 10
		if c.ProcessingMessage != "" {
			out.Message = c.ProcessingMessage
			out.Progress = 60
		}
	}
	return out, nil
}

func contractError(msg string, err error) error {
	if errors.Is(err, entity.ErrContractNotFound) {
		return &DomainError{Code: CodeNotFound, Message: entity.ErrContractNotFound.Error()}
	}
	return gatewayError(msg, err)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
