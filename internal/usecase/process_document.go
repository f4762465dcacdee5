package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
)

// ProcessDocumentUseCase is the consumer side of contract.generated.
type ProcessDocumentUseCase struct {
	Repo      entity.ContractRepositoryInterface
	Generator DocumentGenerator
	Mailer    EmailService // opcional
}

func NewProcessDocumentUseCase(repo entity.ContractRepositoryInterface, generator DocumentGenerator, mailer EmailService) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{Repo: repo, Generator: generator, Mailer: mailer}
}

func (uc *ProcessDocumentUseCase) Execute(ctx context.Context, event entity.ContractGeneratedEvent) error {
	contract, err := uc.Repo.FindByID(ctx, event.ContractID)
	if err != nil {
		return fmt.Errorf("buscar contrato %s: %w", event.ContractID, err)
	}
	// mensagem repetida: o documento já existe
	if contract.ProcessingStatus == entity.ProcessingCompleted {
		log.Info().Str("contract_id", event.ContractID).Msg("documento já gerado, ignorando mensagem")
		return nil
	}

	if err := uc.Repo.UpdateProcessing(ctx, event.ContractID, entity.ProcessingUpdate{
		Status:  entity.ProcessingRunning,
		Message: "Gerando documento do contrato...",
	}); err != nil {
		return fmt.Errorf("atualizar processamento: %w", err)
	}

	url, genErr := uc.Generator.GenerateDocument(ctx, event)
	if genErr != nil {
		if err := uc.Repo.UpdateProcessing(ctx, event.ContractID, entity.ProcessingUpdate{
			Status:  entity.ProcessingError,
			Message: genErr.Error(),
		}); err != nil {
			log.Error().Err(err).Str("contract_id", event.ContractID).Msg("falha ao registrar erro de processamento")
		}
		uc.notifyFailure(event, genErr.Error())
		return fmt.Errorf("gerar documento: %w", genErr)
	}

	if err := uc.Repo.UpdateProcessing(ctx, event.ContractID, entity.ProcessingUpdate{
		Status:      entity.ProcessingCompleted,
		Message:     "Contrato gerado com sucesso!",
		DownloadURL: url,
	}); err != nil {
		return fmt.Errorf("atualizar processamento: %w", err)
	}

	uc.notifyReady(event, url)
	return nil
}

func (uc *ProcessDocumentUseCase) notifyReady(event entity.ContractGeneratedEvent, url string) {
	if uc.Mailer == nil || event.RequesterEmail == "" {
		return
	}
	if err := uc.Mailer.SendContractReady(event.RequesterEmail, event.RequesterName, event.Title, url); err != nil {
		log.Warn().Err(err).Str("contract_id", event.ContractID).Msg("falha ao enviar email de contrato pronto")
	}
}

func (uc *ProcessDocumentUseCase) notifyFailure(event entity.ContractGeneratedEvent, reason string) {
	if uc.Mailer == nil || event.RequesterEmail == "" {
		return
	}
	if err := uc.Mailer.SendContractFailed(event.RequesterEmail, event.RequesterName, event.Title, reason); err != nil {
		log.Warn().Err(err).Str("contract_id", event.ContractID).Msg("falha ao enviar email de erro")
	}
}

// InlinePublisher processes the event in the caller's goroutine. Used when
// no broker is configured.
type InlinePublisher struct {
	Processor *ProcessDocumentUseCase
}

func (p *InlinePublisher) PublishContractGenerated(ctx context.Context, event entity.ContractGeneratedEvent) error {
	if err := p.Processor.Execute(context.WithoutCancel(ctx), event); err != nil {
		// o estado de erro já foi gravado pelo processador
		log.Warn().Err(err).Str("contract_id", event.ContractID).Msg("geração inline falhou")
	}
	return nil
}
