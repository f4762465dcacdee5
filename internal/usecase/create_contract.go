package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

const msgFillRequired = "Por favor, preencha todos os campos obrigatórios corretamente."

type CreateContractOutput struct {
	Success    bool          `json:"success"`
	ContractID string        `json:"contractId,omitempty"`
	Error      string        `json:"error,omitempty"`
	Quote      pricing.Quote `json:"quote"`
	Text       string        `json:"generatedContractText,omitempty"`
}

type CreateContractUseCase struct {
	Repo      entity.ContractRepositoryInterface
	Archive   ContractArchive        // opcional
	Publisher ContractEventPublisher // opcional
	Now       func() time.Time
}

func NewCreateContractUseCase(
	repo entity.ContractRepositoryInterface,
	archive ContractArchive,
	publisher ContractEventPublisher,
) *CreateContractUseCase {
	return &CreateContractUseCase{
		Repo:      repo,
		Archive:   archive,
		Publisher: publisher,
		Now:       time.Now,
	}
}

// Execute validates, normalises and stores the draft. Nothing is retried: a
// gateway failure comes back as a TechnicalError and the caller keeps the draft.
func (uc *CreateContractUseCase) Execute(ctx context.Context, draft *entity.Draft, requester *entity.User) (*CreateContractOutput, error) {
	if errs := ValidateDraft(draft); len(errs) > 0 {
		return nil, &DomainError{
			Code:     CodeValidation,
			Message:  msgFillRequired,
			Fields:   errs,
			FirstTab: FirstErrorTab(errs),
		}
	}

	quote := QuoteDraft(draft)
	text := GenerateContractText(draft, quote)

	payload, err := BuildContractPayload(draft, quote, text)
	if err != nil {
		return nil, err
	}
	if requester != nil {
		payload.CreatedBy = requester.ID
	}

	id, err := uc.Repo.Create(ctx, payload)
	if err != nil {
		return nil, gatewayError("Erro ao salvar contrato", err)
	}
	log.Info().Str("contract_id", id).Str("plan", string(payload.PlanContracted)).Msg("contrato salvo")

	uc.archive(ctx, id, text)
	uc.publish(ctx, id, payload, requester)

	return &CreateContractOutput{
		Success:    true,
		ContractID: id,
		Quote:      quote,
		Text:       text,
	}, nil
}

func (uc *CreateContractUseCase) archive(ctx context.Context, id, text string) {
	if uc.Archive == nil {
		return
	}
	key, err := uc.Archive.PutContractText(ctx, id, text)
	if err != nil {
		log.Warn().Err(err).Str("contract_id", id).Msg("falha ao arquivar texto do contrato")
		return
	}
	if err := uc.Repo.SetArchiveKey(ctx, id, key); err != nil {
		log.Warn().Err(err).Str("contract_id", id).Msg("falha ao salvar chave do arquivo")
	}
}

func (uc *CreateContractUseCase) publish(ctx context.Context, id string, payload entity.ContractPayload, requester *entity.User) {
	if uc.Publisher == nil {
		uc.markNotQueued(ctx, id, "geração de documento desabilitada")
		return
	}

	event := entity.ContractGeneratedEvent{
		ContractID:          id,
		Title:               payload.Title,
		Plan:                payload.PlanContracted,
		City:                payload.City,
		State:               payload.State,
		ImplementationValue: payload.ImplementationValue,
		MonthlyPlanValue:    payload.MonthlyPlanValue,
		TotalContractValue:  payload.TotalContractValue,
		Text:                payload.GeneratedContractText,
		CreatedAt:           uc.Now(),
	}
	if requester != nil {
		event.RequesterID = requester.ID
		event.RequesterName = requester.Name
		event.RequesterEmail = requester.Email
	}

	if err := uc.Publisher.PublishContractGenerated(ctx, event); err != nil {
		log.Error().Err(err).Str("contract_id", id).Msg("falha ao publicar contract.generated")
		uc.markNotQueued(ctx, id, "falha ao enfileirar geração do documento")
	}
}

func (uc *CreateContractUseCase) markNotQueued(ctx context.Context, id, msg string) {
	err := uc.Repo.UpdateProcessing(ctx, id, entity.ProcessingUpdate{
		Status:  entity.ProcessingError,
		Message: msg,
	})
	if err != nil {
		log.Warn().Err(err).Str("contract_id", id).Msg("falha ao atualizar status de processamento")
	}
}

// BuildContractPayload converts the validated form strings into the
// persistence payload. Fields that don't parse come back as a validation error.
func BuildContractPayload(d *entity.Draft, q pricing.Quote, text string) (entity.ContractPayload, error) {
	errs := make(map[string]string)

	signature, err := parseFormDate(d.SignatureDate)
	if err != nil {
		errs[entity.FieldSignatureDate] = "Data inválida"
	}
	due, err := parseFormDate(d.DueDate)
	if err != nil {
		errs[entity.FieldDueDate] = "Data inválida"
	}

	plan := entity.Plan(strings.TrimSpace(d.ContractedPlan))
	if !plan.Valid() {
		errs[entity.FieldContractedPlan] = "Plano inválido"
	}
	method := entity.PaymentMethod(strings.TrimSpace(d.PaymentMethod))
	if !method.Valid() {
		errs[entity.FieldPaymentMethod] = "Forma de pagamento inválida"
	}
	months, err := strconv.Atoi(strings.TrimSpace(d.ContractTerm))
	term := entity.ContractTerm(months)
	if err != nil || !term.Valid() {
		errs[entity.FieldContractTerm] = "Prazo inválido"
	}

	for field, count := range map[string]string{
		entity.FieldEquipment43: d.Equipment43,
		entity.FieldEquipment55: d.Equipment55,
		entity.FieldPlayers:     d.Players,
	} {
		if !pricing.CountInRange(count) {
			errs[field] = "Quantidade acima do limite"
		}
	}
	if !pricing.AmountInRange(q.ContractTotal) {
		errs[entity.FieldImplementationValue] = "Valor acima do limite"
	}

	if len(errs) > 0 {
		return entity.ContractPayload{}, &DomainError{
			Code:     CodeValidation,
			Message:  msgFillRequired,
			Fields:   errs,
			FirstTab: FirstErrorTab(errs),
		}
	}

	city, state := SplitCityState(d.CityState)

	contractors := make([]entity.ContractorRecord, 0, len(d.Contractors))
	for _, c := range d.Contractors {
		contractors = append(contractors, entity.ContractorRecord{
			Name:                strings.TrimSpace(c.Name),
			CNPJ:                FormatCNPJ(c.CNPJ),
			Address:             strings.TrimSpace(c.Address),
			LegalRepresentative: strings.TrimSpace(c.LegalRepresentative),
			RepresentativeCPF:   FormatCPF(c.RepresentativeCPF),
		})
	}

	return entity.ContractPayload{
		Title:                   "Contrato TV Doutor - " + contractors[0].Name,
		City:                    city,
		State:                   state,
		SignatureDate:           signature,
		PlanContracted:          plan,
		ImplementationUnitValue: q.ImplementationValuePerUnit,
		ImplementationValue:     q.CalculatedImplementationValue,
		MonthlyPlanValue:        q.MonthlyValue,
		TotalContractValue:      q.ContractTotal,
		PaymentMethod:           method,
		DueDate:                 due,
		ContractTerm:            term,
		GeneratedContractText:   text,
		Contractors:             contractors,
		Equipment: entity.EquipmentCounts{
			Equipment43: q.Equipment43,
			Equipment55: q.Equipment55,
			Players:     q.Players,
		},
	}, nil
}

// parseFormDate aceita o valor do input date (AAAA-MM-DD) ou DD/MM/AAAA.
func parseFormDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("02/01/2006", s)
}

// SplitCityState splits "Cidade, UF" on the last separator. Without one the
// whole text is the city.
func SplitCityState(s string) (city, state string) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{",", "/", " - "} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			return strings.TrimSpace(s[:i]), strings.ToUpper(strings.TrimSpace(s[i+len(sep):]))
		}
	}
	return s, ""
}
