package usecase

import (
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

type PreviewContractOutput struct {
	Quote    pricing.Quote `json:"quote"`
	Text     string        `json:"generatedContractText"`
	Progress int           `json:"progress"`
}

// PreviewContract does everything a submission does except storing it.
func PreviewContract(d *entity.Draft) (*PreviewContractOutput, error) {
	if errs := ValidateDraft(d); len(errs) > 0 {
		return nil, &DomainError{
			Code:     CodeValidation,
			Message:  msgFillRequired,
			Fields:   errs,
			FirstTab: FirstErrorTab(errs),
		}
	}

	q := QuoteDraft(d)
	text := GenerateContractText(d, q)
	if _, err := BuildContractPayload(d, q, text); err != nil {
		return nil, err
	}

	return &PreviewContractOutput{
		Quote:    q,
		Text:     text,
		Progress: FormProgress(d),
	}, nil
}
