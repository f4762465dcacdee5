package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

var ErrSubmissionInFlight = errors.New("já existe um envio em andamento para este rascunho")

// FormSession holds one draft being filled plus its validation messages.
// On a successful submit the draft is discarded and a fresh one takes its place.
type FormSession struct {
	ID      string
	OwnerID string

	mu        sync.Mutex
	draft     *entity.Draft
	errors    map[string]string
	updatedAt time.Time

	submitting atomic.Bool
}

type FormSnapshot struct {
	ID         string            `json:"id"`
	Draft      *entity.Draft     `json:"draft"`
	Errors     map[string]string `json:"validationErrors"`
	Progress   int               `json:"progress"`
	Quote      pricing.Quote     `json:"quote"`
	Submitting bool              `json:"isSubmitting"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func NewFormSession(id, ownerID string) *FormSession {
	return &FormSession{
		ID:        id,
		OwnerID:   ownerID,
		draft:     entity.NewDraft(),
		errors:    map[string]string{},
		updatedAt: time.Now(),
	}
}

// HandleInputChange sets a general field. The money fields are re-masked and
// picking a plan pre-fills its monthly value.
func (s *FormSession) HandleInputChange(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.draft.SetField(field, value); err != nil {
		return err
	}
	delete(s.errors, field)

	switch field {
	case entity.FieldContractedPlan:
		s.draft.MonthlyValue = pricing.DefaultMonthlyValue(value)
	case entity.FieldImplementationValue, entity.FieldMonthlyValue:
		_ = s.draft.SetField(field, pricing.MaskCurrency(value))
	}

	s.touch()
	return nil
}

func (s *FormSession) HandleContractorChange(index int, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.draft.Contractor(index)
	if err != nil {
		return err
	}
	if err := c.SetField(field, value); err != nil {
		return err
	}

	key := ContractorErrorKey(index, field)
	delete(s.errors, key)
	if msg, ok := ValidateLiveContractorField(field, value); !ok {
		s.errors[key] = msg
	}

	s.touch()
	return nil
}

func (s *FormSession) AddContractor() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.AddContractor()
	s.touch()
}

func (s *FormSession) RemoveContractor(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.draft.RemoveContractor(index); err != nil {
		return err
	}
	// os índices mudaram, as mensagens dos contratantes não valem mais
	for key := range s.errors {
		if tabOf(key) == TabContractors {
			delete(s.errors, key)
		}
	}
	s.touch()
	return nil
}

// Validate runs the blocking validation and keeps its messages.
func (s *FormSession) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = ValidateDraft(s.draft)
	return len(s.errors) == 0
}

func (s *FormSession) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FormProgress(s.draft)
}

func (s *FormSession) Quote() pricing.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return QuoteDraft(s.draft)
}

func (s *FormSession) Snapshot() FormSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}
	return FormSnapshot{
		ID:         s.ID,
		Draft:      s.draft.Clone(),
		Errors:     errs,
		Progress:   FormProgress(s.draft),
		Quote:      QuoteDraft(s.draft),
		Submitting: s.submitting.Load(),
		UpdatedAt:  s.updatedAt,
	}
}

func (s *FormSession) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Submit hands the draft to creator. A second call while the first one is
// still running fails with ErrSubmissionInFlight.
func (s *FormSession) Submit(ctx context.Context, creator ContractCreator, requester *entity.User) (*CreateContractOutput, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	draft := s.draft.Clone()
	s.mu.Unlock()

	out, err := creator.Execute(ctx, draft, requester)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		var de *DomainError
		if errors.As(err, &de) && de.Fields != nil {
			s.errors = de.Fields
		}
		return nil, err
	}

	s.draft = entity.NewDraft()
	s.errors = map[string]string{}
	s.touch()
	return out, nil
}

func (s *FormSession) touch() {
	s.updatedAt = time.Now()
}
