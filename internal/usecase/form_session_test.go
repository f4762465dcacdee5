package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvdoutor/contratos/internal/entity"
)

type creatorFunc func(ctx context.Context, draft *entity.Draft, requester *entity.User) (*CreateContractOutput, error)

func (f creatorFunc) Execute(ctx context.Context, draft *entity.Draft, requester *entity.User) (*CreateContractOutput, error) {
	return f(ctx, draft, requester)
}

func TestFormSessionMasksMoneyFields(t *testing.T) {
	s := NewFormSession("d1", "u1")

	require.NoError(t, s.HandleInputChange(entity.FieldImplementationValue, "24900"))
	require.NoError(t, s.HandleInputChange(entity.FieldMonthlyValue, "abc"))

	snap := s.Snapshot()
	assert.Equal(t, "R$ 249,00", snap.Draft.ImplementationValue)
	assert.Equal(t, "", snap.Draft.MonthlyValue)
}

func TestFormSessionPlanSetsMonthlyValue(t *testing.T) {
	s := NewFormSession("d1", "u1")

	require.NoError(t, s.HandleInputChange(entity.FieldContractedPlan, "cuidar-educar-exclusivo"))
	assert.Equal(t, "R$ 199,00", s.Snapshot().Draft.MonthlyValue)

	require.NoError(t, s.HandleInputChange(entity.FieldContractedPlan, "cuidar-educar-padrao"))
	assert.Equal(t, "R$ 0,00", s.Snapshot().Draft.MonthlyValue)
}

func TestFormSessionUnknownField(t *testing.T) {
	s := NewFormSession("d1", "u1")
	assert.ErrorIs(t, s.HandleInputChange("numberOfContractors", "3"), entity.ErrUnknownField)
	assert.ErrorIs(t, s.HandleContractorChange(0, "cityState", "x"), entity.ErrUnknownField)
	assert.ErrorIs(t, s.HandleContractorChange(4, entity.FieldContractorName, "x"), entity.ErrContractorIndex)
}

func TestFormSessionChangeClearsFieldError(t *testing.T) {
	s := NewFormSession("d1", "u1")
	assert.False(t, s.Validate())
	require.Contains(t, s.Snapshot().Errors, "cityState")

	require.NoError(t, s.HandleInputChange(entity.FieldCityState, "Recife, PE"))

	errs := s.Snapshot().Errors
	assert.NotContains(t, errs, "cityState")
	assert.Contains(t, errs, "signatureDate")
}

func TestFormSessionLiveTaxIDValidation(t *testing.T) {
	s := NewFormSession("d1", "u1")

	require.NoError(t, s.HandleContractorChange(0, entity.FieldContractorCNPJ, "11.222.333/0001-82"))
	assert.Equal(t, "CNPJ inválido", s.Snapshot().Errors["contractor-0-contractorTaxId"])

	require.NoError(t, s.HandleContractorChange(0, entity.FieldContractorCNPJ, "11.222.333/0001-81"))
	assert.NotContains(t, s.Snapshot().Errors, "contractor-0-contractorTaxId")

	require.NoError(t, s.HandleContractorChange(0, entity.FieldRepresentativeCPF, "111.111.111-11"))
	assert.Equal(t, "CPF inválido", s.Snapshot().Errors["contractor-0-representativeTaxId"])
}

func TestFormSessionRemoveLastContractorIsNoop(t *testing.T) {
	s := NewFormSession("d1", "u1")

	err := s.RemoveContractor(0)

	assert.ErrorIs(t, err, entity.ErrLastContractor)
	assert.Len(t, s.Snapshot().Draft.Contractors, 1)
}

func TestFormSessionAddAndRemoveContractor(t *testing.T) {
	s := NewFormSession("d1", "u1")
	s.AddContractor()
	require.NoError(t, s.HandleContractorChange(1, entity.FieldContractorName, "Segunda"))

	require.NoError(t, s.RemoveContractor(0))

	snap := s.Snapshot()
	require.Len(t, snap.Draft.Contractors, 1)
	assert.Equal(t, "Segunda", snap.Draft.Contractors[0].Name)
}

func TestFormSessionSubmitSuccessDiscardsDraft(t *testing.T) {
	s := NewFormSession("d1", "u1")
	fillSession(t, s)

	var got *entity.Draft
	out, err := s.Submit(context.Background(), creatorFunc(func(_ context.Context, d *entity.Draft, _ *entity.User) (*CreateContractOutput, error) {
		got = d
		return &CreateContractOutput{Success: true, ContractID: "c-1"}, nil
	}), adminUser())

	require.NoError(t, err)
	assert.Equal(t, "c-1", out.ContractID)
	assert.Equal(t, "Recife, PE", got.CityState)

	snap := s.Snapshot()
	assert.Equal(t, "", snap.Draft.CityState)
	assert.Equal(t, "12", snap.Draft.ContractTerm)
	assert.Empty(t, snap.Errors)
	assert.False(t, snap.Submitting)
}

func TestFormSessionSubmitFailureKeepsDraft(t *testing.T) {
	s := NewFormSession("d1", "u1")
	fillSession(t, s)

	_, err := s.Submit(context.Background(), creatorFunc(func(context.Context, *entity.Draft, *entity.User) (*CreateContractOutput, error) {
		return nil, gatewayError("Erro ao salvar contrato", errors.New("connection refused"))
	}), nil)

	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "Recife, PE", s.Snapshot().Draft.CityState)
}

func TestFormSessionSubmitValidationKeepsErrors(t *testing.T) {
	s := NewFormSession("d1", "u1")

	_, err := s.Submit(context.Background(), NewCreateContractUseCase(new(MockContractRepository), nil, nil), nil)

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, TabGeneral, de.FirstTab)
	assert.Len(t, s.Snapshot().Errors, 15)
}

func TestFormSessionRejectsConcurrentSubmit(t *testing.T) {
	s := NewFormSession("d1", "u1")
	fillSession(t, s)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := s.Submit(context.Background(), creatorFunc(func(context.Context, *entity.Draft, *entity.User) (*CreateContractOutput, error) {
			close(started)
			<-release
			return &CreateContractOutput{Success: true, ContractID: "c-1"}, nil
		}), nil)
		done <- err
	}()

	<-started
	assert.True(t, s.Snapshot().Submitting)

	_, err := s.Submit(context.Background(), creatorFunc(func(context.Context, *entity.Draft, *entity.User) (*CreateContractOutput, error) {
		t.Fatal("second submit must not reach the creator")
		return nil, nil
	}), nil)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	assert.NoError(t, <-done)
	assert.False(t, s.Snapshot().Submitting)
}

func fillSession(t *testing.T, s *FormSession) {
	t.Helper()
	d := validDraft()
	for _, f := range entity.GeneralFields {
		v, _ := d.Field(f)
		require.NoError(t, s.HandleInputChange(f, v))
	}
	require.NoError(t, s.HandleInputChange(entity.FieldCityState, "Recife, PE"))
	for _, f := range entity.ContractorFields {
		v, _ := d.Contractors[0].Field(f)
		require.NoError(t, s.HandleContractorChange(0, f, v))
	}
}

func TestFormSessionProgressAndQuote(t *testing.T) {
	s := NewFormSession("d1", "u1")
	assert.Equal(t, 6, s.Progress(), "só o prazo vem preenchido")

	require.NoError(t, s.HandleInputChange(entity.FieldEquipment43, "2"))
	require.NoError(t, s.HandleInputChange(entity.FieldPlayers, "1"))
	require.NoError(t, s.HandleInputChange(entity.FieldImplementationValue, "5000"))

	q := s.Quote()
	assert.Equal(t, 3, q.TotalEquipmentQuantity)
	assert.Equal(t, 150.0, q.CalculatedImplementationValue)
	assert.Equal(t, 25, s.Progress())
}
