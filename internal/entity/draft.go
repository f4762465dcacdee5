package entity

import "errors"

var ErrDraftNotFound = errors.New("rascunho não encontrado")

// Nomes dos campos como o formulário os envia; são também as chaves JSON
// do rascunho e das mensagens de validação.
const (
	FieldCityState           = "cityState"
	FieldSignatureDate       = "signatureDate"
	FieldContractedPlan      = "contractedPlan"
	FieldImplementationValue = "implementationValuePerUnit"
	FieldMonthlyValue        = "monthlyValue"
	FieldPaymentMethod       = "paymentMethod"
	FieldDueDate             = "dueDate"
	FieldContractTerm        = "contractTerm"
	FieldEquipment43         = "equipment43"
	FieldEquipment55         = "equipment55"
	FieldPlayers             = "players"

	FieldContractorName      = "contractorName"
	FieldContractorCNPJ      = "contractorTaxId"
	FieldContractorAddress   = "contractorAddress"
	FieldLegalRepresentative = "legalRepresentativeName"
	FieldRepresentativeCPF   = "representativeTaxId"
)

// GeneralFields in form order.
var GeneralFields = []string{
	FieldCityState, FieldSignatureDate, FieldContractedPlan, FieldImplementationValue,
	FieldMonthlyValue, FieldPaymentMethod, FieldDueDate, FieldContractTerm,
	FieldEquipment43, FieldEquipment55, FieldPlayers,
}

// ContractorFields in form order.
var ContractorFields = []string{
	FieldContractorName, FieldContractorCNPJ, FieldContractorAddress,
	FieldLegalRepresentative, FieldRepresentativeCPF,
}

type Contractor struct {
	Name                string `json:"contractorName"`
	CNPJ                string `json:"contractorTaxId"`
	Address             string `json:"contractorAddress"`
	LegalRepresentative string `json:"legalRepresentativeName"`
	RepresentativeCPF   string `json:"representativeTaxId"`
}

func (c *Contractor) Field(name string) (string, error) {
	switch name {
	case FieldContractorName:
		return c.Name, nil
	case FieldContractorCNPJ:
		return c.CNPJ, nil
	case FieldContractorAddress:
		return c.Address, nil
	case FieldLegalRepresentative:
		return c.LegalRepresentative, nil
	case FieldRepresentativeCPF:
		return c.RepresentativeCPF, nil
	}
	return "", ErrUnknownField
}

func (c *Contractor) SetField(name, value string) error {
	switch name {
	case FieldContractorName:
		c.Name = value
	case FieldContractorCNPJ:
		c.CNPJ = value
	case FieldContractorAddress:
		c.Address = value
	case FieldLegalRepresentative:
		c.LegalRepresentative = value
	case FieldRepresentativeCPF:
		c.RepresentativeCPF = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Draft é o contrato em edição, ainda não persistido. Todos os campos
// ficam como texto do formulário; a conversão acontece no envio.
type Draft struct {
	Contractors         []Contractor `json:"contractors"`
	CityState           string       `json:"cityState"`
	SignatureDate       string       `json:"signatureDate"`
	ContractedPlan      string       `json:"contractedPlan"`
	ImplementationValue string       `json:"implementationValuePerUnit"`
	MonthlyValue        string       `json:"monthlyValue"`
	PaymentMethod       string       `json:"paymentMethod"`
	DueDate             string       `json:"dueDate"`
	ContractTerm        string       `json:"contractTerm"`
	Equipment43         string       `json:"equipment43"`
	Equipment55         string       `json:"equipment55"`
	Players             string       `json:"players"`
}

// NewDraft returns the state of a freshly mounted form.
func NewDraft() *Draft {
	return &Draft{
		Contractors:  []Contractor{{}},
		ContractTerm: "12",
	}
}

func (d *Draft) AddContractor() {
	d.Contractors = append(d.Contractors, Contractor{})
}

// RemoveContractor never leaves the draft without contractors.
func (d *Draft) RemoveContractor(index int) error {
	if index < 0 || index >= len(d.Contractors) {
		return ErrContractorIndex
	}
	if len(d.Contractors) <= 1 {
		return ErrLastContractor
	}
	d.Contractors = append(d.Contractors[:index:index], d.Contractors[index+1:]...)
	return nil
}

func (d *Draft) Contractor(index int) (*Contractor, error) {
	if index < 0 || index >= len(d.Contractors) {
		return nil, ErrContractorIndex
	}
	return &d.Contractors[index], nil
}

func (d *Draft) field(name string) *string {
	switch name {
	case FieldCityState:
		return &d.CityState
	case FieldSignatureDate:
		return &d.SignatureDate
	case FieldContractedPlan:
		return &d.ContractedPlan
	case FieldImplementationValue:
		return &d.ImplementationValue
	case FieldMonthlyValue:
		return &d.MonthlyValue
	case FieldPaymentMethod:
		return &d.PaymentMethod
	case FieldDueDate:
		return &d.DueDate
	case FieldContractTerm:
		return &d.ContractTerm
	case FieldEquipment43:
		return &d.Equipment43
	case FieldEquipment55:
		return &d.Equipment55
	case FieldPlayers:
		return &d.Players
	}
	return nil
}

func (d *Draft) Field(name string) (string, error) {
	p := d.field(name)
	if p == nil {
		return "", ErrUnknownField
	}
	return *p, nil
}

func (d *Draft) SetField(name, value string) error {
	p := d.field(name)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

// Clone copies the draft so callers can't mutate shared contractors.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Contractors = append([]Contractor(nil), d.Contractors...)
	return &c
}
