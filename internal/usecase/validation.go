package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/tvdoutor/contratos/internal/entity"
)

const (
	TabGeneral     = "general"
	TabContractors = "contractors"
	TabEquipment   = "equipment"
)

const (
	msgInvalidCNPJ = "CNPJ inválido"
	msgInvalidCPF  = "CPF inválido"

	// tamanho da máscara completa: 00.000.000/0000-00 e 000.000.000-00
	maskedCNPJLen = 18
	maskedCPFLen  = 14
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	cnpjPattern = regexp.MustCompile(`^(\d{2})(\d{3})(\d{3})(\d{4})(\d{2})$`)
	cpfPattern  = regexp.MustCompile(`^(\d{3})(\d{3})(\d{3})(\d{2})$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var fieldLabels = map[string]string{
	entity.FieldContractorName:      "Nome da Contratante",
	entity.FieldContractorCNPJ:      "CNPJ da Contratante",
	entity.FieldContractorAddress:   "Endereço da Contratante",
	entity.FieldLegalRepresentative: "Representante Legal",
	entity.FieldRepresentativeCPF:   "CPF do Representante",
	entity.FieldCityState:           "Cidade e Estado",
	entity.FieldSignatureDate:       "Data de Assinatura",
	entity.FieldContractedPlan:      "Plano Contratado",
	entity.FieldImplementationValue: "Valor da Implantação",
	entity.FieldMonthlyValue:        "Plano Mensal",
	entity.FieldPaymentMethod:       "Forma de Pagamento",
	entity.FieldDueDate:             "Data de Vencimento",
	entity.FieldContractTerm:        "Prazo de Contrato",
	entity.FieldEquipment43:         `Equipamentos 43"`,
	entity.FieldEquipment55:         `Equipamentos 55"`,
	entity.FieldPlayers:             "Players",
}

// FieldLabel devolve o rótulo exibido no formulário, ou o próprio nome.
func FieldLabel(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func ContractorErrorKey(index int, field string) string {
	return "contractor-" + strconv.Itoa(index) + "-" + field
}

// IsValidCNPJ checks the two check digits with the cyclic 2..9 weights.
func IsValidCNPJ(cnpj string) bool {
	digits := nonDigits.ReplaceAllString(cnpj, "")
	if len(digits) != 14 {
		return false
	}
	d := make([]int, 14)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return d[12] == cnpjCheckDigit(d[:12]) && d[13] == cnpjCheckDigit(d[:13])
}

func cnpjCheckDigit(d []int) int {
	sum, weight := 0, 2
	for i := len(d) - 1; i >= 0; i-- {
		sum += d[i] * weight
		if weight == 9 {
			weight = 2
		} else {
			weight++
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

func IsValidCPF(cpf string) bool {
	digits := nonDigits.ReplaceAllString(cpf, "")
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}
	d := make([]int, 11)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return d[9] == cpfCheckDigit(d[:9]) && d[10] == cpfCheckDigit(d[:10])
}

func cpfCheckDigit(d []int) int {
	sum := 0
	for i, v := range d {
		sum += v * (len(d) + 1 - i)
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

// FormatCNPJ aplica a máscara quando há exatamente 14 dígitos; senão devolve só os dígitos.
func FormatCNPJ(value string) string {
	return cnpjPattern.ReplaceAllString(nonDigits.ReplaceAllString(value, ""), "$1.$2.$3/$4-$5")
}

func FormatCPF(value string) string {
	return cpfPattern.ReplaceAllString(nonDigits.ReplaceAllString(value, ""), "$1.$2.$3-$4")
}

// ValidateDraft runs the blocking validation done before any submission.
// An empty map means the draft can be submitted.
func ValidateDraft(d *entity.Draft) map[string]string {
	errs := make(map[string]string)

	for _, field := range entity.GeneralFields {
		if v, _ := d.Field(field); v == "" {
			errs[field] = fmt.Sprintf("O campo \"%s\" é obrigatório.", FieldLabel(field))
		}
	}

	for i := range d.Contractors {
		c := &d.Contractors[i]
		for _, field := range entity.ContractorFields {
			if v, _ := c.Field(field); v == "" {
				errs[ContractorErrorKey(i, field)] = fmt.Sprintf("O campo \"%s\" do contratante %d é obrigatório.", FieldLabel(field), i+1)
			}
		}
		if c.CNPJ != "" && !IsValidCNPJ(c.CNPJ) {
			errs[ContractorErrorKey(i, entity.FieldContractorCNPJ)] = msgInvalidCNPJ
		}
		if c.RepresentativeCPF != "" && !IsValidCPF(c.RepresentativeCPF) {
			errs[ContractorErrorKey(i, entity.FieldRepresentativeCPF)] = msgInvalidCPF
		}
	}

	return errs
}

// ValidateLiveContractorField is the check done while the user types: it only
// judges a CNPJ/CPF once the masked value is complete.
func ValidateLiveContractorField(field, value string) (string, bool) {
	switch field {
	case entity.FieldContractorCNPJ:
		if len(value) >= maskedCNPJLen && !IsValidCNPJ(value) {
			return msgInvalidCNPJ, false
		}
	case entity.FieldRepresentativeCPF:
		if len(value) >= maskedCPFLen && !IsValidCPF(value) {
			return msgInvalidCPF, false
		}
	}
	return "", true
}

func tabOf(key string) string {
	if strings.HasPrefix(key, "contractor-") {
		return TabContractors
	}
	switch key {
	case entity.FieldEquipment43, entity.FieldEquipment55, entity.FieldPlayers:
		return TabEquipment
	}
	return TabGeneral
}

// FirstErrorTab is the first tab, in form order, holding an error. "" when there is none.
func FirstErrorTab(errs map[string]string) string {
	seen := make(map[string]bool, 3)
	for key := range errs {
		seen[tabOf(key)] = true
	}
	for _, tab := range []string{TabGeneral, TabContractors, TabEquipment} {
		if seen[tab] {
			return tab
		}
	}
	return ""
}

func ValidateCreateUserInput(input CreateUserInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	errors = append(errors, validatePassword(input.Password)...)

	if input.Role != "" && !input.Role.Valid() {
		errors = append(errors, ValidationError{"role", "must be user, admin or super_admin"})
	}

	return errors
}

func validatePassword(password string) []ValidationError {
	if password == "" {
		return []ValidationError{{"password", "is required"}}
	}
	if len(password) < 6 {
		return []ValidationError{{"password", "must have at least 6 characters"}}
	}
	return nil
}

func joinValidationErrors(errs []ValidationError) string {
	msg := "validation failed: "
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return msg + strings.Join(parts, ", ")
}
