package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/pricing"
)

const dateLayout = "2006-01-02"

// GenerateContractText renders the plain text stored with the contract and
// shown on the preview screen. Same draft, same bytes.
func GenerateContractText(d *entity.Draft, q pricing.Quote) string {
	var b strings.Builder

	b.WriteString("CONTRATO DE PRESTAÇÃO DE SERVIÇOS\n")
	fmt.Fprintf(&b, "PROGRAMA \"%s\"\n", strings.ToUpper(d.ContractedPlan))

	for i, c := range d.Contractors {
		b.WriteString("\n")
		fmt.Fprintf(&b, "CONTRATANTE %d: %s\n", i+1, c.Name)
		fmt.Fprintf(&b, "CNPJ: %s\n", FormatCNPJ(c.CNPJ))
		fmt.Fprintf(&b, "ENDEREÇO: %s\n", c.Address)
		fmt.Fprintf(&b, "REPRESENTANTE LEGAL: %s\n", c.LegalRepresentative)
		fmt.Fprintf(&b, "CPF: %s\n", FormatCPF(c.RepresentativeCPF))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "CIDADE/ESTADO: %s\n", d.CityState)
	fmt.Fprintf(&b, "DATA: %s\n", displayDate(d.SignatureDate))
	b.WriteString("\n")
	fmt.Fprintf(&b, "PLANO CONTRATADO: %s\n", d.ContractedPlan)

	b.WriteString("\nVALORES:\n")
	fmt.Fprintf(&b, "- Implantação por equipamento: %s\n", q.FormattedImplementationValuePerUnit)
	fmt.Fprintf(&b, "- Implantação total: %s\n", q.FormattedImplementationValue)
	fmt.Fprintf(&b, "- Plano Mensal: %s\n", q.FormattedMonthlyValue)
	fmt.Fprintf(&b, "- Total do Contrato: %s\n", q.FormattedContractTotal)

	b.WriteString("\n")
	fmt.Fprintf(&b, "FORMA DE PAGAMENTO: %s\n", d.PaymentMethod)
	fmt.Fprintf(&b, "DATA DE VENCIMENTO: %s\n", displayDate(d.DueDate))
	fmt.Fprintf(&b, "PRAZO DE CONTRATO: %s meses (renovação automática)\n", d.ContractTerm)

	b.WriteString("\nEQUIPAMENTOS (COMODATO):\n")
	fmt.Fprintf(&b, "- Monitores 43\": %d unidades (%s)\n", q.Equipment43, q.FormattedSubtotal43)
	fmt.Fprintf(&b, "- Monitores 55\": %d unidades (%s)\n", q.Equipment55, q.FormattedSubtotal55)
	fmt.Fprintf(&b, "- Players: %d unidades (%s)\n", q.Players, q.FormattedSubtotalPlayers)

	return b.String()
}

// displayDate mostra DD/MM/AAAA; qualquer outra coisa sai como veio.
func displayDate(s string) string {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// QuoteDraft is the pricing view of a draft.
func QuoteDraft(d *entity.Draft) pricing.Quote {
	return pricing.NewQuote(pricing.QuoteInput{
		Equipment43:         d.Equipment43,
		Equipment55:         d.Equipment55,
		Players:             d.Players,
		ImplementationValue: d.ImplementationValue,
		MonthlyValue:        d.MonthlyValue,
	})
}
