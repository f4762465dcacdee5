package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/tvdoutor/contratos/internal/entity"
)

// MaxCount is the largest equipment count accepted per category (the INT
// column range). Three of them added together still fit an int.
const MaxCount = math.MaxInt32

// ParseCount reads the leading integer of s the way the form does:
// garbage, empty, negative or out of range input counts as zero.
func ParseCount(s string) int {
	n, ok := parseCountPrefix(s)
	if !ok || n < 0 || n > MaxCount {
		return 0
	}
	return int(n)
}

// CountInRange is false only when s starts with a number ParseCount had to
// discard for being above MaxCount.
func CountInRange(s string) bool {
	n, ok := parseCountPrefix(s)
	return !ok || n <= MaxCount
}

// parseCountPrefix: ok=false when there are no digits. Overflowing int64 is
// reported as MaxInt64.
func parseCountPrefix(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return n, true
}

func TotalEquipmentQuantity(equipment43, equipment55, players string) int {
	return ParseCount(equipment43) + ParseCount(equipment55) + ParseCount(players)
}

type QuoteInput struct {
	Equipment43         string
	Equipment55         string
	Players             string
	ImplementationValue string // valor digitado por equipamento, mascarado
	MonthlyValue        string
}

// Quote holds every derived figure shown next to the form.
type Quote struct {
	Equipment43            int `json:"equipment43"`
	Equipment55            int `json:"equipment55"`
	Players                int `json:"players"`
	TotalEquipmentQuantity int `json:"totalEquipmentQuantity"`

	ImplementationValuePerUnit float64 `json:"implementationValuePerUnit"`
	// UnitValue divides the typed per-equipment rate by the quantity once more.
	// Kept for display only; nothing below uses it.
	UnitValue float64 `json:"unitValue"`

	Subtotal43      float64 `json:"subtotal43"`
	Subtotal55      float64 `json:"subtotal55"`
	SubtotalPlayers float64 `json:"subtotalPlayers"`

	CalculatedImplementationValue float64 `json:"calculatedImplementationValue"`
	MonthlyValue                  float64 `json:"monthlyValue"`
	ContractTotal                 float64 `json:"contractTotal"`

	// HasImplementationValueMismatch: calculated total differs from the typed rate.
	HasImplementationValueMismatch bool `json:"hasImplementationValueMismatch"`

	FormattedSubtotal43                 string `json:"formattedSubtotal43"`
	FormattedSubtotal55                 string `json:"formattedSubtotal55"`
	FormattedSubtotalPlayers            string `json:"formattedSubtotalPlayers"`
	FormattedImplementationValue        string `json:"formattedImplementationValue"`
	FormattedImplementationValuePerUnit string `json:"formattedImplementationValuePerUnit"`
	FormattedMonthlyValue               string `json:"formattedMonthlyValue"`
	FormattedContractTotal              string `json:"formattedContractTotal"`
}

func NewQuote(in QuoteInput) Quote {
	q := Quote{
		Equipment43: ParseCount(in.Equipment43),
		Equipment55: ParseCount(in.Equipment55),
		Players:     ParseCount(in.Players),
	}
	q.TotalEquipmentQuantity = q.Equipment43 + q.Equipment55 + q.Players

	rate := ParseCurrencyToNumber(in.ImplementationValue)
	q.ImplementationValuePerUnit = rate
	if q.TotalEquipmentQuantity > 0 {
		q.UnitValue = Safe(rate / float64(q.TotalEquipmentQuantity))
	}

	q.Subtotal43 = Safe(float64(q.Equipment43) * rate)
	q.Subtotal55 = Safe(float64(q.Equipment55) * rate)
	q.SubtotalPlayers = Safe(float64(q.Players) * rate)
	q.CalculatedImplementationValue = Safe(q.Subtotal43 + q.Subtotal55 + q.SubtotalPlayers)

	q.MonthlyValue = ParseCurrencyToNumber(in.MonthlyValue)
	q.ContractTotal = Safe(q.CalculatedImplementationValue + q.MonthlyValue)

	q.HasImplementationValueMismatch = q.TotalEquipmentQuantity > 0 && rate > 0 &&
		math.Abs(q.CalculatedImplementationValue-rate) >= 0.01

	q.FormattedSubtotal43 = FormatNumberAsCurrency(q.Subtotal43)
	q.FormattedSubtotal55 = FormatNumberAsCurrency(q.Subtotal55)
	q.FormattedSubtotalPlayers = FormatNumberAsCurrency(q.SubtotalPlayers)
	q.FormattedImplementationValue = FormatNumberAsCurrency(q.CalculatedImplementationValue)
	q.FormattedImplementationValuePerUnit = FormatNumberAsCurrency(rate)
	q.FormattedMonthlyValue = FormatNumberAsCurrency(q.MonthlyValue)
	q.FormattedContractTotal = FormatNumberAsCurrency(q.ContractTotal)
	return q
}

// DefaultMonthlyValue is the monthly fee pre-filled when a plan is picked.
func DefaultMonthlyValue(plan string) string {
	switch entity.Plan(plan) {
	case entity.PlanExclusivo:
		return "R$ 199,00"
	case entity.PlanEspecialidades, entity.PlanPadrao:
		return "R$ 0,00"
	}
	return ""
}
