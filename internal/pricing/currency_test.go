package pricing

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCurrency(t *testing.T) {
	cases := map[string]string{
		"":             "",
		"abc":          "",
		"R$ ":          "",
		"1":            "R$ 0,01",
		"12":           "R$ 0,12",
		"24900":        "R$ 249,00",
		"R$ 249,00":    "R$ 249,00",
		"R$ 249,005":   "R$ 2.490,05",
		"123456":       "R$ 1.234,56",
		"100000000":    "R$ 1.000.000,00",
		"000012":       "R$ 0,12",
		"1.234.567,89": "R$ 1.234.567,89",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskCurrency(in), "input %q", in)
	}
}

func TestParseCurrencyToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ParseCurrencyToNumber(""))
	assert.Equal(t, 0.0, ParseCurrencyToNumber("R$ ,"))
	assert.Equal(t, 249.0, ParseCurrencyToNumber("R$ 249,00"))
	assert.Equal(t, 1234.56, ParseCurrencyToNumber("R$ 1.234,56"))
	// só os primeiros MaxCurrencyDigits dígitos contam
	assert.Equal(t, float64(999999999999999)/100, ParseCurrencyToNumber("99999999999999999999999"))
}

func TestMaskCurrencyIgnoresDigitsPastLimit(t *testing.T) {
	assert.Equal(t, int64(900719925474099), ParseCents("900719925474099301"))
	assert.Equal(t, "R$ 9.007.199.254.740,99", MaskCurrency("900719925474099301"))
	assert.Equal(t, "R$ 9.999.999.999.999,99", MaskCurrency("999999999999999"))
	assert.Equal(t, MaskCurrency("999999999999999"), MaskCurrency("9999999999999999"))
}

func TestFormatNumberAsCurrencyOutOfRange(t *testing.T) {
	assert.True(t, AmountInRange(float64(MaxCents)/100))
	assert.False(t, AmountInRange(float64(MaxCents)/100*4))
	assert.False(t, AmountInRange(math.NaN()))
	assert.Equal(t, "R$ 0,00", FormatNumberAsCurrency(1.8446744073709552e+21))
}

func TestCurrencyRoundTrip(t *testing.T) {
	cents := []int64{0, 1, 9, 10, 99, 100, 101, 24900, 123456, 19900, 99999999, 100000000000, 999999999999}
	for _, c := range cents {
		digits := strconv.FormatInt(c, 10)
		got := ParseCurrencyToNumber(MaskCurrency(digits))
		assert.Equal(t, float64(c)/100, got, "cents %d", c)
	}
}

func TestFormatNumberAsCurrency(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatNumberAsCurrency(0))
	assert.Equal(t, "R$ 799,00", FormatNumberAsCurrency(799))
	assert.Equal(t, "R$ 4.183,00", FormatNumberAsCurrency(4183))
	assert.Equal(t, "R$ 1.234,56", FormatNumberAsCurrency(1234.56))
	assert.Equal(t, "R$ 0,10", FormatNumberAsCurrency(0.1))
	assert.Equal(t, "-R$ 5,50", FormatNumberAsCurrency(-5.5))
}

func TestFormatNumberAsCurrencyNonFinite(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatNumberAsCurrency(math.NaN()))
	assert.Equal(t, "R$ 0,00", FormatNumberAsCurrency(math.Inf(1)))
	assert.Equal(t, "R$ 0,00", FormatNumberAsCurrency(math.Inf(-1)))
	assert.Equal(t, "R$ 0,00", FormatNullableCurrency(nil))

	v := 12.5
	assert.Equal(t, "R$ 12,50", FormatNullableCurrency(&v))
}

func TestSafe(t *testing.T) {
	assert.Equal(t, 0.0, Safe(math.NaN()))
	assert.Equal(t, 0.0, Safe(math.Inf(1)))
	assert.Equal(t, 3.5, Safe(3.5))
}
