package intake

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatLoanAmount strips non-digits and groups the rest by thousands:
// "2500000" becomes "2,500,000".
func FormatLoanAmount(value string) string {
	digits := DigitsOnly(value)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseLoanAmount reads the digits of value as a number. No digits means NULL;
// zero is a valid amount.
func ParseLoanAmount(value string) decimal.NullDecimal {
	digits := DigitsOnly(value)
	if digits == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// FormatCurrency renders a whole-dollar amount such as "$300,000".
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + FormatLoanAmount(amount.Round(0).String())
}
