package valueobject

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatDecimalBR formats d with two decimals and pt-BR separators.
// Example: 1234.5 -> "1.234,50"
func FormatDecimalBR(d decimal.Decimal) string {
	d = d.Round(2)
	return message.NewPrinter(language.BrazilianPortuguese).Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// FormatBRL formats d as Brazilian currency.
// Example: 1234.56 -> "R$ 1.234,56", -10 -> "-R$ 10,00"
func FormatBRL(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-R$ " + FormatDecimalBR(d.Abs())
	}
	return "R$ " + FormatDecimalBR(d)
}
