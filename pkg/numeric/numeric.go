package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseLenient converts user-entered amounts into decimals. Turkish keyboards
// produce comma separators, so commas are treated as decimal points. Blank or
// unparseable input yields the fallback instead of an error.
func ParseLenient(raw string, fallback decimal.Decimal) decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if cleaned == "" {
		return fallback
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return fallback
	}
	return value
}

// ParseLenientZero is ParseLenient with a zero fallback.
func ParseLenientZero(raw string) decimal.Decimal {
	return ParseLenient(raw, decimal.Zero)
}
