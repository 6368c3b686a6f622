package enums

import "fmt"

// StockMoveType marks the direction of a ledger entry.
type StockMoveType string

const (
	StockMoveTypeIn  StockMoveType = "IN"
	StockMoveTypeOut StockMoveType = "OUT"
)

// String implements fmt.Stringer.
func (t StockMoveType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known StockMoveType.
func (t StockMoveType) IsValid() bool {
	return t == StockMoveTypeIn || t == StockMoveTypeOut
}

// ParseStockMoveType converts raw input into a StockMoveType.
func ParseStockMoveType(value string) (StockMoveType, error) {
	switch StockMoveType(value) {
	case StockMoveTypeIn:
		return StockMoveTypeIn, nil
	case StockMoveTypeOut:
		return StockMoveTypeOut, nil
	default:
		return "", fmt.Errorf("invalid stock move type %q", value)
	}
}
