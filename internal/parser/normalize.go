package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OrderType classifies the raw action text of a row.
type OrderType string

const (
	OrderTypeBuy      OrderType = "buy"
	OrderTypeSell     OrderType = "sell"
	OrderTypeDividend OrderType = "dividend"
	OrderTypeTax      OrderType = "tax"
	// OrderTypeUnknown is returned when no keyword matches; callers decide
	// whether the row is an error or ignorable.
	OrderTypeUnknown OrderType = ""
)

// ClassifyOrderType lowercases the raw action text and classifies it by
// substring containment in a fixed priority order: buy, sell, dividend, tax.
// "Reverse buy" style strings therefore classify as buy; the priority order
// is part of the format contract, not an accident.
func ClassifyOrderType(raw string) OrderType {
	action := strings.ToLower(raw)
	switch {
	case strings.Contains(action, "buy"):
		return OrderTypeBuy
	case strings.Contains(action, "sell"):
		return OrderTypeSell
	case strings.Contains(action, "dividend"):
		return OrderTypeDividend
	case strings.Contains(action, "tax"):
		return OrderTypeTax
	default:
		return OrderTypeUnknown
	}
}

// ParseAmount parses an amount-like field and discards its sign. The source
// encodes direction via the action text, not via sign, so the absolute value
// is the canonical form (and re-normalizing is a no-op).
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("amount cannot be empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return math.Abs(v), nil
}
