// Package transform turns raw export rows into normalized activities: it
// classifies rows into economic events, reconciles split dividend/tax rows,
// and assembles the final activity records.
package transform

import "github.com/rumor-ml/commons.systems/brokerfeed/internal/lookup"

// EventType is the intermediate economic classification of a row.
type EventType int

const (
	EventBuy EventType = iota
	EventSell
	EventDividend
	EventDividendTax
	EventPaymentInLieu
)

// String returns a readable name for error messages
func (t EventType) String() string {
	switch t {
	case EventBuy:
		return "buy"
	case EventSell:
		return "sell"
	case EventDividend:
		return "dividend"
	case EventDividendTax:
		return "dividend-tax"
	case EventPaymentInLieu:
		return "payment-in-lieu"
	default:
		return "unknown"
	}
}

// EconomicEvent is one classified row, before assembly. Created per row and
// never persisted across rows.
type EconomicEvent struct {
	Type      EventType
	Quantity  float64
	UnitPrice float64
	Fee       float64
	Comment   string
	Currency  string
	Date      string // raw 8-digit YYYYMMDD
	Security  lookup.Security
}
