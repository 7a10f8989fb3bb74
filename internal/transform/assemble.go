package transform

import (
	"fmt"
	"time"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// Assembler builds final activity records: it canonicalizes the currency,
// reformats the date, and injects the externally configured account id.
type Assembler struct {
	accountID string
	location  *time.Location
}

// NewAssembler creates an assembler stamping the given account id onto every
// activity. Dates are rendered in the local timezone offset.
func NewAssembler(accountID string) (*Assembler, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account id cannot be empty")
	}
	return &Assembler{accountID: accountID, location: time.Local}, nil
}

// CanonicalCurrency rewrites GBX to GBp, the London pence convention the
// target import format expects. All other currencies pass through unchanged.
func CanonicalCurrency(currency string) string {
	if currency == "GBX" {
		return "GBp"
	}
	return currency
}

// Activity assembles the output record for an economic event.
func (a *Assembler) Activity(ev *EconomicEvent) (domain.Activity, error) {
	date, err := a.formatDate(ev.Date)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("failed to assemble %s activity for %s: %w", ev.Type, ev.Security.Symbol, err)
	}

	return domain.Activity{
		AccountID:  a.accountID,
		Comment:    ev.Comment,
		Fee:        ev.Fee,
		Quantity:   ev.Quantity,
		Type:       activityType(ev.Type),
		UnitPrice:  ev.UnitPrice,
		Currency:   CanonicalCurrency(ev.Currency),
		DataSource: ev.Security.Source,
		Date:       date,
		Symbol:     ev.Security.Symbol,
	}, nil
}

// formatDate converts an 8-digit YYYYMMDD input date to ISO-8601 with a
// timezone offset.
func (a *Assembler) formatDate(raw string) (string, error) {
	t, err := time.ParseInLocation("20060102", raw, a.location)
	if err != nil {
		return "", fmt.Errorf("invalid trade date %q (want YYYYMMDD): %w", raw, err)
	}
	return t.Format("2006-01-02T15:04:05-07:00"), nil
}

// activityType maps event types to the output schema. A payment in lieu is
// reported as an ordinary dividend with its description preserved in the
// comment; an unmatched tax stub keeps the dedicated dividend-tax type until
// a dividend half completes it.
func activityType(t EventType) domain.ActivityType {
	switch t {
	case EventBuy:
		return domain.ActivityTypeBuy
	case EventSell:
		return domain.ActivityTypeSell
	case EventDividendTax:
		return domain.ActivityTypeDividendTax
	default:
		return domain.ActivityTypeDividend
	}
}
