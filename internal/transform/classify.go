package transform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/lookup"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
)

// quantityPlaces is the rounding applied to derived dividend quantities.
const quantityPlaces = 3

// Classify turns a normalized row and its resolved security into an economic
// event. Trade rows map directly onto buy/sell events; dividend-family rows
// are classified from their free-text description.
func Classify(row parser.Row, sec *lookup.Security) (*EconomicEvent, error) {
	if sec == nil {
		return nil, fmt.Errorf("resolved security cannot be nil")
	}

	switch r := row.(type) {
	case *parser.TradeRow:
		return classifyTrade(r, sec)
	case *parser.DividendRow:
		return classifyDividend(r, sec)
	default:
		return nil, fmt.Errorf("unsupported row variant %T", row)
	}
}

func classifyTrade(r *parser.TradeRow, sec *lookup.Security) (*EconomicEvent, error) {
	var eventType EventType
	switch r.OrderType() {
	case parser.OrderTypeBuy:
		eventType = EventBuy
	case parser.OrderTypeSell:
		eventType = EventSell
	default:
		return nil, fmt.Errorf("trade row for %s has unsupported action %q", r.Identifier(), r.OrderType())
	}

	return &EconomicEvent{
		Type:      eventType,
		Quantity:  r.Quantity(),
		UnitPrice: r.Price(),
		Fee:       r.Commission(),
		Currency:  r.Currency(),
		Date:      r.Date(),
		Security:  *sec,
	}, nil
}

func classifyDividend(r *parser.DividendRow, sec *lookup.Security) (*EconomicEvent, error) {
	description := r.Description()

	// Payments in lieu carry no per-share price; the cash amount is recorded
	// as the quantity and the description is preserved verbatim.
	if strings.Contains(strings.ToLower(description), "in lieu of") {
		return &EconomicEvent{
			Type:     EventPaymentInLieu,
			Quantity: r.Amount(),
			Comment:  description,
			Currency: r.Currency(),
			Date:     r.Date(),
			Security: *sec,
		}, nil
	}

	price, err := PerSharePrice(description)
	if err != nil {
		return nil, fmt.Errorf("dividend row for %s on %s: %w", r.Identifier(), r.Date(), err)
	}
	if price == 0 {
		return nil, fmt.Errorf("dividend row for %s on %s has zero per-share price", r.Identifier(), r.Date())
	}

	switch r.OrderType() {
	case parser.OrderTypeTax:
		// The per-share price is kept so the tax stub can still be matched
		// against its dividend counterpart.
		return &EconomicEvent{
			Type:      EventDividendTax,
			UnitPrice: price,
			Fee:       r.Amount(),
			Comment:   description,
			Currency:  r.Currency(),
			Date:      r.Date(),
			Security:  *sec,
		}, nil
	case parser.OrderTypeDividend:
		quantity := decimal.NewFromFloat(r.Amount()).
			Div(decimal.NewFromFloat(price)).
			Round(quantityPlaces).
			InexactFloat64()
		return &EconomicEvent{
			Type:      EventDividend,
			Quantity:  quantity,
			UnitPrice: price,
			Comment:   description,
			Currency:  r.Currency(),
			Date:      r.Date(),
			Security:  *sec,
		}, nil
	default:
		return nil, fmt.Errorf("dividend row for %s has unsupported action %q", r.Identifier(), r.OrderType())
	}
}
