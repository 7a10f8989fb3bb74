package parser

import "fmt"

// Row is the tagged union of the two export row variants. The variant is
// decided exactly once, by the parser that shaped the row; downstream code
// type-switches on the concrete type and never re-infers the layout from
// field presence.
type Row interface {
	// OrderType returns the classified action of the row
	OrderType() OrderType

	// Date returns the raw 8-digit YYYYMMDD trade date
	Date() string

	// Identifier returns the security identifier (e.g., an ISIN).
	// May be empty for non-security cash rows, which are dropped downstream.
	Identifier() string

	// row seals the interface to the two variants defined in this package
	row()
}

// TradeRow is one fill from the 9-column trade export layout.
// All amount fields are normalized to non-negative values; direction is
// carried by the order type, not by sign.
type TradeRow struct {
	orderType          OrderType
	date               string
	identifier         string
	quantity           float64
	price              float64
	totalAmount        float64
	currency           string
	commission         float64
	commissionCurrency string
}

func (r *TradeRow) OrderType() OrderType { return r.orderType }
func (r *TradeRow) Date() string         { return r.date }
func (r *TradeRow) Identifier() string   { return r.identifier }

// Quantity returns the filled quantity
func (r *TradeRow) Quantity() float64 { return r.quantity }

// Price returns the per-unit fill price
func (r *TradeRow) Price() float64 { return r.price }

// TotalAmount returns the gross cash amount of the fill
func (r *TradeRow) TotalAmount() float64 { return r.totalAmount }

// Currency returns the trade currency
func (r *TradeRow) Currency() string { return r.currency }

// Commission returns the commission charged for the fill
func (r *TradeRow) Commission() float64 { return r.commission }

// CommissionCurrency returns the currency the commission was charged in
func (r *TradeRow) CommissionCurrency() string { return r.commissionCurrency }

func (r *TradeRow) row() {}

// NewTradeRow creates a validated trade row
func NewTradeRow(orderType OrderType, date, identifier string, quantity, price, totalAmount float64, currency string, commission float64, commissionCurrency string) (*TradeRow, error) {
	if date == "" {
		return nil, fmt.Errorf("trade date cannot be empty")
	}
	// Identifier may legitimately be empty (cash rows outside our scope).
	return &TradeRow{
		orderType:          orderType,
		date:               date,
		identifier:         identifier,
		quantity:           quantity,
		price:              price,
		totalAmount:        totalAmount,
		currency:           currency,
		commission:         commission,
		commissionCurrency: commissionCurrency,
	}, nil
}

// DividendRow is one line from the 6-column dividend export layout: ordinary
// dividends, payments in lieu, and tax withholdings, told apart by order type
// and description text.
type DividendRow struct {
	orderType   OrderType
	date        string
	identifier  string
	description string
	amount      float64
	currency    string
}

func (r *DividendRow) OrderType() OrderType { return r.orderType }
func (r *DividendRow) Date() string         { return r.date }
func (r *DividendRow) Identifier() string   { return r.identifier }

// Description returns the free-text line describing the cash event
func (r *DividendRow) Description() string { return r.description }

// Amount returns the cash amount, always non-negative
func (r *DividendRow) Amount() float64 { return r.amount }

// Currency returns the cash currency
func (r *DividendRow) Currency() string { return r.currency }

func (r *DividendRow) row() {}

// NewDividendRow creates a validated dividend-family row
func NewDividendRow(orderType OrderType, date, identifier, description string, amount float64, currency string) (*DividendRow, error) {
	if date == "" {
		return nil, fmt.Errorf("dividend date cannot be empty")
	}
	return &DividendRow{
		orderType:   orderType,
		date:        date,
		identifier:  identifier,
		description: description,
		amount:      amount,
		currency:    currency,
	}, nil
}
