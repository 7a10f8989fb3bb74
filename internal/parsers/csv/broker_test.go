package csv

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
)

const (
	tradeHeader    = "Action,Time,ISIN,No. of shares,Price / share,Total,Currency,Commission,Commission currency"
	dividendHeader = "Action,Time,ISIN,Description,Amount,Currency"
)

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		expected Layout
	}{
		{name: "exactly 6 fields is dividend", header: make([]string, 6), expected: LayoutDividend},
		{name: "exactly 7 fields is trade", header: make([]string, 7), expected: LayoutTrade},
		{name: "9 fields is trade", header: make([]string, 9), expected: LayoutTrade},
		{name: "fewer fields falls back to dividend", header: make([]string, 3), expected: LayoutDividend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLayout(tt.header))
		})
	}
}

func TestCanParse(t *testing.T) {
	p := NewParser()

	assert.True(t, p.CanParse("export.csv", []byte(tradeHeader)))
	assert.True(t, p.CanParse("export.CSV", []byte(dividendHeader)))
	assert.False(t, p.CanParse("export.ofx", []byte(tradeHeader)))
	assert.False(t, p.CanParse("export.csv", []byte("just,three,fields")))
}

func TestParseTradeLayout(t *testing.T) {
	input := tradeHeader + "\n" +
		"BUY,20230105,US0378331005,10,150.00,1500.00,USD,1.00,USD\n" +
		"SELL,20230207,US0378331005,-5,160.00,-800.00,USD,1.00,USD\n"

	rows, err := NewParser().Parse(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	buy, ok := rows[0].(*parser.TradeRow)
	require.True(t, ok, "trade layout must produce trade rows")
	assert.Equal(t, parser.OrderTypeBuy, buy.OrderType())
	assert.Equal(t, "20230105", buy.Date())
	assert.Equal(t, "US0378331005", buy.Identifier())
	assert.Equal(t, 10.0, buy.Quantity())
	assert.Equal(t, 150.00, buy.Price())
	assert.Equal(t, 1500.00, buy.TotalAmount())
	assert.Equal(t, "USD", buy.Currency())
	assert.Equal(t, 1.00, buy.Commission())
	assert.Equal(t, "USD", buy.CommissionCurrency())

	sell, ok := rows[1].(*parser.TradeRow)
	require.True(t, ok)
	assert.Equal(t, parser.OrderTypeSell, sell.OrderType())
	// Sign is discarded during normalization
	assert.Equal(t, 5.0, sell.Quantity())
	assert.Equal(t, 800.00, sell.TotalAmount())
}

func TestParseDividendLayout(t *testing.T) {
	input := dividendHeader + "\n" +
		`DIVIDEND,20230105,US0378331005,"ORD DIV: 0.24 PER SHARE",2.40,USD` + "\n" +
		`TAX,20230105,US0378331005,"ORD DIV: 0.24 PER SHARE NRA TAX",-0.36,USD` + "\n"

	rows, err := NewParser().Parse(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	div, ok := rows[0].(*parser.DividendRow)
	require.True(t, ok, "dividend layout must produce dividend rows")
	assert.Equal(t, parser.OrderTypeDividend, div.OrderType())
	assert.Equal(t, "ORD DIV: 0.24 PER SHARE", div.Description())
	assert.Equal(t, 2.40, div.Amount())
	assert.Equal(t, "USD", div.Currency())

	tax, ok := rows[1].(*parser.DividendRow)
	require.True(t, ok)
	assert.Equal(t, parser.OrderTypeTax, tax.OrderType())
	assert.Equal(t, 0.36, tax.Amount(), "amount sign is discarded")
}

func TestParseEmptyIdentifierKept(t *testing.T) {
	// Rows without an identifier survive parsing; the pipeline drops them
	input := dividendHeader + "\n" +
		"DIVIDEND,20230105,,cash interest,1.00,USD\n"

	rows, err := NewParser().Parse(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Identifier())
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := dividendHeader + "\n\n" +
		`DIVIDEND,20230105,US0378331005,"ORD DIV: 0.24 PER SHARE",2.40,USD` + "\n\n"

	rows, err := NewParser().Parse(context.Background(), strings.NewReader(input), nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty file", input: ""},
		{name: "header only", input: tradeHeader + "\n"},
		{name: "bad quantity", input: tradeHeader + "\nBUY,20230105,US0378331005,ten,150.00,1500.00,USD,1.00,USD\n"},
		{name: "bad amount", input: dividendHeader + "\nDIVIDEND,20230105,US0378331005,desc,money,USD\n"},
		{name: "short trade row", input: tradeHeader + "\nBUY,20230105,US0378331005\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(context.Background(), strings.NewReader(tt.input), nil)
			require.Error(t, err)
		})
	}
}

func TestParseCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().Parse(ctx, strings.NewReader(tradeHeader), nil)
	require.ErrorIs(t, err, context.Canceled)
}
