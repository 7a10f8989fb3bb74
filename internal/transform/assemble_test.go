package transform

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/lookup"
)

func TestNewAssemblerRequiresAccount(t *testing.T) {
	_, err := NewAssembler("")
	require.Error(t, err)
}

func TestCanonicalCurrency(t *testing.T) {
	assert.Equal(t, "GBp", CanonicalCurrency("GBX"))
	assert.Equal(t, "GBP", CanonicalCurrency("GBP"))
	assert.Equal(t, "USD", CanonicalCurrency("USD"))
	assert.Equal(t, "", CanonicalCurrency(""))
}

func TestActivity(t *testing.T) {
	asm, err := NewAssembler("my-account")
	require.NoError(t, err)

	act, err := asm.Activity(&EconomicEvent{
		Type:      EventBuy,
		Quantity:  10,
		UnitPrice: 150.00,
		Fee:       1.00,
		Currency:  "USD",
		Date:      "20230105",
		Security:  lookup.Security{Symbol: "AAPL", Source: domain.DataSourceYahoo},
	})
	require.NoError(t, err)

	assert.Equal(t, "my-account", act.AccountID)
	assert.Equal(t, domain.ActivityTypeBuy, act.Type)
	assert.Equal(t, "AAPL", act.Symbol)
	assert.Equal(t, domain.DataSourceYahoo, act.DataSource)
	assert.Equal(t, 10.0, act.Quantity)
	assert.Equal(t, 150.00, act.UnitPrice)
	assert.Equal(t, 1.00, act.Fee)

	// Midnight local time with the zone offset rendered explicitly
	assert.True(t, strings.HasPrefix(act.Date, "2023-01-05T00:00:00"), act.Date)
	_, err = time.Parse("2006-01-02T15:04:05-07:00", act.Date)
	require.NoError(t, err)
}

func TestActivityCanonicalizesCurrency(t *testing.T) {
	asm, err := NewAssembler("my-account")
	require.NoError(t, err)

	act, err := asm.Activity(&EconomicEvent{
		Type:     EventDividend,
		Currency: "GBX",
		Date:     "20230105",
		Security: lookup.Security{Symbol: "VWRL.L", Source: domain.DataSourceYahoo},
	})
	require.NoError(t, err)
	assert.Equal(t, "GBp", act.Currency)
}

func TestActivityTypeMapping(t *testing.T) {
	tests := []struct {
		event    EventType
		expected domain.ActivityType
	}{
		{event: EventBuy, expected: domain.ActivityTypeBuy},
		{event: EventSell, expected: domain.ActivityTypeSell},
		{event: EventDividend, expected: domain.ActivityTypeDividend},
		{event: EventDividendTax, expected: domain.ActivityTypeDividendTax},
		{event: EventPaymentInLieu, expected: domain.ActivityTypeDividend},
	}

	asm, err := NewAssembler("my-account")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			act, err := asm.Activity(&EconomicEvent{
				Type:     tt.event,
				Date:     "20230105",
				Security: lookup.Security{Symbol: "AAPL"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, act.Type)
		})
	}
}

func TestActivityBadDate(t *testing.T) {
	asm, err := NewAssembler("my-account")
	require.NoError(t, err)

	tests := []string{"", "2023-01-05", "20231345", "Jan 5 2023"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := asm.Activity(&EconomicEvent{Type: EventBuy, Date: raw, Security: lookup.Security{Symbol: "AAPL"}})
			require.Error(t, err)
		})
	}
}
