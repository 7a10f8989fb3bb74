package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	now := time.Now()

	meta, err := NewMetadata("/data/trades.csv", now)
	require.NoError(t, err)
	assert.Equal(t, "/data/trades.csv", meta.FilePath())
	assert.Equal(t, now, meta.LoadedAt())
}

func TestNewMetadataValidation(t *testing.T) {
	_, err := NewMetadata("", time.Now())
	require.Error(t, err)

	_, err = NewMetadata("/data/trades.csv", time.Time{})
	require.Error(t, err)
}

func TestRowConstructorsRequireDate(t *testing.T) {
	_, err := NewTradeRow(OrderTypeBuy, "", "US0378331005", 10, 150, 1500, "USD", 1, "USD")
	require.Error(t, err)

	_, err = NewDividendRow(OrderTypeDividend, "", "US0378331005", "ORD DIV", 2.40, "USD")
	require.Error(t, err)
}
