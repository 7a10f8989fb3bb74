package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateActivityType(t *testing.T) {
	valid := []ActivityType{ActivityTypeBuy, ActivityTypeSell, ActivityTypeDividend, ActivityTypeDividendTax}
	for _, at := range valid {
		assert.True(t, ValidateActivityType(at), string(at))
	}

	invalid := []ActivityType{"", "BUY", "Buy", "transfer", "dividend_tax"}
	for _, at := range invalid {
		assert.False(t, ValidateActivityType(at), string(at))
	}
}

func TestNewExport(t *testing.T) {
	acts := []Activity{{Symbol: "AAPL", Type: ActivityTypeBuy}}
	export := NewExport(acts)

	meta := export.Meta()
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, ExportVersion, meta.Version)
	assert.False(t, meta.Date.IsZero())

	// The input slice is copied on construction
	acts[0].Symbol = "MUTATED"
	assert.Equal(t, "AAPL", export.Activities()[0].Symbol)
}

func TestExportAppend(t *testing.T) {
	export := NewExport([]Activity{{Symbol: "AAPL"}})
	export.Append(Activity{Symbol: "MSFT"}, Activity{Symbol: "GOOG"})

	acts := export.Activities()
	require.Len(t, acts, 3)
	assert.Equal(t, "AAPL", acts[0].Symbol)
	assert.Equal(t, "GOOG", acts[2].Symbol)
}

func TestExportJSONShape(t *testing.T) {
	export := NewExport([]Activity{{
		AccountID:  "my-account",
		Type:       ActivityTypeBuy,
		Currency:   "USD",
		DataSource: DataSourceYahoo,
		Date:       "2023-01-05T00:00:00+00:00",
		Symbol:     "AAPL",
	}})

	data, err := json.Marshal(export)
	require.NoError(t, err)

	// Field names must match the tracker's import schema exactly
	for _, key := range []string{`"meta"`, `"activities"`, `"accountId"`, `"unitPrice"`, `"dataSource"`, `"version"`} {
		assert.Contains(t, string(data), key)
	}

	var decoded Export
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, export.Meta().ID, decoded.Meta().ID)
	require.Len(t, decoded.Activities(), 1)
	assert.Equal(t, "AAPL", decoded.Activities()[0].Symbol)
}

func TestExportUnmarshalRejectsUnknownVersion(t *testing.T) {
	var export Export
	err := json.Unmarshal([]byte(`{"meta":{"id":"x","version":"v99"},"activities":[]}`), &export)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v99")
}

func TestExportUnmarshalAcceptsMissingVersion(t *testing.T) {
	var export Export
	err := json.Unmarshal([]byte(`{"meta":{"id":"x"},"activities":[]}`), &export)
	require.NoError(t, err)
}
