package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

func validActivity() domain.Activity {
	return domain.Activity{
		AccountID:  "my-account",
		Comment:    "ORD DIV: 0.24 PER SHARE",
		Fee:        0.36,
		Quantity:   10,
		Type:       domain.ActivityTypeDividend,
		UnitPrice:  0.24,
		Currency:   "USD",
		DataSource: domain.DataSourceYahoo,
		Date:       "2023-01-05T00:00:00+00:00",
		Symbol:     "AAPL",
	}
}

func TestValidateExportClean(t *testing.T) {
	export := domain.NewExport([]domain.Activity{validActivity()})

	result := ValidateExport(export)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateExportErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Activity)
		field  string
	}{
		{name: "invalid type", mutate: func(a *domain.Activity) { a.Type = "transfer" }, field: "type"},
		{name: "empty symbol", mutate: func(a *domain.Activity) { a.Symbol = "" }, field: "symbol"},
		{name: "empty account", mutate: func(a *domain.Activity) { a.AccountID = "" }, field: "accountId"},
		{name: "bad data source", mutate: func(a *domain.Activity) { a.DataSource = "GOOGLE" }, field: "dataSource"},
		{name: "date without offset", mutate: func(a *domain.Activity) { a.Date = "2023-01-05" }, field: "date"},
		{name: "raw export date", mutate: func(a *domain.Activity) { a.Date = "20230105" }, field: "date"},
		{name: "negative fee", mutate: func(a *domain.Activity) { a.Fee = -1 }, field: "fee"},
		{name: "negative quantity", mutate: func(a *domain.Activity) { a.Quantity = -1 }, field: "quantity"},
		{name: "negative unit price", mutate: func(a *domain.Activity) { a.UnitPrice = -1 }, field: "unitPrice"},
		{name: "empty currency", mutate: func(a *domain.Activity) { a.Currency = "" }, field: "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := validActivity()
			tt.mutate(&act)

			result := ValidateExport(domain.NewExport([]domain.Activity{act}))
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.field, result.Errors[0].Field)
			assert.Equal(t, 0, result.Errors[0].Index)
		})
	}
}

func TestValidateExportWarnings(t *testing.T) {
	t.Run("unknown currency", func(t *testing.T) {
		act := validActivity()
		act.Currency = "DOGE"

		result := ValidateExport(domain.NewExport([]domain.Activity{act}))
		assert.Empty(t, result.Errors)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "currency", result.Warnings[0].Field)
	})

	t.Run("zero quantity trade", func(t *testing.T) {
		act := validActivity()
		act.Type = domain.ActivityTypeBuy
		act.Quantity = 0

		result := ValidateExport(domain.NewExport([]domain.Activity{act}))
		assert.Empty(t, result.Errors)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "quantity", result.Warnings[0].Field)
	})

	t.Run("zero quantity dividend is fine", func(t *testing.T) {
		act := validActivity()
		act.Quantity = 0

		result := ValidateExport(domain.NewExport([]domain.Activity{act}))
		assert.Empty(t, result.Warnings)
	})
}

func TestValidateGBpAccepted(t *testing.T) {
	// The pence convention is not ISO 4217 but the assembler emits it
	act := validActivity()
	act.Currency = "GBp"

	result := ValidateExport(domain.NewExport([]domain.Activity{act}))
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateManualSource(t *testing.T) {
	act := validActivity()
	act.DataSource = domain.DataSourceManual
	act.Symbol = "GF_US1234567890"

	result := ValidateExport(domain.NewExport([]domain.Activity{act}))
	assert.Empty(t, result.Errors)
}

func TestValidateIndexesMultipleActivities(t *testing.T) {
	good := validActivity()
	bad := validActivity()
	bad.Symbol = ""

	result := ValidateExport(domain.NewExport([]domain.Activity{good, bad}))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
}
