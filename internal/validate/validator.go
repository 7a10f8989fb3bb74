// Package validate checks an assembled export before it is written.
package validate

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// activityDateLayout is the ISO-8601-with-offset layout activities carry
const activityDateLayout = "2006-01-02T15:04:05-07:00"

// ValidationResult contains all validation errors and warnings for an export
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError represents a validation error
type ValidationError struct {
	Index   int // position in the activity list
	Symbol  string
	Field   string
	Message string
}

// ValidationWarning represents a non-critical validation issue
type ValidationWarning struct {
	Index   int
	Symbol  string
	Field   string
	Message string
}

// ValidateExport checks every activity of an export against the output
// schema's constraints. Returns all errors and warnings found.
func ValidateExport(e *domain.Export) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	for i, act := range e.Activities() {
		validateActivity(result, i, act)
	}

	return result
}

func validateActivity(result *ValidationResult, i int, act domain.Activity) {
	addError := func(field, message string) {
		result.Errors = append(result.Errors, ValidationError{Index: i, Symbol: act.Symbol, Field: field, Message: message})
	}
	addWarning := func(field, message string) {
		result.Warnings = append(result.Warnings, ValidationWarning{Index: i, Symbol: act.Symbol, Field: field, Message: message})
	}

	if !domain.ValidateActivityType(act.Type) {
		addError("type", fmt.Sprintf("invalid activity type %q", act.Type))
	}
	if act.Symbol == "" {
		addError("symbol", "symbol cannot be empty")
	}
	if act.AccountID == "" {
		addError("accountId", "account id cannot be empty")
	}
	if act.DataSource != domain.DataSourceYahoo && act.DataSource != domain.DataSourceManual {
		addError("dataSource", fmt.Sprintf("invalid data source %q", act.DataSource))
	}
	if _, err := time.Parse(activityDateLayout, act.Date); err != nil {
		addError("date", fmt.Sprintf("date %q is not ISO-8601 with offset", act.Date))
	}

	// Amounts are normalized to absolute values upstream; a negative here
	// means a conversion bug, not bad input.
	if act.Fee < 0 {
		addError("fee", fmt.Sprintf("fee %v cannot be negative", act.Fee))
	}
	if act.Quantity < 0 {
		addError("quantity", fmt.Sprintf("quantity %v cannot be negative", act.Quantity))
	}
	if act.UnitPrice < 0 {
		addError("unitPrice", fmt.Sprintf("unit price %v cannot be negative", act.UnitPrice))
	}

	if act.Currency == "" {
		addError("currency", "currency cannot be empty")
	} else if !isKnownCurrency(act.Currency) {
		addWarning("currency", fmt.Sprintf("currency %q is not ISO 4217", act.Currency))
	}

	if (act.Type == domain.ActivityTypeBuy || act.Type == domain.ActivityTypeSell) && act.Quantity == 0 {
		addWarning("quantity", "trade has zero quantity")
	}
}

// isKnownCurrency accepts ISO 4217 codes plus the GBp pence convention the
// assembler emits for London-listed securities.
func isKnownCurrency(code string) bool {
	if code == "GBp" {
		return true
	}
	_, err := currency.ParseISO(code)
	return err == nil
}
