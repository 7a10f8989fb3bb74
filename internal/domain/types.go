// Package domain defines the normalized activity model and the export envelope.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportVersion is the format version stamped into every export envelope.
const ExportVersion = "v0"

// ActivityType represents the canonical activity type expected by the
// portfolio tracker import format.
// Use ValidateActivityType to ensure validity before use.
type ActivityType string

const (
	ActivityTypeBuy         ActivityType = "buy"
	ActivityTypeSell        ActivityType = "sell"
	ActivityTypeDividend    ActivityType = "dividend"
	ActivityTypeDividendTax ActivityType = "dividend-tax"
)

// DataSource identifies where a security's identity was resolved.
// Manual entries are fabricated locally and never touch the external lookup.
type DataSource string

const (
	DataSourceYahoo  DataSource = "YAHOO"
	DataSourceManual DataSource = "MANUAL"
)

var validActivityTypes = map[ActivityType]struct{}{
	ActivityTypeBuy: {}, ActivityTypeSell: {},
	ActivityTypeDividend: {}, ActivityTypeDividendTax: {},
}

// ValidateActivityType checks if the activity type is valid
func ValidateActivityType(t ActivityType) bool {
	_, ok := validActivityTypes[t]
	return ok
}

// Activity is one normalized entry of the output feed. Field names match the
// tracker's import schema exactly.
type Activity struct {
	AccountID  string       `json:"accountId"`
	Comment    string       `json:"comment"`
	Fee        float64      `json:"fee"`
	Quantity   float64      `json:"quantity"`
	Type       ActivityType `json:"type"`
	UnitPrice  float64      `json:"unitPrice"`
	Currency   string       `json:"currency"`
	DataSource DataSource   `json:"dataSource"`
	Date       string       `json:"date"` // ISO-8601 with offset
	Symbol     string       `json:"symbol"`
}

// Meta describes one export run.
type Meta struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Version string    `json:"version"`
}

// Export is the pass-through output container: a timestamped envelope around
// the ordered activity list. No conversion logic lives here.
type Export struct {
	meta       Meta
	activities []Activity
}

// NewExport wraps the given activities in a fresh envelope. The activity slice
// is copied so later mutation by the caller cannot reach the export.
func NewExport(activities []Activity) *Export {
	return &Export{
		meta: Meta{
			ID:      uuid.NewString(),
			Date:    time.Now(),
			Version: ExportVersion,
		},
		activities: append([]Activity(nil), activities...),
	}
}

// Meta returns the envelope metadata
func (e *Export) Meta() Meta { return e.meta }

// Activities returns a defensive copy of the activity list
func (e *Export) Activities() []Activity {
	return append([]Activity(nil), e.activities...)
}

// Append adds activities to the end of the export, preserving order.
// Used by merge mode to fold a new run into an existing artifact.
func (e *Export) Append(activities ...Activity) {
	e.activities = append(e.activities, activities...)
}

// MarshalJSON implements custom JSON marshaling for Export
func (e *Export) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Meta       Meta       `json:"meta"`
		Activities []Activity `json:"activities"`
	}{
		Meta:       e.meta,
		Activities: e.activities,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Export
func (e *Export) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Meta       Meta       `json:"meta"`
		Activities []Activity `json:"activities"`
	}{}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.Meta.Version != "" && aux.Meta.Version != ExportVersion {
		return fmt.Errorf("unsupported export version %q (current version: %s)", aux.Meta.Version, ExportVersion)
	}
	e.meta = aux.Meta
	e.activities = aux.Activities
	return nil
}
