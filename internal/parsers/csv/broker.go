// Package csv parses the brokerage CSV export formats for brokerfeed
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
)

// Layout identifies which of the two fixed column layouts a file uses.
type Layout int

const (
	// LayoutDividend is the 6-column dividend/tax export:
	// type, date, identifier, description, amount, currency
	LayoutDividend Layout = iota
	// LayoutTrade is the 9-column trade export:
	// type, date, identifier, quantity, price, totalAmount, currency, commission, commissionCurrency
	LayoutTrade
)

const (
	dividendColumns = 6
	tradeColumns    = 9
)

// Parser implements brokerage CSV parsing with a stateless design.
// The struct has no fields because CSV parsing requires no configuration state.
// Each method operates solely on the input data provided, making the parser safe
// for concurrent use without locking.
type Parser struct{}

var parserInstance = &Parser{}

// NewParser returns the shared CSV parser instance.
// Safe for concurrent use due to stateless design.
func NewParser() *Parser {
	return parserInstance
}

// getFileInfo returns a formatted file path string for error messages
func getFileInfo(meta *parser.Metadata) string {
	if meta != nil && meta.FilePath() != "" {
		return fmt.Sprintf(" from %s", meta.FilePath())
	}
	return ""
}

// Name returns the parser identifier
func (p *Parser) Name() string {
	return "csv-broker"
}

// DetectLayout selects the column layout from the header row alone: more than
// 6 fields means the trade export, otherwise the dividend export. The upstream
// schema carries no discriminant column, so this count heuristic is the whole
// contract; header names are deliberately not validated.
func DetectLayout(header []string) Layout {
	if len(header) > dividendColumns {
		return LayoutTrade
	}
	return LayoutDividend
}

// CanParse checks if this parser can handle the file based on extension and header
func (p *Parser) CanParse(path string, header []byte) bool {
	// Check file extension (.csv, case-insensitive)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		return false
	}

	// The header must tokenize as CSV and have at least the dividend layout's
	// field count. Column names are not checked (see DetectLayout).
	r := csv.NewReader(strings.NewReader(string(header)))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return false
	}

	return len(record) >= dividendColumns
}

// Parse extracts raw rows from a brokerage CSV export
func (p *Parser) Parse(ctx context.Context, r io.Reader, meta *parser.Metadata) ([]parser.Row, error) {
	// Check if context was cancelled before parsing
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV content%s: %w", getFileInfo(meta), err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("CSV file is empty%s", getFileInfo(meta))
	}

	layout := DetectLayout(records[0])

	rows := make([]parser.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		// Skip blank lines
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		var row parser.Row
		switch layout {
		case LayoutTrade:
			row, err = p.parseTradeRow(record)
		case LayoutDividend:
			row, err = p.parseDividendRow(record)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d%s: %w", i+2, getFileInfo(meta), err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file contains no data rows%s", getFileInfo(meta))
	}

	return rows, nil
}

// parseTradeRow parses a single row of the 9-column trade layout
func (p *Parser) parseTradeRow(record []string) (*parser.TradeRow, error) {
	if len(record) != tradeColumns {
		return nil, fmt.Errorf("trade row must have %d fields, got %d", tradeColumns, len(record))
	}

	orderType := parser.ClassifyOrderType(record[0])
	date := strings.TrimSpace(record[1])
	identifier := strings.TrimSpace(record[2])

	quantity, err := parser.ParseAmount(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := parser.ParseAmount(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	totalAmount, err := parser.ParseAmount(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	commission, err := parser.ParseAmount(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid commission: %w", err)
	}

	return parser.NewTradeRow(
		orderType,
		date,
		identifier,
		quantity,
		price,
		totalAmount,
		strings.TrimSpace(record[6]),
		commission,
		strings.TrimSpace(record[8]),
	)
}

// parseDividendRow parses a single row of the 6-column dividend layout
func (p *Parser) parseDividendRow(record []string) (*parser.DividendRow, error) {
	if len(record) != dividendColumns {
		return nil, fmt.Errorf("dividend row must have %d fields, got %d", dividendColumns, len(record))
	}

	orderType := parser.ClassifyOrderType(record[0])
	date := strings.TrimSpace(record[1])
	identifier := strings.TrimSpace(record[2])
	description := strings.TrimSpace(record[3])

	amount, err := parser.ParseAmount(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	return parser.NewDividendRow(
		orderType,
		date,
		identifier,
		description,
		amount,
		strings.TrimSpace(record[5]),
	)
}
