package parser

import (
	"context"
	"io"
)

// Parser is the strategy interface for all broker export parsers
type Parser interface {
	// Name returns parser identifier (e.g., "csv-broker", "ofx")
	Name() string

	// CanParse checks if parser can handle this file
	// Returns true if this parser should be used for the file
	CanParse(path string, header []byte) bool

	// Parse extracts raw rows from the file, in file order
	Parse(ctx context.Context, r io.Reader, meta *Metadata) ([]Row, error)
}
