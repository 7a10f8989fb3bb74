package transform

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNoPerSharePrice reports a dividend description with no parsable
// "<price> PER SHARE" fragment. The extractor returns it as a typed failure
// so callers can decide between aborting and skipping; the pipeline currently
// aborts (see Pipeline.Run).
var ErrNoPerSharePrice = errors.New("no per-share price in description")

var perSharePattern = regexp.MustCompile(`(\d*\.?\d+) PER SHARE`)

// PerSharePrice extracts the per-share price from a dividend description,
// e.g. "ORD DIV: 0.24 PER SHARE" yields 0.24.
func PerSharePrice(description string) (float64, error) {
	m := perSharePattern.FindStringSubmatch(description)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrNoPerSharePrice, description)
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid per-share price %q: %w", m[1], err)
	}
	return price, nil
}
