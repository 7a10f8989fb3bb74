package transform

import (
	"context"
	"fmt"
	"os"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/parser"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/resolver"
)

// maxUnresolvedExamples caps how many skipped identifiers Stats remembers
const maxUnresolvedExamples = 10

// Stats aggregates what happened to the rows of one conversion run.
type Stats struct {
	RowsProcessed     int // rows that produced or merged into an activity
	TradesEmitted     int
	DividendsEmitted  int // dividend-family activities appended (incl. PIL)
	PairsMerged       int // dividend/tax rows consumed into a counterpart
	MissingIdentifier int // silently dropped non-security cash rows
	Unresolved        int // rows skipped because the lookup found nothing

	unresolvedExamples []string
}

// UnresolvedExamples returns a defensive copy of the skipped identifiers
func (s *Stats) UnresolvedExamples() []string {
	return append([]string(nil), s.unresolvedExamples...)
}

func (s *Stats) addUnresolvedExample(identifier string) {
	if len(s.unresolvedExamples) < maxUnresolvedExamples {
		s.unresolvedExamples = append(s.unresolvedExamples, identifier)
	}
}

// Pipeline runs rows through identity resolution, classification, matching,
// and assembly, strictly in file order. Rows are processed one at a time: the
// single suspension point is the lookup call, awaited before the next row, so
// the matcher always scans a list reflecting exactly the rows seen so far.
type Pipeline struct {
	resolver  *resolver.Resolver
	assembler *Assembler
}

// NewPipeline creates a pipeline over the given resolver and assembler
func NewPipeline(res *resolver.Resolver, asm *Assembler) (*Pipeline, error) {
	if res == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if asm == nil {
		return nil, fmt.Errorf("assembler cannot be nil")
	}
	return &Pipeline{resolver: res, assembler: asm}, nil
}

// Run converts rows to the ordered activity list. Merged dividend/tax pairs
// collapse to the position of the first-seen member. A lookup failure aborts
// the whole batch; no partial result is returned on any error path.
func (p *Pipeline) Run(ctx context.Context, rows []parser.Row) ([]domain.Activity, *Stats, error) {
	stats := &Stats{}
	matcher := NewMatcher()

	for i, row := range rows {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		// Rows without an identifier are non-security cash events outside
		// the converter's scope: dropped silently, not an error.
		if row.Identifier() == "" {
			stats.MissingIdentifier++
			continue
		}

		sec, err := p.resolver.Resolve(ctx, row.Identifier(), rowCurrency(row))
		if err != nil {
			return nil, nil, fmt.Errorf("resolution failed for row %d (%s): %w", i+1, row.Identifier(), err)
		}
		if sec == nil {
			stats.Unresolved++
			stats.addUnresolvedExample(row.Identifier())
			fmt.Fprintf(os.Stderr, "Warning: no security found for %s, skipping row %d\n", row.Identifier(), i+1)
			continue
		}

		event, err := Classify(row, sec)
		if err != nil {
			return nil, nil, fmt.Errorf("classification failed for row %d: %w", i+1, err)
		}

		act, err := p.assembler.Activity(event)
		if err != nil {
			return nil, nil, fmt.Errorf("assembly failed for row %d: %w", i+1, err)
		}

		matchable := event.Type == EventDividend || event.Type == EventDividendTax
		merged := matcher.Place(act, matchable)

		stats.RowsProcessed++
		switch {
		case merged:
			stats.PairsMerged++
		case event.Type == EventBuy || event.Type == EventSell:
			stats.TradesEmitted++
		default:
			stats.DividendsEmitted++
		}
	}

	return matcher.Activities(), stats, nil
}

// rowCurrency extracts the currency hint from either row variant
func rowCurrency(row parser.Row) string {
	switch r := row.(type) {
	case *parser.TradeRow:
		return r.Currency()
	case *parser.DividendRow:
		return r.Currency()
	default:
		return ""
	}
}
