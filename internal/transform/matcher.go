package transform

import (
	"strings"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// descriptionPrefixLen is how many leading characters of two descriptions
// must agree for them to describe the same economic event. Broker dividend
// and tax lines share their leading text and diverge in the trailing detail.
const descriptionPrefixLen = 20

// Matcher maintains the growing output list and merges dividend/tax
// counterparts that describe the same economic event. Matching is
// order-dependent: a row can only complete a counterpart that was already
// placed, which is why the pipeline feeds rows strictly in file order.
type Matcher struct {
	activities []domain.Activity
}

// NewMatcher creates an empty matcher
func NewMatcher() *Matcher {
	return &Matcher{activities: []domain.Activity{}}
}

// Activities returns a defensive copy of the output list built so far
func (m *Matcher) Activities() []domain.Activity {
	return append([]domain.Activity(nil), m.activities...)
}

// Len returns the number of activities placed so far
func (m *Matcher) Len() int { return len(m.activities) }

// Place adds an activity to the output list. When matchable is true (ordinary
// dividends and tax withholdings, never trades or payments in lieu) the list
// is first scanned for a counterpart; a match consumes the activity into the
// existing entry at its original position and Place reports true.
func (m *Matcher) Place(act domain.Activity, matchable bool) bool {
	if matchable {
		if i := m.findCounterpart(act); i >= 0 {
			m.merge(i, act)
			return true
		}
	}
	m.activities = append(m.activities, act)
	return false
}

// findCounterpart scans the built list for an activity with the same symbol,
// currency, date, and 20-character description prefix. Linear scan: typical
// files are small and the list reflects exactly the rows processed so far.
func (m *Matcher) findCounterpart(act domain.Activity) int {
	for i := range m.activities {
		existing := &m.activities[i]
		if existing.Symbol == act.Symbol &&
			existing.Currency == act.Currency &&
			existing.Date == act.Date &&
			descriptionPrefix(existing.Comment) == descriptionPrefix(act.Comment) {
			return i
		}
	}
	return -1
}

// merge folds the new activity into the matched entry. A tax-only stub (its
// comment still names the withholding) is completed by the incoming dividend
// half: comment, unit price, quantity, and type are overwritten, the fee
// already on the stub stays. Otherwise the existing entry is already the
// dividend half and the newcomer only contributes its fee.
func (m *Matcher) merge(i int, act domain.Activity) {
	existing := &m.activities[i]
	if strings.Contains(existing.Comment, "TAX") {
		existing.Comment = act.Comment
		existing.UnitPrice = act.UnitPrice
		existing.Quantity = act.Quantity
		existing.Type = act.Type
	} else {
		existing.Fee += act.Fee
	}
}

// descriptionPrefix returns the leading descriptionPrefixLen characters
func descriptionPrefix(s string) string {
	if len(s) > descriptionPrefixLen {
		return s[:descriptionPrefixLen]
	}
	return s
}
