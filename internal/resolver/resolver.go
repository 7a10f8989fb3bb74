// Package resolver applies the layered identity override policy in front of
// the external security lookup.
package resolver

import (
	"context"
	"fmt"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/lookup"
	"github.com/rumor-ml/commons.systems/brokerfeed/internal/overrides"
)

// ManualSymbolPrefix is prepended to the identifier when fabricating the
// synthetic symbol of a manually resolved security.
const ManualSymbolPrefix = "GF_"

// Resolver resolves a row's security identity. Precedence per row:
//
//  1. Manual override: a synthetic security is fabricated and the external
//     lookup is never called.
//  2. Replace override: the external lookup is called with the replacement
//     key instead of the identifier.
//  3. No override: the external lookup is called with the identifier.
//
// The override table is read-only after construction, so a Resolver is safe
// to share.
type Resolver struct {
	table           overrides.Table
	svc             lookup.Service
	defaultCurrency string
}

// New creates a resolver over the given override table and lookup service
func New(table overrides.Table, svc lookup.Service, defaultCurrency string) (*Resolver, error) {
	if svc == nil {
		return nil, fmt.Errorf("lookup service cannot be nil")
	}
	if defaultCurrency == "" {
		return nil, fmt.Errorf("default currency cannot be empty")
	}
	return &Resolver{table: table, svc: svc, defaultCurrency: defaultCurrency}, nil
}

// Resolve returns the security identity for an identifier, or (nil, nil) when
// the external lookup finds nothing (the caller skips the row). An error from
// the lookup service propagates unchanged and aborts the batch.
func (r *Resolver) Resolve(ctx context.Context, identifier, currency string) (*lookup.Security, error) {
	if identifier == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	entry, ok := r.table.Lookup(identifier)
	if ok && entry.Kind == overrides.KindManual {
		return r.synthetic(identifier, currency), nil
	}

	q := lookup.Query{Identifier: identifier, Currency: currency}
	if ok && entry.Kind == overrides.KindReplace {
		q = lookup.Query{SymbolOverride: entry.ReplacementKey, Currency: currency}
	}

	return r.svc.Search(ctx, q)
}

// synthetic fabricates the security for a manually resolved identifier: the
// prefixed identifier as symbol, the row's currency (or the configured
// default), and the identifier itself as display name.
func (r *Resolver) synthetic(identifier, currency string) *lookup.Security {
	if currency == "" {
		currency = r.defaultCurrency
	}
	return &lookup.Security{
		Symbol:   ManualSymbolPrefix + identifier,
		Currency: currency,
		Name:     identifier,
		Source:   domain.DataSourceManual,
	}
}
