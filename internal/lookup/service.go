// Package lookup defines the external security lookup boundary and its
// implementations.
package lookup

import (
	"context"

	"github.com/rumor-ml/commons.systems/brokerfeed/internal/domain"
)

// Query describes one resolution request. Exactly one of Identifier or
// SymbolOverride drives the lookup: when SymbolOverride is set, it is used
// verbatim instead of searching by identifier. Currency is a hint only.
type Query struct {
	Identifier     string
	SymbolOverride string
	Currency       string
}

// Security is a resolved security identity.
type Security struct {
	Symbol   string
	Currency string
	Name     string
	Source   domain.DataSource
}

// Service is the asynchronous external collaborator that resolves a security
// identity. Implementations return (nil, nil) when the lookup succeeds but
// finds nothing; errors are reserved for failures that must abort the batch.
type Service interface {
	Search(ctx context.Context, q Query) (*Security, error)
}
