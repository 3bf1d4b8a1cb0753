package datastore

import (
	"context"

	"datapath/core/property"
	"datapath/core/query"
)

// Datastore runs query and operation definitions against a backing store.
type Datastore interface {
	// Query returns one box per matching row, holding the values of set.
	Query(ctx context.Context, set *property.Set, cfg query.Config) ([]*property.Box, error)
	// Count returns the number of matching rows, ignoring limit and offset.
	Count(ctx context.Context, set *property.Set, cfg query.Config) (int64, error)
	// Execute runs a write operation.
	Execute(ctx context.Context, op query.Operation) (query.OperationResult, error)
}

// Column returns the storage column of p: the "column" tag, or the name.
func Column(p *property.Property) string {
	if column, ok := p.Tag("column"); ok && column != "" {
		return column
	}
	return p.Name()
}

// Selectable reports whether p maps to a stored column.
func Selectable(p *property.Property) bool {
	return !p.HasTag("nested") && Column(p) != ""
}
