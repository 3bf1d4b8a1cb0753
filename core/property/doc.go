// Package property holds the property model used across the data layer.
//
// A Property is a typed, named handle to a data field, decorated with
// identifier, version and sequence metadata. A Path is the structural address
// of a data field ("customer.address.city") and is what queries, filters and
// datastore connectors speak in. A Set is an ordered, deduplicated collection
// of properties with a designated identifier subset.
//
// # Adapter
//
// The Adapter wraps one Set and resolves paths and names back to properties:
//
//	set, _ := property.NewSet(id, name)
//	adapter, _ := property.NewAdapter(set)
//
//	p, err := adapter.Property(property.ParsePath("name"))
//	typed, err := property.Lookup[int64](adapter, "id")
//
// Path resolution is pluggable through a PathConverter (Property -> Path) and a
// PathMatcher (Path x Path -> bool). Lookups are memoized per adapter; the memo
// is reset whenever a strategy is replaced.
//
// # Boxes
//
// A Box carries values keyed by the properties of one Set. Values are checked
// against the declared property type on Put, and Box.Validate runs the property
// validators (including expr-lang expressions).
package property
