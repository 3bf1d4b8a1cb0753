// Package query defines the data-access expressions handed to datastore
// connectors: query configurations (target, filters, sorts, pagination,
// parameters), temporal functions and CRUD operation definitions.
//
// Definitions are plain structs. They are assembled by callers and checked
// with Validate before execution; an incomplete definition fails with
// ErrInvalidExpression.
//
//	cfg := query.Config{Target: "products"}
//	cfg.Filter(query.Eq("category", "chairs")).
//	    Filter(query.Gt(query.Year("created_at"), 2020)).
//	    SortBy("name", false).
//	    Restrict(20, 40)
//	if err := cfg.Validate(); err != nil { ... }
package query
