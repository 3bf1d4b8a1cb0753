// Package schema names property sets and binds them to data targets.
//
// A Schema pairs a property.Set (and its path adapter) with the table it is
// stored in. Schemas come from three kinds of Source:
//
//   - ModelSource: Go structs introspected with core/beans.
//   - StorageSource: JSON definitions stored in object storage under a prefix
//     (schemas/<name>.json by default).
//   - DatabaseSource: tables inspected through core/database.
//
// The Registry asks its sources in order and caches loaded schemas for the
// configured TTL. Concurrent loads of the same name are collapsed with
// singleflight.
//
// # Definition format
//
//	{
//	  "name": "products",
//	  "target": "products",
//	  "properties": [
//	    {"name": "id", "type": "int64", "identifier": true},
//	    {"name": "price", "type": "float64", "validate": "value > 0"}
//	  ]
//	}
package schema
