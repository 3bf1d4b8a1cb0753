// Package schemas exposes the schema registry over HTTP.
//
// # Routes
//
//   - GET /schemas: names of every known schema.
//   - GET /schemas/:name: the schema definition.
//   - PUT /schemas/:name: stores a definition in object storage.
//   - GET /schemas/:name/paths/*: resolves a data path to its property; with
//     no path, lists every property path. The optional "type" query parameter
//     requires the property to be of that type.
package schemas
