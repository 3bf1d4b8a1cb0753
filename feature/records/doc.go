// Package records runs queries and write operations on schema targets.
//
// Requests are served by the datastore bean of the request tenant: the
// tenant middleware binds the tenant id to the request context and the
// "datastore" bean, of Tenant lifetime, restricts every statement to that
// tenant. Requests without tenant use the "datastore.shared" singleton.
//
// # Routes
//
//   - GET /records/:schema?filter=path:op:value&sort=path[:desc]&limit=&offset=&distinct=
//   - GET /records/:schema/:id
//   - POST /records/:schema (insert, or update when the identifier exists)
//   - DELETE /records/:schema/:id
package records
