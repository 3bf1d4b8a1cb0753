// Package integrity checks that Go models, stored definitions and database
// tables agree with each other.
//
// The checks are run by the reconcile engine. Repairs publish the definition
// of a model missing from storage, and create the table of a model missing
// from the database.
//
// # HTTP Endpoints
//
//   - GET /integrity/schemas : Reconciles every schema (supports ?fix=true).
//   - GET /integrity/schemas/:name : Reconciles one schema.
package integrity
