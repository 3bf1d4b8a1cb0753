// Package reconcile compares the three sources of schemas: Go models, stored
// definitions and database tables.
//
// Every schema name known to a source is reported once, with its presence in
// each source and the mismatches found between them:
//
//   - model and definition disagree on a property or its type
//   - a column of the defined schema is missing from the table
//   - a column has an incompatible SQL type
//
// Indices are loaded concurrently and cached for Spec.CacheTTL. A plan derived
// from the results lists the repairs (publish a model definition, create a
// missing table) that ApplyPlan runs through a Mutator.
//
// # Usage Example
//
//	r := reconcile.New(&reconcile.Spec{
//	    Model:    models,
//	    Storage:  definitions,
//	    Database: tables,
//	    CacheTTL: 5 * time.Minute,
//	})
//	results, err := r.ReconcileAll(ctx)
//	plan, err := r.ReconcileWithPlan(ctx)
//	executed, err := r.ApplyPlan(ctx, plan, mutator, reconcile.Options{Confirmed: true})
package reconcile
