// Package models holds the built-in gorm models published as schemas.
//
// Register adds them to a schema.ModelSource; Migrate creates their tables.
// Each model carries a tenant_id column restricted by the tenant aware
// datastore.
package models
