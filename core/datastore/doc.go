// Package datastore executes query and operation definitions.
//
// The Datastore interface is the connector boundary of the data layer. The
// Gorm connector is the only implementation: it resolves filter and sort
// paths through a property.Adapter built over the property set of the
// request, renders temporal functions for the active dialect (mysql or
// sqlite), and maps result rows back into property boxes using the property
// value converters.
//
// # Tenancy
//
// A connector bound to a tenant (Gorm.ForTenant) restricts every read and
// write to the rows whose tenant column matches the tenant id, and stamps the
// tenant id on inserted rows. Property sets without the tenant column are not
// restricted.
//
// # Usage
//
//	store, _ := datastore.NewGorm(datastore.GormConfig{DB: db, Logger: log, TenantColumn: "tenant_id"})
//	rows, err := store.ForTenant("acme").Query(ctx, set, query.Config{Target: "products"})
package datastore
