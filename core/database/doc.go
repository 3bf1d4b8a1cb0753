// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL or SQLite connections from the application
// configuration.
//
// # Connect
//
// Connect opens the configured driver, tunes the pool and pings the server
// within the configured timeout. SQLite accepts ":memory:" as name, which
// tests rely on.
//
// # Schema Inspection
//
// GetTableColumns and ListTables read table metadata so that property sets
// can be derived from existing tables. ColumnInfo.GoType maps SQL column
// types to the Go types exposed by those sets.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "products")
package database
