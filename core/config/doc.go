// Package config provides configuration management for datapath.
//
// It uses Viper to read environment variables, optionally seeded from a .env
// file. Every key and its default come from the 'mapstructure' and 'default'
// struct tags of the section types.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, paging bounds
//   - Database: MySQL or SQLite connection
//   - Storage: S3/MinIO credentials and the schema bucket
//   - Log: logging level and format
//   - Tenant: tenant header, default tenant and tenant column
//   - Schema: schema cache TTL, storage prefix, table fallback
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port) // SERVER_PORT
package config
