package schema

import "time"

// Config holds the schema registry settings.
type Config struct {
	// CacheTTLSeconds is how long loaded schemas are reused; 0 disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
	// Prefix is the object storage prefix of schema definitions.
	Prefix string `mapstructure:"prefix" default:"schemas/"`
	// Tables exposes database tables without a definition as schemas.
	Tables bool `mapstructure:"tables" default:"true"`
}

// TTL returns the cache duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
