package tenant

// Config holds the tenant resolution settings.
type Config struct {
	// Header is the request header carrying the tenant id.
	Header string `mapstructure:"header" default:"X-Tenant-ID"`
	// Default is used when the header is absent; empty leaves the request
	// without tenant.
	Default string `mapstructure:"default" default:""`
	// Required rejects requests that resolve no tenant.
	Required bool `mapstructure:"required" default:"false"`
	// Column is the table column holding the tenant id of each row.
	Column string `mapstructure:"column" default:"tenant_id"`
}
