// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key and the paging bounds
// applied to record queries. PageSize clamps client supplied limits.
package server
