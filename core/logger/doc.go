// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber context and
// attaches it to the log entry. WithTenant adds the tenant resolved by the tenant
// middleware as well, so that every record operation can be correlated per tenant.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithTenant(log, c)
//	l.Error("Query failed", zap.Error(err))
package logger
