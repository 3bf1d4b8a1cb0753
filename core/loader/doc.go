// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which names it, tells whether it
// is enabled and registers its routes.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registered features. Register adds one; LoadAll loads the
// enabled ones in registration order and fails on the first error.
//
// Features such as 'schemas' and 'records' are developed and tested in isolation
// and composed by the start command.
package loader
