// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting every endpoint but the docs.
//   - rayid: a unique request id (RayID) in locals and response headers for tracing.
//   - tenant: reads the tenant header and binds the id to the request user
//     context, where tenant scoped beans resolve it.
//
// The components are registered globally in the start command.
package middleware
