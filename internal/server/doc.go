// Package server provides HTTP routing, middleware, and a simulated research backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Research Handler
//
// [ResearchHandler] implements the five research endpoints the client speaks:
// topic listing, job submission, progress polling, result listing, and result
// retrieval. Jobs advance through staged progress on a wall-clock schedule so
// the polling loop can be exercised end to end without a real research
// pipeline behind it.
//
// # Current Usage
//
// The serve command runs the handler on localhost so the CLI and TUI can be
// developed and demonstrated against a local backend.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
