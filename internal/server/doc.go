// Package server provides HTTP routing, middleware, and the handlers of the backlog web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Middleware is bound when a route is registered, so routes added before [BasicRouter.Use] skip the later
// middleware. [New] relies on this to keep /healthz outside the auth gate.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /game/{id}").
//
// # Routes
//
//	GET  /healthz        → liveness and database ping (no auth)
//	GET  /               → backlog list, most recently added first
//	GET  /add_game       → add form
//	POST /add_game       → ingest form field steam_id, redirect with a flash message
//	GET  /game/{id}      → detail view; unknown ids redirect to / with "Game not found"
//	GET  /api/game/{id}  → game as JSON; unknown ids are 404 {"error":"Game not found"}
//	GET  /metrics        → Prometheus exposition, when metrics are enabled
//
// # Authentication
//
// [BasicAuth] checks a single configured account on every request and answers failures with
// 401 and WWW-Authenticate: Basic realm="Login Required". A bcrypt password hash
// (see [HashPassword]) takes precedence over a plain password.
//
// # Feedback
//
// Add-game results are reported through a one-shot flash cookie read by the next page render.
// Duplicate Steam IDs are reported as plain success.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
