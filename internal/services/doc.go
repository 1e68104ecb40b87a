// Package services implements the REST client for the material tracking service.
//
// # API Interface
//
// [API] abstracts every HTTP endpoint the client consumes, enabling the sync
// engine, TUI, and CLI commands to be tested against doubles.
//
// # Client Implementation
//
// [Client] talks JSON over HTTP and relies on a cookie jar for the service's
// session authentication: a successful /login or /register sets a session
// cookie that every subsequent request carries.
//
// Outbound requests pass through a [rate.Limiter] so bursts of CLI or TUI
// activity cannot hammer the service.
//
// # Error Handling
//
// Three failure layers are distinguished, all reported as wrapped sentinel
// errors from the shared package:
//   - transport failure or non-2xx status: [shared.ErrAPIRequest]
//   - 401 responses: [shared.ErrNotAuthenticated]
//   - payload-level {"error": ...} bodies: [shared.ErrAPIRequest] with the
//     service-provided message
//
// REST calls are never retried automatically; the user re-triggers the
// action. Upload validation (extension, size, filename) runs before any
// network call.
package services
