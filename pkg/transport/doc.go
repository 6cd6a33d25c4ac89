// Package transport issues HTTP requests against a cookie-session backend.
//
// The Client owns two pieces of process-wide state: the cookie jar (the
// browser-session credential) and the cached anti-forgery token. Reads go out
// as-is; mutating requests block on token resolution before their headers are
// built, so a mutating request is never sent racing its own token fetch. A
// failed token fetch does not fail the request: the request goes out without
// the header and the server rejects it on its own terms.
//
// Each request is wrapped in an OpenTelemetry span named "transport.request"
// carrying method, path and response status.
package transport
