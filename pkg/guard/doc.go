// Package guard turns authentication state into a render decision.
//
// A guarded view shows exactly one of three things: a loading placeholder
// while the first probe is in flight, a redirect to login for anonymous
// sessions, or the protected content. The loading branch is checked first so
// protected content never flashes before the session state is known.
//
// Decide is the pure form for UI callers; RequireAuth wraps the same logic
// as net/http middleware for server-rendered consumers and composes with any
// chi-style middleware chain.
package guard
