// Package authclient speaks the browser-session auth protocol: a read-only
// session probe plus login, signup and logout.
//
// The probe and the mutating operations deliberately handle failure
// differently. Probe is best-effort state discovery: every failure mode,
// from a dead network to an unparsable body, normalizes to nil (anonymous),
// because it runs unconditionally at startup and a failed probe is
// indistinguishable from "never logged in". The mutating operations must
// inform their caller: Login and Signup fail with a normalized *Error whose
// Message is always human-readable, and Logout reports through LogoutResult
// so that "the session was already gone" is an outcome, not an error.
//
// Session payloads arrive in one of two shapes, a status/data envelope or a
// flat user object; both normalize through a single decoder into a
// UserRecord or nil, and the raw shape never leaks to callers.
package authclient
