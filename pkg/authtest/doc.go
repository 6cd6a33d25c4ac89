// Package authtest provides an in-memory auth backend for tests and local
// development.
//
// The Backend speaks the same wire shapes as a real browser-session backend:
// envelope session payloads, {errors: [{message}]} failure bodies, session
// cookies, and double-submit anti-forgery enforcement on mutating routes. It
// is a test double, not a server implementation; nothing persists.
//
//	backend := authtest.New()
//	backend.Seed(authclient.UserRecord{Email: "a@b.com", Username: "ab"}, "secret")
//	srv := httptest.NewServer(backend)
package authtest
