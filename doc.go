// Package sessionkit maintains a consistent client-side view of "who is the
// current user" against a cookie-session auth backend.
//
// The pieces compose bottom-up:
//
//   - pkg/transport issues credentialed requests and injects the
//     anti-forgery token on mutating ones
//   - pkg/authclient speaks the auth protocol: session probe, login,
//     signup, logout, with normalized errors
//   - pkg/store is the single source of truth for {user, isAuthenticated,
//     isLoading}, publishing every transition atomically
//   - pkg/guard turns that tri-state into a render decision or HTTP
//     middleware
//
// Kit wires them from configuration:
//
//	cfg, err := config.Load()
//	kit, err := sessionkit.New(cfg)
//	kit.Store.Probe(ctx)          // settle the initial loading state
//	switch guard.Decide(kit.Store.State()) { ... }
package sessionkit
