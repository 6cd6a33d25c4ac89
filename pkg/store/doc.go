// Package store holds the single source of truth for "who is the current
// user".
//
// The Store wraps the protocol client and publishes AuthState through a
// reactive signal: one whole-value write per transition, so no subscriber
// ever sees IsAuthenticated disagree with User. The lifecycle is
//
//	loading --Probe--> anonymous | authenticated
//	anonymous --Login/Signup--> authenticated (on success; failure changes nothing)
//	authenticated --Logout--> anonymous (unconditionally)
//
// The loading state exists only until the first operation settles and is
// never re-entered; per-call progress is the caller's concern.
//
// Mutating operations are serialized per Store. Overlapping calls from a
// double-clicked button run in order and the last to complete determines the
// final state, with every intermediate state still internally consistent.
package store
