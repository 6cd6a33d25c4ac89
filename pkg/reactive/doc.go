// Package reactive provides the reactive state primitive backing the
// SessionKit stores.
//
// A Signal holds a single value that is replaced atomically on every write.
// Subscribers registered with Subscribe observe each change exactly once, in
// write order from their point of view, and never observe a half-written
// value. Writes that do not change the value (per the signal's equality
// function) do not notify.
//
// Signals are safe for concurrent use. All mutation goes through Set or
// Update; reads through Get never block writers for longer than a value copy.
package reactive
