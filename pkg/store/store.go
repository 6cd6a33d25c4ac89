package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
	"github.com/sessionkit-dev/sessionkit/pkg/reactive"
)

// AuthState is the externally observable authentication state.
// IsAuthenticated equals (User != nil) in every state the store publishes.
// IsLoading is true only before the first operation settles and never
// becomes true again afterwards.
type AuthState struct {
	User            *authclient.UserRecord
	IsAuthenticated bool
	IsLoading       bool
}

// anonymous constructs the anonymous state.
func anonymous() AuthState {
	return AuthState{User: nil, IsAuthenticated: false, IsLoading: false}
}

// authenticated constructs the authenticated state for user. A nil user
// yields the anonymous state so the invariant cannot be violated.
func authenticated(user *authclient.UserRecord) AuthState {
	if user == nil {
		return anonymous()
	}
	return AuthState{User: user, IsAuthenticated: true, IsLoading: false}
}

// Authenticator is the protocol client the store drives.
// *authclient.Client satisfies it.
type Authenticator interface {
	Probe(ctx context.Context) *authclient.UserRecord
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, params authclient.SignupParams) error
	Logout(ctx context.Context) authclient.LogoutResult
}

// Recorder observes completed store operations. The metrics package provides
// a Prometheus implementation.
type Recorder interface {
	Observe(op, outcome string, duration time.Duration)
	SetAuthenticated(authenticated bool)
}

// Store is the single source of truth for authentication state.
//
// Every state change is one whole-value write of an AuthState; subscribers
// never observe a half-applied transition. Mutating operations (login,
// signup, logout) are serialized per store instance, so two overlapping
// calls run one after the other and the store reflects the last one to
// complete. One Store serves the whole process; construct it at bootstrap
// and hand it down.
type Store struct {
	client   Authenticator
	state    *reactive.Signal[AuthState]
	recorder Recorder
	logger   *slog.Logger

	// opMu serializes the mutating operations.
	opMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder sets the operation observer.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store in the initial loading state. The store stays in that
// state until the first Probe (or a login/signup/logout) settles.
func New(client Authenticator, opts ...Option) *Store {
	s := &Store{
		client: client,
		state:  reactive.NewSignal(AuthState{IsLoading: true}).WithEquals(stateEquals),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current authentication state.
func (s *Store) State() AuthState {
	return s.state.Get()
}

// CurrentUser returns the current user, or nil when anonymous or still
// loading.
func (s *Store) CurrentUser() *authclient.UserRecord {
	return s.state.Get().User
}

// Subscribe registers fn to run after every state change and returns a
// cancel function. Safe to call from any number of subscribers.
func (s *Store) Subscribe(fn func(AuthState)) (cancel func()) {
	return s.state.Subscribe(fn)
}

// Probe refreshes the state from the server. It never fails: an unreachable
// or rejecting server settles the store to anonymous, which also resolves
// the initial loading state. Call once at application start.
func (s *Store) Probe(ctx context.Context) {
	start := time.Now()
	user := s.client.Probe(ctx)
	s.commit(authenticated(user))
	s.logger.Debug("sessionkit/store: probe settled", "authenticated", user != nil)

	if s.recorder != nil {
		outcome := "anonymous"
		if user != nil {
			outcome = "authenticated"
		}
		s.recorder.Observe("probe", outcome, time.Since(start))
	}
}

// Login authenticates and, on success, re-probes the session so the state
// carries the server's view of the user before Login returns. On failure the
// prior state is left untouched and the normalized error is returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	if err := s.client.Login(ctx, email, password); err != nil {
		s.record("login", err, start)
		return err
	}

	s.commit(authenticated(s.client.Probe(ctx)))
	s.record("login", nil, start)
	return nil
}

// Signup registers an account and, on success, re-probes the session.
// Failure leaves the prior state untouched, same as Login.
func (s *Store) Signup(ctx context.Context, params authclient.SignupParams) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	if err := s.client.Signup(ctx, params); err != nil {
		s.record("signup", err, start)
		return err
	}

	s.commit(authenticated(s.client.Probe(ctx)))
	s.record("signup", nil, start)
	return nil
}

// Logout invalidates the remote session and resets the state to anonymous.
// The reset is unconditional: it happens whether the server confirmed the
// logout, reported the session already gone, or failed outright. Only an
// outright failure is returned; logging out while anonymous is not an error.
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	res := s.client.Logout(ctx)
	// Reset before inspecting the result: the local view goes anonymous no
	// matter what the server said.
	s.commit(anonymous())
	if res.Status == authclient.LogoutAlreadyAnonymous {
		s.logger.Debug("sessionkit/store: logout on anonymous session")
	}

	if s.recorder != nil {
		outcome := "ok"
		switch res.Status {
		case authclient.LogoutAlreadyAnonymous:
			outcome = "already_anonymous"
		case authclient.LogoutFailed:
			outcome = "failed"
		}
		s.recorder.Observe("logout", outcome, time.Since(start))
	}

	if res.Status == authclient.LogoutFailed {
		return res.Err
	}
	return nil
}

// stateEquals compares states by value so a re-probe that resolves the same
// user through a fresh pointer does not notify subscribers.
func stateEquals(a, b AuthState) bool {
	if a.IsLoading != b.IsLoading || a.IsAuthenticated != b.IsAuthenticated {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}

// commit publishes a new state as one atomic write.
func (s *Store) commit(state AuthState) {
	s.state.Set(state)
	if s.recorder != nil {
		s.recorder.SetAuthenticated(state.IsAuthenticated)
	}
}

// record reports a login/signup outcome to the recorder.
func (s *Store) record(op string, err error, start time.Time) {
	if s.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
		var authErr *authclient.Error
		if errors.As(err, &authErr) {
			outcome = authErr.Kind.String()
		}
	}
	s.recorder.Observe(op, outcome, time.Since(start))
}
