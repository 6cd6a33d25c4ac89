package authclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

const (
	defaultSessionPath = "/_allauth/browser/v1/auth/session"
	defaultLoginPath   = "/_allauth/browser/v1/auth/login"
	defaultSignupPath  = "/_allauth/browser/v1/auth/signup"
	defaultLogoutPath  = "/_allauth/browser/v1/auth/logout"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 1 << 20

// Doer issues requests against the backend. *transport.Client satisfies it.
type Doer interface {
	Get(ctx context.Context, path string) (*http.Response, error)
	Post(ctx context.Context, path string, body any) (*http.Response, error)
}

// Client speaks the browser-session auth protocol: one read-only session
// probe and three mutating operations. It holds no user state; the store
// owns that.
type Client struct {
	doer   Doer
	logger *slog.Logger

	sessionPath string
	loginPath   string
	signupPath  string
	logoutPath  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSessionPath overrides the session-introspection endpoint path.
func WithSessionPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.sessionPath = path
		}
	}
}

// WithLoginPath overrides the login endpoint path.
func WithLoginPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithSignupPath overrides the signup endpoint path.
func WithSignupPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.signupPath = path
		}
	}
}

// WithLogoutPath overrides the logout endpoint path.
func WithLogoutPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.logoutPath = path
		}
	}
}

// New creates a Client over the given transport.
func New(doer Doer, opts ...Option) *Client {
	c := &Client{
		doer:        doer,
		logger:      slog.Default(),
		sessionPath: defaultSessionPath,
		loginPath:   defaultLoginPath,
		signupPath:  defaultSignupPath,
		logoutPath:  defaultLogoutPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe queries the session endpoint and returns the current user, or nil
// when the session is anonymous. Probe never fails: network errors, non-2xx
// responses and unparsable bodies all normalize to nil, because a failed
// probe is indistinguishable from "never logged in" and is invoked
// unconditionally at startup.
func (c *Client) Probe(ctx context.Context) *UserRecord {
	resp, err := c.doer.Get(ctx, c.sessionPath)
	if err != nil {
		c.logger.Debug("sessionkit/authclient: probe failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.Debug("sessionkit/authclient: probe body read failed", "error", err)
		return nil
	}

	user, err := decodeSessionPayload(body)
	if err != nil {
		c.logger.Debug("sessionkit/authclient: probe payload unparsable", "error", err)
		return nil
	}

	// A non-2xx probe response is anonymous even if a body decoded.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}
	return user
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with the given credentials. On rejection or transport
// failure it returns an *Error carrying a human-readable message; the caller
// decides what state change, if any, follows.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.mutate(ctx, "login", c.loginPath, Credentials{Email: email, Password: password})
}

// SignupParams is the signup request. When Username is empty and name parts
// are present, a username is synthesized from them.
type SignupParams struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username,omitempty"`
}

// Signup registers a new account. Same failure contract as Login.
func (c *Client) Signup(ctx context.Context, params SignupParams) error {
	if params.Username == "" {
		params.Username = DeriveUsername(params.FirstName, params.LastName)
	}
	return c.mutate(ctx, "signup", c.signupPath, params)
}

// LogoutStatus classifies the outcome of a Logout call.
type LogoutStatus int

const (
	// LogoutOK means the server invalidated the session.
	LogoutOK LogoutStatus = iota

	// LogoutAlreadyAnonymous means the server reported no session to
	// invalidate. Callers treat this the same as LogoutOK.
	LogoutAlreadyAnonymous

	// LogoutFailed means the call failed for any other reason.
	LogoutFailed
)

// LogoutResult is the outcome of a Logout call. Err is non-nil only when
// Status is LogoutFailed.
type LogoutResult struct {
	Status LogoutStatus
	Err    error
}

// OK reports whether the session is gone on the server, either because this
// call removed it or because it was never there.
func (r LogoutResult) OK() bool {
	return r.Status == LogoutOK || r.Status == LogoutAlreadyAnonymous
}

// Logout asks the server to invalidate the session. An unauthorized response
// means the session was already gone and is not a failure.
func (c *Client) Logout(ctx context.Context) LogoutResult {
	resp, err := c.doer.Post(ctx, c.logoutPath, nil)
	if err != nil {
		return LogoutResult{Status: LogoutFailed, Err: newNetworkError("logout", err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return LogoutResult{Status: LogoutOK}
	case resp.StatusCode == http.StatusUnauthorized:
		return LogoutResult{Status: LogoutAlreadyAnonymous}
	default:
		return LogoutResult{
			Status: LogoutFailed,
			Err:    normalizeRejection("logout", resp.StatusCode, body),
		}
	}
}

// mutate posts a JSON body and normalizes any failure.
func (c *Client) mutate(ctx context.Context, op, path string, payload any) error {
	resp, err := c.doer.Post(ctx, path, payload)
	if err != nil {
		return newNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if readErr != nil {
			return &Error{
				Kind:    KindMalformed,
				Message: op + " response could not be read",
				Status:  resp.StatusCode,
				cause:   readErr,
			}
		}
		return nil
	}

	return normalizeRejection(op, resp.StatusCode, body)
}
