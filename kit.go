package sessionkit

import (
	"log/slog"
	"net/http"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
	"github.com/sessionkit-dev/sessionkit/pkg/config"
	"github.com/sessionkit-dev/sessionkit/pkg/guard"
	"github.com/sessionkit-dev/sessionkit/pkg/metrics"
	"github.com/sessionkit-dev/sessionkit/pkg/store"
	"github.com/sessionkit-dev/sessionkit/pkg/transport"
)

// Kit is the assembled session-auth client: transport, protocol client, and
// the state store, wired once at bootstrap and handed down to consumers.
// Construct exactly one per process.
type Kit struct {
	Transport *transport.Client
	Client    *authclient.Client
	Store     *store.Store
}

// Option configures a Kit.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	recorder   store.Recorder
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithRecorder sets the store's operation observer, overriding the
// Prometheus recorder the Metrics config flag would install.
func WithRecorder(r store.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// New assembles a Kit from configuration. The store starts in the loading
// state; call Kit.Store.Probe once at application start to settle it.
func New(cfg config.Config, opts ...Option) (*Kit, error) {
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	tc, err := transport.New(cfg.BaseURL,
		transport.WithHTTPClient(o.httpClient),
		transport.WithCSRFHeader(cfg.CSRFHeader),
		transport.WithCSRFCookie(cfg.CSRFCookie),
		transport.WithCSRFTokenPath(cfg.CSRFTokenPath),
		transport.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	client := authclient.New(tc,
		authclient.WithLogger(o.logger),
		authclient.WithSessionPath(cfg.SessionPath),
		authclient.WithLoginPath(cfg.LoginPath),
		authclient.WithSignupPath(cfg.SignupPath),
		authclient.WithLogoutPath(cfg.LogoutPath),
	)

	recorder := o.recorder
	if recorder == nil && cfg.Metrics {
		recorder = metrics.New()
	}

	storeOpts := []store.Option{store.WithLogger(o.logger)}
	if recorder != nil {
		storeOpts = append(storeOpts, store.WithRecorder(recorder))
	}

	return &Kit{
		Transport: tc,
		Client:    client,
		Store:     store.New(client, storeOpts...),
	}, nil
}

// RequireAuth returns HTTP middleware guarding a handler with the kit's
// store. See guard.RequireAuth.
func (k *Kit) RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return guard.RequireAuth(k.Store, loginURL)
}
