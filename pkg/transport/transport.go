package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for SessionKit transports.
const defaultTracerName = "sessionkit"

const (
	defaultCSRFHeader    = "X-CSRFToken"
	defaultCSRFCookie    = "csrftoken"
	defaultCSRFTokenPath = "/_allauth/browser/v1/config"
	defaultTimeout       = 30 * time.Second
)

// Client issues HTTP requests against a cookie-session backend.
//
// Every request carries the cookie jar so server-side sessions are honored.
// Mutating requests (anything other than GET, HEAD, OPTIONS, TRACE) carry the
// anti-forgery token header; the token is fetched lazily from the token
// endpoint and cached until Invalidate is called.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer

	csrfHeader string
	csrfCookie string
	csrfPath   string

	// tokenMu serializes token fetches so concurrent mutating requests
	// trigger at most one fetch.
	tokenMu sync.Mutex
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. A cookie jar is installed
// if the client does not already have one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCSRFHeader sets the header name used to carry the anti-forgery token.
func WithCSRFHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.csrfHeader = name
		}
	}
}

// WithCSRFCookie sets the cookie name the token endpoint stores the token in.
func WithCSRFCookie(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.csrfCookie = name
		}
	}
}

// WithCSRFTokenPath sets the path of the token endpoint.
func WithCSRFTokenPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.csrfPath = path
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracerName sets the OpenTelemetry tracer name.
func WithTracerName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.tracer = otel.Tracer(name)
		}
	}
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid base URL %q: %w", baseURL, err)
	}

	c := &Client{
		base:       base,
		logger:     slog.Default(),
		tracer:     otel.Tracer(defaultTracerName),
		csrfHeader: defaultCSRFHeader,
		csrfCookie: defaultCSRFCookie,
		csrfPath:   defaultCSRFTokenPath,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("transport: cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get issues a GET request to path. No anti-forgery token is attached.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request to path with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Do issues a request against the backend. A non-nil body is encoded as JSON.
// For mutating methods, the anti-forgery token is resolved first and attached
// as a header; if the token cannot be obtained, the request is still sent
// without the header and the server decides its fate.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	ctx, span := c.tracer.Start(ctx, "transport.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			span.SetStatus(codes.Error, "encode")
			span.RecordError(err)
			return nil, fmt.Errorf("transport: encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		span.SetStatus(codes.Error, "build")
		span.RecordError(err)
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if isMutating(method) {
		// Token resolution must finish before header construction; the
		// request never races ahead of the token fetch.
		token, err := c.csrfToken(ctx)
		if err != nil {
			c.logger.Debug("sessionkit/transport: token fetch failed, sending without header",
				"method", method, "path", path, "error", err)
		} else if token != "" {
			req.Header.Set(c.csrfHeader, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport")
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

// Invalidate drops the cached anti-forgery token. The next mutating request
// fetches a fresh one.
func (c *Client) Invalidate() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

// csrfToken returns the cached token, fetching it from the token endpoint on
// first use.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(c.csrfPath), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transport: token endpoint %s returned %d", c.csrfPath, resp.StatusCode)
	}

	token := c.extractToken(resp)
	if token == "" {
		return "", fmt.Errorf("transport: no token in %s response", c.csrfPath)
	}

	c.token = token
	return token, nil
}

// extractToken pulls the token out of a token-endpoint response. The endpoint
// may set it as a cookie, embed it in a small JSON document, or return it as
// bare text; all three shapes are accepted.
func (c *Client) extractToken(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.csrfCookie && cookie.Value != "" {
			return cookie.Value
		}
	}
	if c.httpClient.Jar != nil {
		for _, cookie := range c.httpClient.Jar.Cookies(c.base) {
			if cookie.Name == c.csrfCookie && cookie.Value != "" {
				return cookie.Value
			}
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return ""
	}

	var doc struct {
		Token     string `json:"token"`
		CSRFToken string `json:"csrftoken"`
	}
	if err := json.Unmarshal(body, &doc); err == nil {
		if doc.Token != "" {
			return doc.Token
		}
		if doc.CSRFToken != "" {
			return doc.CSRFToken
		}
	}

	text := strings.TrimSpace(string(body))
	if text != "" && !strings.ContainsAny(text, "{}<> \n") {
		return text
	}
	return ""
}

// resolve joins path onto the base URL.
func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

// isMutating reports whether method requires the anti-forgery header.
func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}
