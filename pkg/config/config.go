// Package config loads SessionKit configuration from the environment.
//
// Values come from environment variables via github.com/caarlos0/env; a .env
// file is loaded first when present so development setups need no exported
// variables. The base URL is the only deployment-specific value; everything
// else defaults to the browser-session API shape.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the SessionKit client configuration.
type Config struct {
	// BaseURL is the origin of the auth backend, e.g. "http://localhost:8000"
	// in development or the deployed API origin in production.
	BaseURL string `env:"SESSIONKIT_BASE_URL" envDefault:"http://localhost:8000"`

	// CSRFHeader is the header name carrying the anti-forgery token on
	// mutating requests.
	CSRFHeader string `env:"SESSIONKIT_CSRF_HEADER" envDefault:"X-CSRFToken"`

	// CSRFCookie is the cookie name the backend stores the token in.
	CSRFCookie string `env:"SESSIONKIT_CSRF_COOKIE" envDefault:"csrftoken"`

	// CSRFTokenPath is the endpoint the token is fetched from.
	CSRFTokenPath string `env:"SESSIONKIT_CSRF_TOKEN_PATH" envDefault:"/_allauth/browser/v1/config"`

	// SessionPath is the session-introspection endpoint.
	SessionPath string `env:"SESSIONKIT_SESSION_PATH" envDefault:"/_allauth/browser/v1/auth/session"`

	// LoginPath is the login endpoint.
	LoginPath string `env:"SESSIONKIT_LOGIN_PATH" envDefault:"/_allauth/browser/v1/auth/login"`

	// SignupPath is the signup endpoint.
	SignupPath string `env:"SESSIONKIT_SIGNUP_PATH" envDefault:"/_allauth/browser/v1/auth/signup"`

	// LogoutPath is the logout endpoint.
	LogoutPath string `env:"SESSIONKIT_LOGOUT_PATH" envDefault:"/_allauth/browser/v1/auth/logout"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"SESSIONKIT_TIMEOUT" envDefault:"30s"`

	// Metrics enables the Prometheus recorder on the store.
	Metrics bool `env:"SESSIONKIT_METRICS" envDefault:"false"`
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *Config) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base URL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("config: base URL %q must be http or https", c.BaseURL)
	}
	return nil
}

// Load reads configuration from the environment, consulting a .env file
// first when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("config: load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
