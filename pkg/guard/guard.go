package guard

import (
	"net/http"
	"net/url"

	"github.com/sessionkit-dev/sessionkit/pkg/store"
)

// Decision is the single outcome a guarded view renders.
type Decision int

const (
	// ShowLoading renders the loading placeholder. Chosen whenever the
	// first probe has not settled, regardless of what the state claims
	// about authentication, so protected content never flashes early.
	ShowLoading Decision = iota

	// RedirectToLogin navigates to the login view.
	RedirectToLogin

	// ShowContent renders the protected content.
	ShowContent
)

// String returns the name of the decision.
func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "loading"
	case RedirectToLogin:
		return "redirect-to-login"
	case ShowContent:
		return "content"
	default:
		return "unknown"
	}
}

// Decide maps an authentication state to exactly one decision.
// IsLoading is checked before IsAuthenticated.
func Decide(state store.AuthState) Decision {
	if state.IsLoading {
		return ShowLoading
	}
	if !state.IsAuthenticated {
		return RedirectToLogin
	}
	return ShowContent
}

// StateSource provides read access to the current authentication state.
// *store.Store satisfies it.
type StateSource interface {
	State() store.AuthState
}

// RequireAuth returns standard HTTP middleware guarding a handler with the
// same tri-state: a request during the initial probe is answered 503 with
// Retry-After, an anonymous request is redirected to loginURL carrying the
// original path in the "next" query parameter, and an authenticated request
// passes through.
func RequireAuth(src StateSource, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Decide(src.State()) {
			case ShowLoading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session state not yet known", http.StatusServiceUnavailable)
			case RedirectToLogin:
				http.Redirect(w, r, withNext(loginURL, r.URL.Path), http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// withNext appends the original path as the "next" query parameter.
func withNext(loginURL, path string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return loginURL
	}
	q := u.Query()
	q.Set("next", path)
	u.RawQuery = q.Encode()
	return u.String()
}
