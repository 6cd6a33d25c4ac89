package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
	"github.com/sessionkit-dev/sessionkit/pkg/store"
)

type staticSource struct {
	state store.AuthState
}

func (s staticSource) State() store.AuthState { return s.state }

func TestDecide(t *testing.T) {
	user := &authclient.UserRecord{ID: 1, Email: "a@b.com"}

	tests := []struct {
		name  string
		state store.AuthState
		want  Decision
	}{
		{
			name:  "loading before anything else",
			state: store.AuthState{IsLoading: true},
			want:  ShowLoading,
		},
		{
			// Loading wins even over a claimed authentication, so content
			// cannot flash before the first probe settles.
			name:  "loading wins over authenticated",
			state: store.AuthState{User: user, IsAuthenticated: true, IsLoading: true},
			want:  ShowLoading,
		},
		{
			name:  "anonymous redirects",
			state: store.AuthState{},
			want:  RedirectToLogin,
		},
		{
			name:  "authenticated shows content",
			state: store.AuthState{User: user, IsAuthenticated: true},
			want:  ShowContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state))
		})
	}
}

func TestRequireAuthLoading(t *testing.T) {
	mw := RequireAuth(staticSource{store.AuthState{IsLoading: true}}, "/login")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler ran during loading")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRequireAuthAnonymousRedirects(t *testing.T) {
	mw := RequireAuth(staticSource{store.AuthState{}}, "/login")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler ran for anonymous request")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", rec.Header().Get("Location"))
}

func TestRequireAuthAuthenticatedPassesThrough(t *testing.T) {
	src := staticSource{store.AuthState{
		User:            &authclient.UserRecord{ID: 1, Email: "a@b.com"},
		IsAuthenticated: true,
	}}
	mw := RequireAuth(src, "/login")
	rec := httptest.NewRecorder()

	ran := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.True(t, ran)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "loading", ShowLoading.String())
	assert.Equal(t, "redirect-to-login", RedirectToLogin.String())
	assert.Equal(t, "content", ShowContent.String())
}
