package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDoer issues plain requests against a test server, standing in for the
// transport wrapper.
type testDoer struct {
	base string
}

func (d *testDoer) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+path, nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}

func (d *testDoer) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.base+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return http.DefaultClient.Do(req)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(&testDoer{base: srv.URL}, opts...)
}

func TestProbeAuthenticatedEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 200, "data": {"user": {"id": 7, "email": "a@b.com", "username": "ab"}}, "meta": {"is_authenticated": true}}`))
	}))

	user := c.Probe(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "ab", user.Username)
}

func TestProbeAnonymousEnvelope(t *testing.T) {
	// allauth reports anonymous as HTTP 200 with an embedded 401 status.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 401, "data": {}, "meta": {"is_authenticated": false}}`))
	}))

	assert.Nil(t, c.Probe(context.Background()))
}

func TestProbeFlatUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "42", "email": "x@y.com", "username": "xy", "has_verified_email": true}`))
	}))

	user := c.Probe(context.Background())
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.ID)
	assert.True(t, user.EmailVerified)
}

func TestProbeServerErrorIsAnonymous(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	assert.Nil(t, c.Probe(context.Background()))
}

func TestProbeNetworkErrorIsAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := New(&testDoer{base: srv.URL})
	assert.Nil(t, c.Probe(context.Background()))
}

func TestProbeMalformedBodyIsAnonymous(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	assert.Nil(t, c.Probe(context.Background()))
}

func TestLoginSuccess(t *testing.T) {
	var got Credentials
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status": 200, "meta": {"is_authenticated": true}}`))
	}))

	require.NoError(t, c.Login(context.Background(), "a@b.com", "secret"))
	assert.Equal(t, Credentials{Email: "a@b.com", Password: "secret"}, got)
}

func TestLoginRejectedErrorsArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"message": "Invalid credentials"}]}`))
	}))

	err := c.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var authErr *Error
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, KindRejected, authErr.Kind)
	assert.Equal(t, "Invalid credentials", authErr.Message)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
}

func TestLoginRejectedSingleMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Account locked"}`))
	}))

	err := c.Login(context.Background(), "a@b.com", "pw")
	assert.EqualError(t, err, "Account locked")
}

func TestLoginRejectedRawText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))

	err := c.Login(context.Background(), "a@b.com", "pw")
	assert.EqualError(t, err, "upstream unavailable")
}

func TestLoginNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(&testDoer{base: srv.URL})
	err := c.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var authErr *Error
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, KindNetwork, authErr.Kind)
}

func TestSignupDerivesUsername(t *testing.T) {
	var got SignupParams
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status": 200}`))
	}))

	err := c.Signup(context.Background(), SignupParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Password:  "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", got.Username)
}

func TestSignupKeepsExplicitUsername(t *testing.T) {
	var got SignupParams
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	err := c.Signup(context.Background(), SignupParams{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Password:  "pw",
		Username:  "janed",
	})
	require.NoError(t, err)
	assert.Equal(t, "janed", got.Username)
}

func TestLogoutOK(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	res := c.Logout(context.Background())
	assert.Equal(t, LogoutOK, res.Status)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err)
}

func TestLogoutUnauthorizedIsAlreadyAnonymous(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": 401, "meta": {"is_authenticated": false}}`))
	}))

	res := c.Logout(context.Background())
	assert.Equal(t, LogoutAlreadyAnonymous, res.Status)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err)
}

func TestLogoutServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "session backend down"}`))
	}))

	res := c.Logout(context.Background())
	assert.Equal(t, LogoutFailed, res.Status)
	assert.False(t, res.OK())
	assert.EqualError(t, res.Err, "session backend down")
}

func TestLogoutNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(&testDoer{base: srv.URL})
	res := c.Logout(context.Background())
	assert.Equal(t, LogoutFailed, res.Status)
	require.Error(t, res.Err)

	var authErr *Error
	require.True(t, errors.As(res.Err, &authErr))
	assert.Equal(t, KindNetwork, authErr.Kind)
}

func TestCustomPaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"status": 200}`))
	}),
		WithSessionPath("/api/session"),
		WithLoginPath("/api/login"),
		WithSignupPath("/api/signup"),
		WithLogoutPath("/api/logout"),
	)

	ctx := context.Background()
	c.Probe(ctx)
	c.Login(ctx, "a@b.com", "pw")
	c.Signup(ctx, SignupParams{Email: "a@b.com", Password: "pw", Username: "ab"})
	c.Logout(ctx)

	assert.Equal(t, []string{"/api/session", "/api/login", "/api/signup", "/api/logout"}, paths)
}
