package authtest

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sessionkit-dev/sessionkit/pkg/authclient"
)

const (
	sessionCookie = "sessionid"
	csrfCookie    = "csrftoken"
	csrfHeader    = "X-CSRFToken"
)

// account is a seeded or signed-up user plus its password.
type account struct {
	user     authclient.UserRecord
	password string
}

// Backend is an in-memory stand-in for a browser-session auth backend. It
// serves the session, login, signup and logout endpoints with the same
// envelope and error shapes, issues session cookies, and enforces the
// anti-forgery token on mutating routes (double-submit: header must match
// the token cookie).
//
// Backend implements http.Handler; wrap it in httptest.NewServer for tests
// or serve it directly for local development.
type Backend struct {
	router chi.Router

	mu       sync.Mutex
	accounts map[string]*account // by email
	sessions map[string]string   // session ID -> email
	nextID   int64
}

// New creates an empty Backend.
func New() *Backend {
	b := &Backend{
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
		nextID:   1,
	}

	r := chi.NewRouter()
	r.Get("/_allauth/browser/v1/config", b.handleConfig)
	r.Get("/_allauth/browser/v1/auth/session", b.handleSession)
	r.Post("/_allauth/browser/v1/auth/login", b.requireCSRF(b.handleLogin))
	r.Post("/_allauth/browser/v1/auth/signup", b.requireCSRF(b.handleSignup))
	r.Post("/_allauth/browser/v1/auth/logout", b.requireCSRF(b.handleLogout))
	b.router = r

	return b
}

// ServeHTTP dispatches to the backend routes.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Seed registers an account without going through signup. A zero ID is
// assigned the next free one. Returns the stored record.
func (b *Backend) Seed(user authclient.UserRecord, password string) authclient.UserRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	if user.ID == 0 {
		user.ID = b.nextID
	}
	if user.ID >= b.nextID {
		b.nextID = user.ID + 1
	}
	b.accounts[strings.ToLower(user.Email)] = &account{user: user, password: password}
	return user
}

// SessionCount returns the number of live sessions.
func (b *Backend) SessionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

// handleConfig issues the anti-forgery token as a cookie.
func (b *Backend) handleConfig(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: csrfCookie, Value: token, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]any{"status": 200})
}

// requireCSRF enforces the double-submit check on mutating routes.
func (b *Backend) requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(csrfCookie)
		if err != nil || cookie.Value == "" || r.Header.Get(csrfHeader) != cookie.Value {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"message": "CSRF token missing or incorrect",
			})
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleSession(w http.ResponseWriter, r *http.Request) {
	if user, ok := b.currentUser(r); ok {
		writeEnvelope(w, http.StatusOK, &user)
		return
	}
	writeEnvelope(w, http.StatusUnauthorized, nil)
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds authclient.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeErrors(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	b.mu.Lock()
	acct, ok := b.accounts[strings.ToLower(creds.Email)]
	if !ok || acct.password != creds.Password {
		b.mu.Unlock()
		writeErrors(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	user := acct.user
	sessionID := uuid.NewString()
	b.sessions[sessionID] = strings.ToLower(creds.Email)
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionID, Path: "/", HttpOnly: true})
	writeEnvelope(w, http.StatusOK, &user)
}

func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var params authclient.SignupParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeErrors(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if params.Email == "" || params.Password == "" {
		writeErrors(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	b.mu.Lock()
	if _, exists := b.accounts[strings.ToLower(params.Email)]; exists {
		b.mu.Unlock()
		writeErrors(w, http.StatusBadRequest, "A user is already registered with this email address.")
		return
	}

	user := authclient.UserRecord{
		ID:          b.nextID,
		Email:       params.Email,
		Username:    params.Username,
		DisplayName: strings.TrimSpace(params.FirstName + " " + params.LastName),
	}
	b.nextID++
	b.accounts[strings.ToLower(params.Email)] = &account{user: user, password: params.Password}

	sessionID := uuid.NewString()
	b.sessions[sessionID] = strings.ToLower(params.Email)
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sessionID, Path: "/", HttpOnly: true})
	writeEnvelope(w, http.StatusOK, &user)
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		writeEnvelope(w, http.StatusUnauthorized, nil)
		return
	}

	b.mu.Lock()
	_, ok := b.sessions[cookie.Value]
	delete(b.sessions, cookie.Value)
	b.mu.Unlock()

	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, nil)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeEnvelope(w, http.StatusOK, nil)
}

// currentUser resolves the session cookie to a user.
func (b *Backend) currentUser(r *http.Request) (authclient.UserRecord, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return authclient.UserRecord{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	email, ok := b.sessions[cookie.Value]
	if !ok {
		return authclient.UserRecord{}, false
	}
	acct, ok := b.accounts[email]
	if !ok {
		return authclient.UserRecord{}, false
	}
	return acct.user, true
}

// writeEnvelope writes the session envelope shape. A nil user means
// anonymous and mirrors the status into the body.
func writeEnvelope(w http.ResponseWriter, status int, user *authclient.UserRecord) {
	body := map[string]any{
		"status": status,
		"data":   map[string]any{},
		"meta":   map[string]any{"is_authenticated": user != nil},
	}
	if user != nil {
		body["data"] = map[string]any{"user": map[string]any{
			"id":                 user.ID,
			"email":              user.Email,
			"username":           user.Username,
			"display":            user.DisplayName,
			"has_verified_email": user.EmailVerified,
		}}
	}
	writeJSON(w, status, body)
}

// writeErrors writes the {errors: [{message}]} failure shape.
func writeErrors(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status": status,
		"errors": []map[string]string{{"message": message}},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
