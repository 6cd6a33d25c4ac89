package authclient

import (
	"encoding/json"
	"strings"
)

// UserRecord is the normalized view of the authenticated user.
// It is replaced wholesale on every successful probe, never mutated field by
// field.
type UserRecord struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	DisplayName   string `json:"display,omitempty"`
	EmailVerified bool   `json:"has_verified_email,omitempty"`
}

// rawUser tolerates the id arriving as a number or a string.
type rawUser struct {
	ID            json.Number `json:"id"`
	Email         string      `json:"email"`
	Username      string      `json:"username"`
	Display       string      `json:"display"`
	HasVerified   *bool       `json:"has_verified_email"`
	EmailVerified *bool       `json:"email_verified"`
}

func (r *rawUser) record() *UserRecord {
	u := &UserRecord{
		Email:       r.Email,
		Username:    r.Username,
		DisplayName: r.Display,
	}
	if id, err := r.ID.Int64(); err == nil {
		u.ID = id
	}
	if r.HasVerified != nil {
		u.EmailVerified = *r.HasVerified
	} else if r.EmailVerified != nil {
		u.EmailVerified = *r.EmailVerified
	}
	return u
}

func (r *rawUser) empty() bool {
	return r.ID == "" && r.Email == "" && r.Username == ""
}

// envelope is the nested session payload shape:
// {"status": 200, "data": {"user": {...}}, "meta": {"is_authenticated": true}}.
type envelope struct {
	Status json.Number `json:"status"`
	Data   *struct {
		User *rawUser `json:"user"`
	} `json:"data"`
	Meta *struct {
		IsAuthenticated *bool `json:"is_authenticated"`
	} `json:"meta"`
}

// decodeSessionPayload normalizes the two session payload shapes the backend
// may produce, an envelope or a flat user object, into a UserRecord or nil
// for anonymous. The raw shape does not leak past this function.
func decodeSessionPayload(body []byte) (*UserRecord, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	if env.Data != nil || env.Meta != nil || env.Status != "" {
		// Envelope variant. The embedded status wins over the HTTP status:
		// anonymous sessions arrive as HTTP 200 with {"status": 401}.
		if status, err := env.Status.Int64(); err == nil && status != 0 && (status < 200 || status > 299) {
			return nil, nil
		}
		if env.Meta != nil && env.Meta.IsAuthenticated != nil && !*env.Meta.IsAuthenticated {
			return nil, nil
		}
		if env.Data == nil || env.Data.User == nil || env.Data.User.empty() {
			return nil, nil
		}
		return env.Data.User.record(), nil
	}

	// Flat user variant.
	var flat rawUser
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, err
	}
	if flat.empty() {
		return nil, nil
	}
	return flat.record(), nil
}
