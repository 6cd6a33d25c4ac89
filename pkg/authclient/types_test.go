package authclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSessionPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *UserRecord
		wantErr bool
	}{
		{
			name: "envelope with user",
			body: `{"status": 200, "data": {"user": {"id": 1, "email": "a@b.com", "username": "ab", "display": "A B"}}}`,
			want: &UserRecord{ID: 1, Email: "a@b.com", Username: "ab", DisplayName: "A B"},
		},
		{
			name: "envelope embedded 401 wins over HTTP success",
			body: `{"status": 401, "data": {"user": {"id": 1, "email": "a@b.com"}}}`,
			want: nil,
		},
		{
			name: "envelope meta anonymous",
			body: `{"status": 200, "data": {"user": {"id": 1, "email": "a@b.com"}}, "meta": {"is_authenticated": false}}`,
			want: nil,
		},
		{
			name: "envelope without user",
			body: `{"status": 200, "data": {}}`,
			want: nil,
		},
		{
			name: "flat user",
			body: `{"id": 9, "email": "f@g.com", "username": "fg"}`,
			want: &UserRecord{ID: 9, Email: "f@g.com", Username: "fg"},
		},
		{
			name: "flat user with string id",
			body: `{"id": "9", "email": "f@g.com"}`,
			want: &UserRecord{ID: 9, Email: "f@g.com"},
		},
		{
			name: "flat user email_verified alias",
			body: `{"id": 2, "email": "v@w.com", "email_verified": true}`,
			want: &UserRecord{ID: 2, Email: "v@w.com", EmailVerified: true},
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "null body",
			body: "null",
			want: nil,
		},
		{
			name: "empty object",
			body: `{}`,
			want: nil,
		},
		{
			name:    "malformed",
			body:    `{"status":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSessionPayload([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"first and last", []string{"Jane", "Doe"}, "jane-doe"},
		{"single part", []string{"Jane"}, "jane"},
		{"empty parts dropped", []string{"", "Doe"}, "doe"},
		{"inner whitespace collapsed", []string{"Mary Ann", "van Dyke"}, "mary-ann-van-dyke"},
		{"surrounding whitespace trimmed", []string{"  Jane  ", "Doe"}, "jane-doe"},
		{"all empty", []string{"", ""}, ""},
		{"no parts", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveUsername(tt.parts...))
		})
	}
}
