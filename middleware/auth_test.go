package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func protected(roles ...string) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := GetSubjectFromContext(r.Context())
		w.Header().Set("X-Subject", sub)
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(testSecret)(Authorize(roles...)(final))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	valid := jwt.MapClaims{"sub": "organizer", "role": "organizer", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name       string
		header     string
		roles      []string
		wantStatus int
	}{
		{name: "no header", header: "", roles: []string{"organizer"}, wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", roles: []string{"organizer"}, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", roles: []string{"organizer"}, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", valid), roles: []string{"organizer"}, wantStatus: http.StatusUnauthorized},
		{
			name:       "expired",
			header:     "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "organizer", "role": "organizer", "exp": time.Now().Add(-time.Hour).Unix()}),
			roles:      []string{"organizer"},
			wantStatus: http.StatusUnauthorized,
		},
		{name: "wrong role", header: "Bearer " + signToken(t, testSecret, valid), roles: []string{"admin"}, wantStatus: http.StatusForbidden},
		{name: "ok", header: "Bearer " + signToken(t, testSecret, valid), roles: []string{"organizer"}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(tt.roles...).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, "organizer", rec.Header().Get("X-Subject"))
			}
		})
	}
}
