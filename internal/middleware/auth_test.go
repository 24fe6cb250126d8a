package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runIdentity(t *testing.T, authHeader string) string {
	t.Helper()

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	Identity(testSecret)(next).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestIdentity_AttachesSubject(t *testing.T) {
	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if got := runIdentity(t, "Bearer "+token); got != "user-42" {
		t.Errorf("expected user-42, got %q", got)
	}
}

func TestIdentity_NoHeaderPassesThrough(t *testing.T) {
	if got := runIdentity(t, ""); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}

func TestIdentity_InvalidTokenPassesThrough(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret", jwt.MapClaims{"sub": "user-42", "exp": time.Now().Add(time.Hour).Unix()})},
		{"no subject", "Bearer " + signedToken(t, testSecret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runIdentity(t, tt.header); got != "" {
				t.Errorf("expected empty user id, got %q", got)
			}
		})
	}
}
