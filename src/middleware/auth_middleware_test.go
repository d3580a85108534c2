package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	valid := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(42),
		"name":    "Alice",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": float64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(42),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	noUserID := signToken(t, testSecret, jwt.MapClaims{
		"name": "Alice",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID int64
	}{
		{name: "valid token", authHeader: "Bearer " + valid, wantStatus: http.StatusOK, wantUserID: 42},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong signing key", authHeader: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "missing user_id claim", authHeader: "Bearer " + noUserID, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = r.Context().Value("user_id").(int64)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/wallets", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			JWTAuthMiddleware(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != tt.wantUserID {
				t.Errorf("user_id in context = %d, want %d", gotUserID, tt.wantUserID)
			}
		})
	}
}
