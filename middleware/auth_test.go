package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"ardu.app/feed/models"
)

const secret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	tok, exp, err := IssueToken(secret, models.User{ID: 7, Role: models.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("expiry = %s", exp)
	}
	c, err := ParseToken(secret, tok)
	if err != nil || c.UserID != 7 || !c.IsAdmin() || c.Subject != "7" {
		t.Fatalf("claims = %+v, err = %v", c, err)
	}
	if _, err := ParseToken("other", tok); err == nil {
		t.Fatalf("wrong secret accepted")
	}
}

func TestParseRejectsExpiredAndNone(t *testing.T) {
	expired, _, _ := IssueToken(secret, models.User{ID: 1, Role: models.RoleMember}, -time.Minute)
	if _, err := ParseToken(secret, expired); err == nil {
		t.Fatalf("expired token accepted")
	}

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseToken(secret, unsigned); err == nil {
		t.Fatalf("alg none accepted")
	}
}

func TestGates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	member, _, _ := IssueToken(secret, models.User{ID: 2, Role: models.RoleMember}, time.Hour)
	admin, _, _ := IssueToken(secret, models.User{ID: 1, Role: models.RoleAdmin}, time.Hour)

	tests := []struct {
		name   string
		gate   func(http.Handler) http.Handler
		header string
		want   int
	}{
		{"anonymous auth", RequireAuth, "", http.StatusUnauthorized},
		{"member auth", RequireAuth, "Bearer " + member, http.StatusTeapot},
		{"garbage token", RequireAuth, "Bearer abc", http.StatusUnauthorized},
		{"basic scheme", RequireAuth, "Basic abc", http.StatusUnauthorized},
		{"member admin", RequireAdmin, "Bearer " + member, http.StatusForbidden},
		{"admin admin", RequireAdmin, "Bearer " + admin, http.StatusTeapot},
		{"anonymous admin", RequireAdmin, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticate(secret)(tt.gate(ok))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
