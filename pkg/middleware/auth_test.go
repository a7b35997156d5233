package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yucheng/tripledger/internal/identity"
)

func TestAuthPutsIdentityInContext(t *testing.T) {
	issuer := identity.NewIssuer("test-secret")
	token, want, err := issuer.IssueGuest()
	if err != nil {
		t.Fatalf("IssueGuest: %v", err)
	}

	var got identity.Identity
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetIdentity(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Auth(issuer)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok || got != want {
		t.Errorf("context identity = %+v (ok=%v), want %+v", got, ok, want)
	}
}

func TestAuthRejectsBadRequests(t *testing.T) {
	issuer := identity.NewIssuer("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a valid token")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(issuer)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}
