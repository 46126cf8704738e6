package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trolleyseal/auth"
	"trolleyseal/models"
)

func TestAuthMiddlewareInjectsUser(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	token, err := m.GenerateToken(&models.AppUser{ID: "user-1", Name: "Ops Staff", Email: "ops@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got *models.AppUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthMiddleware(m)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || got.ID != "user-1" || got.Name != "Ops Staff" {
		t.Errorf("context user = %+v", got)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	m := auth.NewJWTManager("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without valid auth")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/flights", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		AuthMiddleware(m)(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tc.name, rec.Code)
		}
	}
}
