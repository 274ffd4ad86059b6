package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{"disabled", "", "Bearer anything", http.StatusServiceUnavailable, false},
		{"no header", "secret-key", "", http.StatusUnauthorized, false},
		{"wrong scheme", "secret-key", "Basic secret-key", http.StatusUnauthorized, false},
		{"empty bearer", "secret-key", "Bearer ", http.StatusUnauthorized, false},
		{"wrong key", "secret-key", "Bearer nope", http.StatusForbidden, false},
		{"valid", "secret-key", "Bearer secret-key", http.StatusOK, true},
		{"case-insensitive scheme", "secret-key", "bearer secret-key", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if !IsAdminFromContext(r.Context()) {
					t.Error("expected admin flag in context")
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/admin/report-requests", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAdminKey(tt.apiKey)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantNext {
				t.Errorf("next called = %v, want %v", called, tt.wantNext)
			}
		})
	}
}

func TestIsAdminFromContext_DefaultFalse(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if IsAdminFromContext(req.Context()) {
		t.Error("expected false without WithAdmin")
	}
}
