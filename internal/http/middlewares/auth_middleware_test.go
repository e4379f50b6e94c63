package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/placeshare/internal/auth"
	"github.com/geocoder89/placeshare/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) VerifyAccessToken(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   *fakeVerifier
		wantStatus int
		wantUserID string
	}{
		{
			name:       "valid_token",
			header:     "Bearer good-token",
			verifier:   &fakeVerifier{claims: &auth.Claims{UserID: "u1", Email: "max@example.com"}},
			wantStatus: http.StatusOK,
			wantUserID: "u1",
		},
		{
			name:       "missing_header",
			header:     "",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not_bearer",
			header:     "Basic dXNlcjpwYXNz",
			verifier:   &fakeVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected_token",
			header:     "Bearer bad-token",
			verifier:   &fakeVerifier{err: errors.New("expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string

			r := gin.New()
			r.Use(middlewares.ErrorHandler())
			r.Use(middlewares.NewAuthMiddleware(tt.verifier).RequireAuth())
			r.GET("/secure", func(c *gin.Context) {
				gotUserID, _ = middlewares.UserIDFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if gotUserID != tt.wantUserID {
				t.Fatalf("got user id %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}
