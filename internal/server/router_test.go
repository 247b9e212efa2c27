package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/auth"
	"github.com/studydesk/backend/internal/cache"
	"github.com/studydesk/backend/internal/config"
	"github.com/studydesk/backend/internal/generator"
	"github.com/studydesk/backend/internal/models"
	"go.uber.org/zap"
)

const testSecret = "router-test-secret-with-enough-length"

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		JWT:       config.JWTConfig{Secret: testSecret, ExpireHours: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, WindowMinutes: 1},
	}
	svc := NewServices(nil, cache.New(nil, time.Minute), generator.New(generator.NewMockClient(), "mock"), zap.NewNop())
	return NewRouter(ctx, cfg, svc, zap.NewNop())
}

func bearer(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := auth.GenerateToken(&models.User{ID: 5, Email: "a@b.com", Role: role}, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Health(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Protection(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		target string
		auth   string
		want   int
	}{
		{"no token", http.MethodGet, "/api/v1/subjects", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/dashboard/performance", "Bearer nope", http.StatusUnauthorized},
		{"student on admin route", http.MethodGet, "/api/v1/admin/questions", bearer(t, models.RoleStudent), http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", bearer(t, models.RoleStudent), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
