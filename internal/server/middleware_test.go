package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func TestCorrelationID(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/health", nil, "")
	assert.Len(t, rec.Header().Get("X-Correlation-ID"), 8)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodOptions, "/api/portfolio", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(common.NewSilentLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestBearerMiddleware_PassesAnonymous(t *testing.T) {
	var seen *common.UserContext
	handler := bearerTokenMiddleware(common.NewDefaultConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = common.UserContextFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestBearerMiddleware_WrongSecret(t *testing.T) {
	srv := newTestServer(t)
	user := &models.InternalUser{UserID: "u1", Email: "u1@example.com", Role: models.RoleUser}
	token, err := signJWT(user, &common.AuthConfig{JWTSecret: "not-the-server-secret", TokenExpiry: "1h"})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/api/portfolio", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWriteServiceError(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", models.ErrInvalidHolding), http.StatusBadRequest},
		{fmt.Errorf("%w: bad", models.ErrInvalidGoal), http.StatusBadRequest},
		{fmt.Errorf("%w: bad", models.ErrInvalidOption), http.StatusBadRequest},
		{fmt.Errorf("x: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", models.ErrNoMetadata), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: disk", models.ErrSaveFailed), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.writeServiceError(rec, tt.err, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSplitCSVAndQueryInt(t *testing.T) {
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"AAPL", "MSFT"}, splitCSV(" AAPL, ,MSFT "))

	req := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&neg=-2", nil)
	v, ok := queryInt(req, "limit", 0)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	v, ok = queryInt(req, "missing", 7)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = queryInt(req, "bad", 0)
	assert.False(t, ok)
	_, ok = queryInt(req, "neg", 0)
	assert.False(t, ok)
}

func TestLoginLimiter(t *testing.T) {
	l := newLoginLimiter(1, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.7:5555"

	assert.True(t, l.allow(req))
	assert.False(t, l.allow(req))

	other := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	other.RemoteAddr = "198.51.100.8:5555"
	assert.True(t, l.allow(other), "limits are per client")

	assert.True(t, newLoginLimiter(0, false).allow(req), "zero disables limiting")
}

func TestLoginLimiter_IgnoresForwardedForByDefault(t *testing.T) {
	l := newLoginLimiter(1, false)

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		if l.allow(req) {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed, "rotating X-Forwarded-For must not reset the limit")
	assert.Equal(t, 1, l.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.7:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "198.51.100.7", clientIP(req, false))
	assert.Equal(t, "203.0.113.9", clientIP(req, true))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "198.51.100.7", clientIP(req, true))
}

func TestLoginLimiter_EvictsIdleEntries(t *testing.T) {
	l := newLoginLimiter(1, true)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.1.%d", i))
		l.allow(req)
	}
	assert.Equal(t, 50, l.size())

	now = now.Add(limiterIdleTTL + time.Minute)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.2.1")
	assert.True(t, l.allow(req))
	assert.Equal(t, 1, l.size())
}

func TestLoginLimiter_CapsEntries(t *testing.T) {
	l := newLoginLimiter(1, true)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}

	for i := 0; i < maxLimiterEntries+10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.%d.%d.%d", i>>16&0xff, i>>8&0xff, i&0xff))
		l.allow(req)
	}
	assert.LessOrEqual(t, l.size(), maxLimiterEntries)
}
