package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gorodok-inc/gorodok/internal/infrastructure/ratelimit"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.Any("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func serve(r http.Handler, method string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/x", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		configured string
		presented  string
		wantStatus int
	}{
		{name: "not configured", configured: "", presented: "s3cret", wantStatus: http.StatusInternalServerError},
		{name: "missing header", configured: "s3cret", presented: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", configured: "s3cret", presented: "nope", wantStatus: http.StatusUnauthorized},
		{name: "plain match", configured: "s3cret", presented: "s3cret", wantStatus: http.StatusOK},
		{name: "bcrypt match", configured: string(hash), presented: "s3cret", wantStatus: http.StatusOK},
		{name: "bcrypt mismatch", configured: string(hash), presented: string(hash), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAdminTokenMiddleware(tt.configured, logger.NewNopLogger())
			header := http.Header{}
			if tt.presented != "" {
				header.Set(AdminTokenHeader, tt.presented)
			}
			w := serve(newEngine(mw.RequireAdmin()), http.MethodGet, header)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(nil))

	w := serve(r, http.MethodOptions, http.Header{"Origin": {"https://app.example.org"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Token")

	w = serve(r, http.MethodGet, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	restricted := newEngine(CORS([]string{"https://admin.example.org"}))
	w = serve(restricted, http.MethodGet, http.Header{"Origin": {"https://admin.example.org"}})
	assert.Equal(t, "https://admin.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	w = serve(restricted, http.MethodGet, http.Header{"Origin": {"https://evil.example.org"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := serve(r, http.MethodGet, http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = serve(r, http.MethodGet, nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, http.Header{AdminTokenHeader: {"s3cret"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"internal server error"}`, w.Body.String())
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string, _ ratelimit.Window) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func (f *fakeLimiter) GetCount(context.Context, string, ratelimit.Window) (int64, error) {
	return 0, nil
}

func (f *fakeLimiter) Reset(context.Context, string) error { return nil }

func TestRateLimit(t *testing.T) {
	window := ratelimit.Window{Limit: 1, Period: time.Minute}

	limiter := &fakeLimiter{allowed: false}
	w := serve(newEngine(RateLimit(limiter, "ingest", window, logger.NewNopLogger())), http.MethodPost, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "ingest:192.0.2.1", limiter.keys[0])

	limiter = &fakeLimiter{err: errors.New("redis down")}
	w = serve(newEngine(RateLimit(limiter, "ingest", window, logger.NewNopLogger())), http.MethodPost, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
