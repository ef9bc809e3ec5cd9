package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()
	l := New(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestAllowWithinBurst(t *testing.T) {
	l := newTestLimiter(t, Config{RPS: 1, Burst: 3, CleanupInterval: time.Hour})
	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("10.0.0.1"), "request %d should be allowed", i)
	}
	require.False(t, l.Allow("10.0.0.1"))
}

func TestClientsAreIndependent(t *testing.T) {
	l := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})
	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"))
}

func TestCleanupDropsIdleClients(t *testing.T) {
	l := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Nanosecond})
	l.Allow("10.0.0.1")
	require.Equal(t, 1, l.Len())

	time.Sleep(time.Millisecond)
	l.Cleanup()
	require.Equal(t, 0, l.Len())
}

func TestMiddleware(t *testing.T) {
	l := newTestLimiter(t, Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})
	handler := Middleware(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))

	// a different IP on the same port is a different bucket
	other := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	other.RemoteAddr = "10.0.0.2:54321"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	require.Equal(t, http.StatusOK, rec.Code)
}
