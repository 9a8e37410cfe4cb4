package limiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	clk := newManualClock()
	l, err := New(2, time.Second, 1, WithClock(clk))
	require.NoError(t, err)

	handler := Middleware(l, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body deniedBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body.Error)
	assert.Equal(t, 0, body.Remaining)
}

func TestMiddleware_KeysByClientIP(t *testing.T) {
	l, err := New(1, time.Minute, 1)
	require.NoError(t, err)

	handler := Middleware(l, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	// same IP, different source port: same budget
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:2222"))
	// different IP: fresh budget
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
}

func TestMiddleware_CustomKeyFunc(t *testing.T) {
	l, err := New(1, time.Minute, 1)
	require.NoError(t, err)

	byAPIKey := func(r *http.Request) string { return r.Header.Get("X-Api-Key") }
	handler := Middleware(l, byAPIKey, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Api-Key", key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("alpha"))
	assert.Equal(t, http.StatusTooManyRequests, do("alpha"))
	assert.Equal(t, http.StatusOK, do("beta"))
}
