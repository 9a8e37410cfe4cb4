package limiter

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
)

// KeyFunc derives the rate-limit key for an incoming request.
type KeyFunc func(*http.Request) string

// RemoteAddrKey keys requests by the client IP, falling back to the raw
// RemoteAddr when it carries no port.
func RemoteAddrKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type deniedBody struct {
	Error     string `json:"error"`
	Remaining int    `json:"remaining"`
}

// Middleware wraps next with per-key rate limiting, consuming one token per
// request. The remaining budget is exposed on X-RateLimit-Remaining; denied
// requests are answered with 429 and a JSON body. A nil keyFn keys requests
// by client IP.
func Middleware(l *Limiter, keyFn KeyFunc, next http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = RemoteAddrKey
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		granted, remaining := l.Reduce(keyFn(r), 1)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !granted {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(deniedBody{Error: "rate limit exceeded", Remaining: remaining})
			return
		}
		next.ServeHTTP(w, r)
	})
}
