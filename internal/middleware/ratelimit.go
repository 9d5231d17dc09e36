package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"inkwell/internal/httputil"
)

// Limiter decides whether a client may make another request. When the
// answer is no, retryAfter says how long until the oldest counted request
// falls out of the window.
type Limiter interface {
	Allow(clientID string) (allowed bool, retryAfter time.Duration)
}

// SlidingWindow is an in-memory sliding-window limiter: at most max
// requests per client within the trailing window.
type SlidingWindow struct {
	window time.Duration
	max    int

	mu      sync.Mutex
	clients map[string][]time.Time
	now     func() time.Time
}

// NewSlidingWindow creates a limiter allowing max requests per window.
func NewSlidingWindow(window time.Duration, max int) *SlidingWindow {
	return &SlidingWindow{
		window:  window,
		max:     max,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records the request when permitted and prunes expired entries.
func (l *SlidingWindow) Allow(clientID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.clients[clientID][:0]
	for _, t := range l.clients[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.clients[clientID] = recent
		return false, recent[0].Sub(cutoff)
	}

	l.clients[clientID] = append(recent, now)
	return true, 0
}

// RateLimit rejects clients over their request budget with 429 and a
// Retry-After header.
func RateLimit(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.Allow(clientID(r))
			if !allowed {
				seconds := int(retryAfter.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				httputil.RespondError(w, http.StatusTooManyRequests, "Too many requests.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientID picks the best available client address, preferring proxy
// headers over the socket peer.
func clientID(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
