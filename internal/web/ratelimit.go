package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"voiceverse-signup/internal/metrics"
)

const (
	limiterIdle     = 10 * time.Minute
	limiterPruneMin = 1024
)

// ClientRateLimiter keeps one token bucket per client address
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows perMinute requests per client with the given burst
func NewClientRateLimiter(perMinute, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether the client may proceed now
func (l *ClientRateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[client]
	if !ok {
		if len(l.limiters) >= limiterPruneMin {
			l.pruneLocked(now)
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *ClientRateLimiter) pruneLocked(now time.Time) {
	for client, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdle {
			delete(l.limiters, client)
		}
	}
}

const rateLimitedMessage = "Too many requests. Please wait a moment and try again."

// Middleware rejects API clients over their budget with a JSON 429
func (l *ClientRateLimiter) Middleware(next http.Handler) http.Handler {
	return l.limit(next, func(w http.ResponseWriter) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:   "rate_limited",
			Message: rateLimitedMessage,
		})
	})
}

// PageMiddleware rejects HTML form posts over budget with a plain text 429
func (l *ClientRateLimiter) PageMiddleware(next http.Handler) http.Handler {
	return l.limit(next, func(w http.ResponseWriter) {
		http.Error(w, rateLimitedMessage, http.StatusTooManyRequests)
	})
}

func (l *ClientRateLimiter) limit(next http.Handler, reject func(w http.ResponseWriter)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientKey(r)) {
			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", "60")
			reject(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
