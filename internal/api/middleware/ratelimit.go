package middleware

import (
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ClaimLimiter holds one token bucket per customer for the claim route.
// It is a platform-level abuse control, independent of the domain cooldown.
type ClaimLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	header  string
}

// NewClaimLimiter allows perMinute claims with the given burst per customer
// identified by the named header.
func NewClaimLimiter(perMinute, burst int, header string) *ClaimLimiter {
	return &ClaimLimiter{
		buckets: map[string]*rate.Limiter{},
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		header:  header,
	}
}

func (l *ClaimLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.buckets[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = limiter
	}
	return limiter
}

func (l *ClaimLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(l.header)
		if key == "" {
			// Anonymous requests are rejected downstream; share one bucket.
			key = "anonymous"
		}
		if !l.limiterFor(key).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
