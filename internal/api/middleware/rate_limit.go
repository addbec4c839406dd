package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"signedsubmit/internal/pkg/errors"
)

// RateLimiter is a per-client token bucket refilled at perMinute tokens per minute.
type RateLimiter struct {
	store     *sync.Map // map[client]*Bucket
	perMinute int
	now       func() time.Time
}

type Bucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
	lastAccess time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		store:     &sync.Map{},
		perMinute: perMinute,
		now:       time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	val, _ := rl.store.LoadOrStore(key, &Bucket{
		tokens:     rl.perMinute,
		lastRefill: now,
		lastAccess: now,
	})

	bucket := val.(*Bucket)
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.lastAccess = now

	elapsed := now.Sub(bucket.lastRefill)
	refillTokens := int(elapsed.Seconds() * float64(rl.perMinute) / 60.0)

	if refillTokens > 0 {
		bucket.tokens += refillTokens
		if bucket.tokens > rl.perMinute {
			bucket.tokens = rl.perMinute
		}
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}

	return false
}

// Sweep drops buckets that have not been used for idle.
func (rl *RateLimiter) Sweep(idle time.Duration) {
	now := rl.now()
	rl.store.Range(func(key, value interface{}) bool {
		bucket := value.(*Bucket)
		bucket.mu.Lock()
		if now.Sub(bucket.lastAccess) > idle {
			rl.store.Delete(key)
		}
		bucket.mu.Unlock()
		return true
	})
}

func (rl *RateLimiter) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(60/max(rl.perMinute, 1)+1))
			errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
