package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/phrazzld/taskr-api/internal/platform/logger"
	"golang.org/x/time/rate"
)

// RateLimitedMessage is the response body of a throttled request.
const RateLimitedMessage = "Too many requests, please try again later"

// RateLimitObserver records throttled requests.
type RateLimitObserver interface {
	ObserveRateLimited(limiter string)
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client IP with a token bucket per client.
// Idle entries are evicted by a background loop until Stop is called.
type RateLimiter struct {
	name            string
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration
	observer        RateLimitObserver
	now             func() time.Time

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

const defaultCleanupInterval = 5 * time.Minute

// RateLimiterOption customizes a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimitObserver reports every rejected request to o.
func WithRateLimitObserver(o RateLimitObserver) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.observer = o
	}
}

// WithCleanupInterval sets how often idle clients are evicted. Non-positive
// values keep the default.
func WithCleanupInterval(d time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) {
		if d > 0 {
			rl.cleanupInterval = d
		}
	}
}

// NewRateLimiter creates a limiter allowing perMinute requests per client,
// with bursts of up to burst requests.
func NewRateLimiter(name string, perMinute, burst int, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		name:            name,
		limit:           rate.Limit(float64(perMinute) / 60.0),
		burst:           burst,
		cleanupInterval: defaultCleanupInterval,
		now:             time.Now,
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	return rl
}

// NewLoginRateLimiter creates the limiter guarding the login endpoint.
func NewLoginRateLimiter(cfg config.RateLimitConfig, opts ...RateLimiterOption) *RateLimiter {
	return NewRateLimiter("login", cfg.LoginPerMinute, cfg.LoginBurst, opts...)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if rl.get(key).Allow() {
			next.ServeHTTP(w, r)
			return
		}

		logger.FromContext(r.Context()).Warn("rate limit exceeded",
			"limiter", rl.name,
			"client", key)
		if rl.observer != nil {
			rl.observer.ObserveRateLimited(rl.name)
		}

		w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
		shared.RespondWithError(w, r, http.StatusTooManyRequests, RateLimitedMessage)
	})
}

// ClientCount returns the number of clients currently tracked.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = rl.now()
	return cl.limiter
}

// retryAfterSeconds estimates how long until one token is refilled.
func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.limit <= 0 {
		return 60
	}
	return max(1, int(math.Ceil(1.0/float64(rl.limit))))
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for longer than twice the cleanup interval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.cleanupInterval * 2
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}

// clientKey identifies the caller by IP. chi's RealIP middleware has already
// rewritten RemoteAddr from the forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
