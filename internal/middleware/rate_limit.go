package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 120 // writes per minute per workspace
	DefaultBurstSize = 20

	sweepInterval = 5 * time.Minute
	idleTTL       = 10 * time.Minute
)

// RateLimiter hands each workspace its own token bucket for mutating requests.
type RateLimiter struct {
	perMinute int
	perSecond rate.Limit
	burst     int

	mu      sync.Mutex
	buckets map[int32]*bucket

	stopCh   chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// quota is the outcome of one metered request
type quota struct {
	allowed   bool
	remaining int
	reset     time.Time
}

// NewRateLimiter creates a RateLimiter with the default quota
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter and starts sweeping idle buckets
func NewRateLimiterWithConfig(perMinute, burst int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		perSecond: rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		buckets:   make(map[int32]*bucket),
		stopCh:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow consumes one token for the workspace
func (r *RateLimiter) Allow(workspaceID int32) bool {
	return r.take(workspaceID, time.Now()).allowed
}

func (r *RateLimiter) take(workspaceID int32, now time.Time) quota {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buckets[workspaceID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.perSecond, r.burst)}
		r.buckets[workspaceID] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	// time until the bucket is full again
	refill := time.Duration((float64(r.burst) - tokens) / float64(r.perSecond) * float64(time.Second))
	return quota{allowed: allowed, remaining: int(tokens), reset: now.Add(refill)}
}

// sweep drops buckets idle for longer than idleTTL and reports how many it removed
func (r *RateLimiter) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for workspaceID, b := range r.buckets {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(r.buckets, workspaceID)
			removed++
		}
	}
	return removed
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := r.sweep(now); n > 0 {
				log.Debug().Int("removed", n).Msg("Swept idle rate limiters")
			}
		case <-r.stopCh:
			return
		}
	}
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// WriteRateLimitMiddleware meters mutating requests per workspace.
// Reads and requests without a workspace pass through untouched.
func WriteRateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	limit := strconv.Itoa(rl.perMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			workspaceID := GetWorkspaceID(c)
			if workspaceID == 0 || !isWrite(c.Request().Method) {
				return next(c)
			}

			q := rl.take(workspaceID, time.Now())
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(q.reset.Unix(), 10))

			if q.allowed {
				return next(c)
			}

			retryAfter := int(time.Until(q.reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("X-RateLimit-Remaining", "0")
			h.Set("Retry-After", strconv.Itoa(retryAfter))

			log.Warn().
				Int32("workspace_id", workspaceID).
				Str("path", c.Path()).
				Int("retry_after", retryAfter).
				Msg("Write rate limit exceeded")
			return rateLimitError(c, "Too many changes in a short time, retry in "+strconv.Itoa(retryAfter)+" seconds")
		}
	}
}
