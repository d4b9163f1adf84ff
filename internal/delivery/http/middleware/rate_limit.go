package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per authenticated user. It smooths
// bursts such as double clicks and does not deduplicate anything.
type RateLimiter struct {
	mu      sync.Mutex
	perUser map[uuid.UUID]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		perUser: make(map[uuid.UUID]*limiterEntry),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		now:     time.Now,
	}
}

// Middleware must run after the auth middleware.
func (l *RateLimiter) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if !l.Allow(id.ID) {
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests, slow down", nil, nil)
		}
		return c.Next()
	}
}

func (l *RateLimiter) Allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.perUser[userID]
	if !ok {
		l.sweepLocked(now)
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.perUser[userID] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *RateLimiter) sweepLocked(now time.Time) {
	for id, e := range l.perUser {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.perUser, id)
		}
	}
}
