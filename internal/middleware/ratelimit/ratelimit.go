package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is an in-memory token bucket keyed by client IP, used to slow
// down automated junk submissions before they reach the scorer.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxTokens  float64
	refillRate float64 // tokens per second
}

func New(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}

	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		maxTokens:  float64(perMinute),
		refillRate: float64(perMinute) / 60.0,
	}

	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.allow(c.IP()) {
			logger.Warn("Submission rate limited", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many submissions. Try again later.",
			})
		}
		return c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.maxTokens, lastRefill: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.refillRate
	if b.tokens > rl.maxTokens {
		b.tokens = rl.maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)

		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastRefill.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
