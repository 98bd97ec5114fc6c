package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
)

// NewLimiterWithRedis applies a per-IP sliding window of max requests per
// minute, shared across instances through Redis.
func NewLimiterWithRedis(rdb *redis.Client, max int) fiber.Handler {
	if max <= 0 {
		max = 120
	}
	return limiter.New(limiter.Config{
		Storage:           fiberredis.NewFromConnection(rdb),
		Max:               max,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	})
}
