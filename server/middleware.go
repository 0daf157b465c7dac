package server

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	httprateredis "github.com/go-chi/httprate-redis"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for the rate limiter.
type RateLimitConfig struct {
	RequestLimit   int
	WindowDuration time.Duration
	RedisClient    *redis.Client // Optional Redis client for distributed rate limiting
}

// DefaultRateLimitConfig limits to 60 requests per minute per IP; every
// request can trigger a PDF download, so the ceiling sits low.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestLimit:   60,
		WindowDuration: time.Minute,
	}
}

// RateLimit returns a middleware that rate limits requests per IP address.
func RateLimit(config RateLimitConfig) func(next http.Handler) http.Handler {
	if config.RequestLimit == 0 {
		defaults := DefaultRateLimitConfig()
		defaults.RedisClient = config.RedisClient
		config = defaults
	}
	if config.WindowDuration == 0 {
		config.WindowDuration = time.Minute
	}

	limitHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit exceeded","status_code":429}`))
	}

	options := []httprate.Option{
		httprate.WithLimitHandler(limitHandler),
		httprate.WithKeyByRealIP(),
	}

	if config.RedisClient != nil {
		options = append(options, httprateredis.WithRedisLimitCounter(&httprateredis.Config{
			Client:    config.RedisClient,
			PrefixKey: "paperoutline:ratelimit",
		}))
	}

	return httprate.NewRateLimiter(config.RequestLimit, config.WindowDuration, options...).Handler
}
