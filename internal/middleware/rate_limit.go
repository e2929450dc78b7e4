package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/deppfellow/handyman-api/internal/errs"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	rateLimitKeyPrefix = "ratelimit:"
	rateLimitTimeout   = 500 * time.Millisecond
)

// RedisRateLimiterStore is a fixed window counter per identifier, shared by
// every instance of the API through Redis. It implements
// middleware.RateLimiterStore.
//
// Redis failures let the request through: a broken limiter must not take
// the auth endpoints down with it.
type RedisRateLimiterStore struct {
	requests int
	window   time.Duration
	logger   *zerolog.Logger

	now  func() time.Time
	incr func(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

func NewRedisRateLimiterStore(client *redis.Client, requests int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		requests: requests,
		window:   window,
		logger:   logger,
		now:      time.Now,
		incr: func(ctx context.Context, key string, ttl time.Duration) (int64, error) {
			pipe := client.TxPipeline()
			count := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, ttl)
			if _, err := pipe.Exec(ctx); err != nil {
				return 0, err
			}
			return count.Val(), nil
		},
	}
}

// Allow counts one request for identifier in the current window.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitTimeout)
	defer cancel()

	windowIndex := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, windowIndex)

	count, err := s.incr(ctx, key, s.window)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("identifier", identifier).
			Msg("rate limiter unavailable, allowing request")
		return true, nil
	}

	return count <= int64(s.requests), nil
}

// RetryAfter is the number of whole seconds until the current window ends.
func (s *RedisRateLimiterStore) RetryAfter() int {
	elapsed := time.Duration(s.now().UnixNano() % int64(s.window))
	return int(math.Ceil((s.window - elapsed).Seconds()))
}

type RateLimitMiddleware struct {
	server *server.Server
	store  *RedisRateLimiterStore
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	cfg := s.Config.Server.RateLimit
	return &RateLimitMiddleware{
		server: s,
		store:  NewRedisRateLimiterStore(s.Redis, cfg.Requests, cfg.Window, s.Logger),
	}
}

// RecordRateLimitHit reports a rejected request to New Relic as a custom
// event. A no-op without New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// Limit throttles a route group per client IP. It is a pass-through when
// rate limiting is disabled in the configuration.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	enabled := r.server.Config.Server.RateLimit.Enabled

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return !enabled
		},
		Store: r.store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Could not identify client", nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())

			GetLogger(c).Warn().
				Str("function", "RateLimit").
				Str("identifier", identifier).
				Msg("rate limit exceeded")

			c.Response().Header().Set("Retry-After", strconv.Itoa(r.store.RetryAfter()))
			return errs.NewTooManyRequestsError("Too many requests, please try again later")
		},
	})
}
