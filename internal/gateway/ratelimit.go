package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	autherror "github.com/stybayev/graduate-work/internal/errors"
	"github.com/stybayev/graduate-work/internal/kv"
)

// Limiter is a fixed-window rate limiter over the shared counter store.
// Requests are counted per client per minute-of-hour bucket; the key
// TTL slightly under one window lets counters expire on their own.
// Known tradeoff of fixed windows: a client can burst up to twice the
// ceiling across a window boundary.
type Limiter struct {
	store  kv.Store
	limit  int64
	keyTTL time.Duration
	log    zerolog.Logger

	now func() time.Time
}

func NewLimiter(store kv.Store, limitPerMinute, keyTTLSeconds int, log zerolog.Logger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  int64(limitPerMinute),
		keyTTL: time.Duration(keyTTLSeconds) * time.Second,
		log:    log,
		now:    time.Now,
	}
}

// Count atomically increments the client's counter for the current
// window and returns the post-increment value.
func (l *Limiter) Count(ctx context.Context, clientID string) (int64, error) {
	key := fmt.Sprintf("%s:%d", clientID, l.now().Minute())

	count, err := l.store.Incr(ctx, key, l.keyTTL)
	if err != nil {
		return 0, fmt.Errorf("%w: rate limit counter: %v", autherror.ErrUpstreamUnavailable, err)
	}

	return count, nil
}

// Middleware rejects over-budget clients with 429 before any proxying
// happens.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.IP()

		count, err := l.Count(c.UserContext(), clientIP)
		if err != nil {
			return err
		}

		l.log.Info().Str("client_ip", clientIP).Int64("request_number", count).Msg("rate limit check")

		if count > l.limit {
			l.log.Warn().Str("client_ip", clientIP).Msg("rate limit exceeded")
			return autherror.ErrRateLimited
		}

		return c.Next()
	}
}
