package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherror "github.com/stybayev/graduate-work/internal/errors"
)

// countingStore tracks per-key counters in memory.
type countingStore struct {
	mu       sync.Mutex
	counters map[string]int64
	lastTTL  time.Duration
	failIncr error
}

func newCountingStore() *countingStore {
	return &countingStore{counters: make(map[string]int64)}
}

func (s *countingStore) Set(_ context.Context, key, _ string, _ time.Duration) error {
	return nil
}

func (s *countingStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.counters[key]
	return ok, nil
}

func (s *countingStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIncr != nil {
		return 0, s.failIncr
	}
	s.counters[key]++
	s.lastTTL = ttl
	return s.counters[key], nil
}

func newLimiterApp(limiter *Limiter) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: autherror.Handler})
	app.Use(limiter.Middleware())
	app.All("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestLimiterAllowsUpToBudget(t *testing.T) {
	store := newCountingStore()
	limiter := NewLimiter(store, 20, 59, zerolog.Nop())
	limiter.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	}

	app := newLimiterApp(limiter)

	for i := 0; i < 20; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/films", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d should pass", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/films", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	assert.Equal(t, 59*time.Second, store.lastTTL)
}

// A new minute window starts a fresh counter even when the old one has
// not expired yet.
func TestLimiterResetsOnNewWindow(t *testing.T) {
	store := newCountingStore()
	limiter := NewLimiter(store, 1, 59, zerolog.Nop())

	current := time.Date(2024, 6, 1, 12, 30, 59, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	app := newLimiterApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	current = current.Add(time.Second)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLimiterCounterKeyPerMinute(t *testing.T) {
	store := newCountingStore()
	limiter := NewLimiter(store, 20, 59, zerolog.Nop())
	limiter.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 42, 0, 0, time.UTC)
	}

	_, err := limiter.Count(context.Background(), "198.51.100.7")
	require.NoError(t, err)

	_, ok := store.counters["198.51.100.7:42"]
	assert.True(t, ok, "counter key should be clientID:minute")
}

func TestLimiterStoreOutage(t *testing.T) {
	store := newCountingStore()
	store.failIncr = errors.New("connection refused")
	limiter := NewLimiter(store, 20, 59, zerolog.Nop())

	app := newLimiterApp(limiter)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
