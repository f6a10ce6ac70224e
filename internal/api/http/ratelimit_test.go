package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ghostname-service/internal/observability"
)

func TestLimiterStore_ReusesLimiterPerKey(t *testing.T) {
	s := NewLimiterStore(1, 1)

	a := s.Get("a@example.com")
	assert.Same(t, a, s.Get("a@example.com"))
	assert.NotSame(t, a, s.Get("b@example.com"))
	assert.Equal(t, 2, s.Len())
}

func TestLimiterStore_CleanupDropsIdleKeys(t *testing.T) {
	s := NewLimiterStore(1, 1, WithIdleTTL(time.Nanosecond))
	s.Get("a@example.com")
	time.Sleep(time.Millisecond)

	s.Cleanup()
	assert.Equal(t, 0, s.Len())
}

func TestLimiterStore_RetryAfter(t *testing.T) {
	assert.Equal(t, 1, NewLimiterStore(5, 1).retryAfterSeconds())
	assert.Equal(t, 4, NewLimiterStore(0.25, 1).retryAfterSeconds())
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/", RateLimit(NewLimiterStore(0.5, 1)), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(fiber.HeaderRetryAfter))
}
