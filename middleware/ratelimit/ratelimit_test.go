package ratelimit

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowFixedWindow(t *testing.T) {
	l := New(5, time.Minute)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("client-a"), "request %d should pass", i+1)
	}

	assert.False(t, l.Allow("client-a"), "6th request should be rejected")
	assert.False(t, l.Allow("client-a"), "rejections should not refill the window")
}

func TestAllowPerKeyIsolation(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-b"), "another client keeps its own allowance")
}

func TestAllowWindowReset(t *testing.T) {
	l := New(2, 50*time.Millisecond)
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	time.Sleep(70 * time.Millisecond)

	assert.True(t, l.Allow("client-a"), "count should reset after the window elapses")
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	app := fiber.New()
	app.Post("/guarded", l.Middleware(func(c *fiber.Ctx) string { return "fixed-key" }, nil),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"ok":false`)
}
