// Package ratelimit implements a fixed-window request limiter keyed by
// client, used to throttle the sensitive account endpoints.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter tracks request counts per key over fixed windows. Once a key
// exhausts its allowance, further requests are rejected without advancing the
// counter until the window expires.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration

	stop chan struct{}
	once sync.Once
}

// New creates a limiter allowing limit requests per key every period and
// starts a background sweeper for expired windows.
func New(limit int, period time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		stop:    make(chan struct{}),
	}

	go l.sweep()

	return l
}

// Allow reports whether the key may perform another request in the current
// window. The first request of a window starts it; requests past the limit
// are rejected and do not extend or refill the window.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		l.clients[key] = &window{count: 1, resetAt: now.Add(l.period)}
		return true
	}

	if w.count >= l.limit {
		return false
	}

	w.count++
	return true
}

// Stop terminates the background sweeper. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() {
		close(l.stop)
	})
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, w := range l.clients {
				if now.After(w.resetAt) {
					delete(l.clients, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware adapts the limiter to a fiber handler. keyFn derives the client
// key from the request and defaults to the remote IP; onLimit runs when the
// allowance is exhausted.
func (l *Limiter) Middleware(keyFn func(*fiber.Ctx) string, onLimit fiber.Handler) fiber.Handler {
	if keyFn == nil {
		keyFn = func(c *fiber.Ctx) string {
			return c.IP()
		}
	}

	if onLimit == nil {
		onLimit = func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"ok":      false,
				"message": "Too many requests, please try again later",
			})
		}
	}

	return func(c *fiber.Ctx) error {
		if !l.Allow(keyFn(c)) {
			return onLimit(c)
		}
		return c.Next()
	}
}
