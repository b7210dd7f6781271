package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// LimiterSpec is a named windowed quota keyed by client IP.
type LimiterSpec struct {
	Name   string
	Window time.Duration
	Max    int
}

// The four platform limiters.
var (
	GeneralLimiter = LimiterSpec{Name: "general", Window: 15 * time.Minute, Max: 100}
	AuthLimiter    = LimiterSpec{Name: "auth", Window: 15 * time.Minute, Max: 5}
	UploadLimiter  = LimiterSpec{Name: "upload", Window: 60 * time.Minute, Max: 10}
	APILimiter     = LimiterSpec{Name: "api", Window: 15 * time.Minute, Max: 200}
)

// windowStore counts requests per client in fixed windows. The window
// resets only once it has fully elapsed, so at most Max requests pass per
// window however the client spaces them.
type windowStore struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	now    func() time.Time
	seen   map[string]*clientWindow
}

type clientWindow struct {
	start time.Time
	count int
}

func newWindowStore(window time.Duration, max int) *windowStore {
	return &windowStore{
		window: window,
		max:    max,
		now:    time.Now,
		seen:   make(map[string]*clientWindow),
	}
}

// Allow implements echomiddleware.RateLimiterStore.
func (s *windowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.seen[identifier]
	if w == nil || now.Sub(w.start) >= s.window {
		if len(s.seen) > 10000 {
			s.sweep(now)
		}
		w = &clientWindow{start: now}
		s.seen[identifier] = w
	}
	if w.count >= s.max {
		return false, nil
	}
	w.count++
	return true, nil
}

// sweep drops clients whose window has elapsed. Caller holds the lock.
func (s *windowStore) sweep(now time.Time) {
	for id, w := range s.seen {
		if now.Sub(w.start) >= s.window {
			delete(s.seen, id)
		}
	}
}

// RateLimiter builds an Echo middleware enforcing the quota with an
// in-memory fixed-window counter per client IP. Counters are per-process
// and not shared across replicas. Responses carry standard RateLimit-*
// headers; the legacy X-RateLimit-* form is not emitted.
func RateLimiter(spec LimiterSpec) echo.MiddlewareFunc {
	windowSeconds := int(spec.Window.Seconds())

	limiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: newWindowStore(spec.Window, spec.Max),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "unable to identify client",
				"code":  "RATE_LIMIT_IDENTIFIER",
			})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			prometheus.RecordRateLimitRejection(spec.Name)
			c.Response().Header().Set("Retry-After", strconv.Itoa(windowSeconds))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "too many requests, please try again later",
				"code":       "RATE_LIMIT_EXCEEDED",
				"retryAfter": windowSeconds,
			})
		},
	})

	policy := fmt.Sprintf("%d;w=%d", spec.Max, windowSeconds)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Set("RateLimit-Limit", strconv.Itoa(spec.Max))
			header.Set("RateLimit-Policy", policy)
			return limiter(next)(c)
		}
	}
}
