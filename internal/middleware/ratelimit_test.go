package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedServer(spec LimiterSpec) *echo.Echo {
	e := echo.New()
	e.GET("/probe", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, RateLimiter(spec))
	return e
}

func TestRateLimiter_DeniesAfterQuota(t *testing.T) {
	e := limitedServer(AuthLimiter)

	for i := 0; i < AuthLimiter.Max; i++ {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])
	assert.Equal(t, float64(900), body["retryAfter"])
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
}

func TestWindowStore_SpacedRequestsStayCapped(t *testing.T) {
	current := time.Unix(1000, 0)
	store := newWindowStore(2*time.Second, 2)
	store.now = func() time.Time { return current }

	for i := 0; i < 2; i++ {
		ok, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok, "request %d should pass", i+1)
	}

	// Spacing requests out inside the window must not refill the quota
	current = current.Add(1200 * time.Millisecond)
	ok, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh window starts once the previous one has fully elapsed
	current = current.Add(900 * time.Millisecond)
	ok, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_SeparateClientsHaveSeparateQuotas(t *testing.T) {
	e := limitedServer(AuthLimiter)

	for i := 0; i < AuthLimiter.Max; i++ {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_SetsPolicyHeaders(t *testing.T) {
	e := limitedServer(LimiterSpec{Name: "test", Window: time.Minute, Max: 3})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "3;w=60", rec.Header().Get("RateLimit-Policy"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}
