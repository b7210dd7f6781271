package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "palm-cafe-api",
	})
}

// ServerTime returns the current server time. Unauthenticated; clients use
// it to detect clock drift.
func ServerTime(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"serverTime": time.Now().UTC().Format(time.RFC3339),
	})
}

// MetricsHandler serves the Prometheus metrics endpoint
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
