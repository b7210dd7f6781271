package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cafe_login_total",
			Help: "Total number of login attempts",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Authentication/authorization error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "no_token", "token_expired", "cross_tenant", ...
	)

	// Feature denial counter by cafe and feature key
	FeatureDenialCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_feature_denials_total",
			Help: "Total number of requests denied by feature entitlement",
		},
		[]string{"cafe_id", "feature"},
	)

	// Subscription change counter
	SubscriptionChangeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_subscription_changes_total",
			Help: "Total number of subscription plan/status changes",
		},
		[]string{"action"},
	)

	// Impersonation counter
	ImpersonationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_impersonations_total",
			Help: "Total number of super-admin impersonation sessions",
		},
		[]string{"action"}, // "STARTED" or "ENDED"
	)

	// Rate limit rejection counter
	RateLimitCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_rate_limit_rejections_total",
			Help: "Total number of requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Order operation counter
	OrderOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active cafes
	ActiveCafesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cafe_active_cafes",
			Help: "Number of cafes with an active subscription",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cafe_info",
			Help: "Information about the cafe API service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(FeatureDenialCounter)
	prometheus.MustRegister(SubscriptionChangeCounter)
	prometheus.MustRegister(ImpersonationCounter)
	prometheus.MustRegister(RateLimitCounter)
	prometheus.MustRegister(OrderOperationCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveCafesGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication or authorization error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordFeatureDenial records a feature entitlement denial
func RecordFeatureDenial(cafeID uint, feature string) {
	FeatureDenialCounter.With(prometheus.Labels{
		"cafe_id": strconv.FormatUint(uint64(cafeID), 10),
		"feature": feature,
	}).Inc()
}

// RecordSubscriptionChange records a subscription audit action
func RecordSubscriptionChange(action string) {
	SubscriptionChangeCounter.With(prometheus.Labels{"action": action}).Inc()
}

// RecordImpersonation records an impersonation session event
func RecordImpersonation(action string) {
	ImpersonationCounter.With(prometheus.Labels{"action": action}).Inc()
}

// RecordRateLimitRejection records a request denied by the named limiter
func RecordRateLimitRejection(limiter string) {
	RateLimitCounter.With(prometheus.Labels{"limiter": limiter}).Inc()
}

// RecordOrderOperation records an order operation
func RecordOrderOperation(operation string) {
	OrderOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// SetActiveCafes records the current number of cafes with an active
// subscription
func SetActiveCafes(count int64) {
	ActiveCafesGauge.Set(float64(count))
}
