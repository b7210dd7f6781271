package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
)

// AnalyticsHandler serves the nightly daily-metrics aggregates.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// Daily returns the cafe's daily metrics over a date range, defaulting to
// the last 30 days.
func (h *AnalyticsHandler) Daily(c echo.Context) error {
	cafe := middleware.Cafe(c)

	to := time.Now().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	if value, err := time.Parse("2006-01-02", c.QueryParam("from")); err == nil {
		from = value
	}
	if value, err := time.Parse("2006-01-02", c.QueryParam("to")); err == nil {
		to = value
	}

	var metrics []model.CafeDailyMetrics
	err := h.db.Where("cafe_id = ? AND date >= ? AND date <= ?", cafe.ID, from, to).
		Order("date").
		Find(&metrics).Error
	if err != nil {
		logger.FromEcho(c).Error("Failed to read daily metrics", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read daily metrics",
			"code":  "INTERNAL_ERROR",
		})
	}

	var totalOrders, newCustomers int
	var totalRevenue float64
	for _, m := range metrics {
		totalOrders += m.TotalOrders
		totalRevenue += m.TotalRevenue
		newCustomers += m.NewCustomers
	}

	return c.JSON(http.StatusOK, echo.Map{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"days":    metrics,
		"summary": echo.Map{
			"total_orders":  totalOrders,
			"total_revenue": totalRevenue,
			"new_customers": newCustomers,
		},
	})
}
