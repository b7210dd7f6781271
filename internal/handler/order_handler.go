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
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// OrderHandler serves cafe-scoped order taking and the kitchen flow.
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

var validOrderStatus = map[string]bool{
	model.OrderPending:   true,
	model.OrderPreparing: true,
	model.OrderReady:     true,
	model.OrderCompleted: true,
	model.OrderCancelled: true,
}

// Create records an order with its lines. Prices are taken from the menu,
// not the request, and the order total is the sum of its lines. Completion
// later feeds customer loyalty and daily metrics.
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)
	principal := middleware.Principal(c)
	prometheus.RecordOrderOperation("create")

	var req struct {
		CustomerID *uint  `json:"customer_id,omitempty"`
		Notes      string `json:"notes"`
		Items      []struct {
			MenuItemID uint `json:"menu_item_id"`
			Quantity   int  `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "at least one item is required",
			"code":  "MISSING_FIELDS",
		})
	}

	order := model.Order{
		CafeID:     cafe.ID,
		CustomerID: req.CustomerID,
		Status:     model.OrderPending,
		Notes:      req.Notes,
	}
	if principal != nil {
		order.CreatedBy = &principal.ID
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "item quantity must be positive",
				"code":  "INVALID_QUANTITY",
			})
		}
		var menuItem model.MenuItem
		if err := h.db.Where("cafe_id = ?", cafe.ID).First(&menuItem, line.MenuItemID).Error; err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "menu item not found",
				"code":  "MENU_ITEM_NOT_FOUND",
			})
		}
		order.Items = append(order.Items, model.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
		})
		order.Total += menuItem.Price * float64(line.Quantity)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&order).Error; err != nil {
		log.Error("Failed to create order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to create order",
			"code":  "INTERNAL_ERROR",
		})
	}

	log.Info("Order created",
		zap.Uint("cafe_id", cafe.ID),
		zap.Uint("order_id", order.ID),
		zap.Float64("total", order.Total))
	return c.JSON(http.StatusCreated, order)
}

// List returns the cafe's orders, optionally filtered by status.
func (h *OrderHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var orders []model.Order
	query := h.db.Preload("Items").Where("cafe_id = ?", cafe.ID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list orders",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get returns one order with its lines.
func (h *OrderHandler) Get(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var order model.Order
	err := h.db.Preload("Items").Where("cafe_id = ?", cafe.ID).First(&order, c.Param("id")).Error
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "order not found",
			"code":  "ORDER_NOT_FOUND",
		})
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus moves an order through the kitchen flow. Completing an
// order also bumps the customer's loyalty counters.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)
	prometheus.RecordOrderOperation("status_update")

	var order model.Order
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&order, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "order not found",
			"code":  "ORDER_NOT_FOUND",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !validOrderStatus[req.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid order status",
			"code":  "INVALID_STATUS",
		})
	}

	completing := req.Status == model.OrderCompleted && order.Status != model.OrderCompleted

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		log.Error("Failed to update order status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update order",
			"code":  "INTERNAL_ERROR",
		})
	}

	if completing && order.CustomerID != nil {
		err := h.db.Model(&model.Customer{}).
			Where("id = ? AND cafe_id = ?", *order.CustomerID, cafe.ID).
			Updates(map[string]interface{}{
				"visit_count":    gorm.Expr("visit_count + 1"),
				"total_spent":    gorm.Expr("total_spent + ?", order.Total),
				"loyalty_points": gorm.Expr("loyalty_points + ?", int(order.Total)),
			}).Error
		if err != nil {
			log.Warn("Failed to bump customer loyalty counters",
				zap.Uint("customer_id", *order.CustomerID), zap.Error(err))
		}
	}

	order.Status = req.Status
	return c.JSON(http.StatusOK, order)
}
