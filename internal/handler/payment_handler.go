package handler

import (
	"fmt"
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

// PaymentHandler serves cafe-scoped payment method configuration.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler creates the payment method handler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// List returns the cafe's payment methods in display order.
func (h *PaymentHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var methods []model.PaymentMethod
	if err := h.db.Where("cafe_id = ?", cafe.ID).Order("display_order, id").Find(&methods).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list payment methods", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list payment methods",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, methods)
}

// Create adds a payment method at the end of the display order.
func (h *PaymentHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name is required",
			"code":  "MISSING_FIELDS",
		})
	}

	var count int64
	h.db.Model(&model.PaymentMethod{}).Where("cafe_id = ?", cafe.ID).Count(&count)

	method := model.PaymentMethod{
		CafeID:       cafe.ID,
		Name:         req.Name,
		DisplayOrder: int(count) + 1,
		IsActive:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&method).Error; err != nil {
		log.Error("Failed to create payment method", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to create payment method",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusCreated, method)
}

// Update renames or toggles a payment method.
func (h *PaymentHandler) Update(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var method model.PaymentMethod
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&method, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "payment method not found",
			"code":  "PAYMENT_METHOD_NOT_FOUND",
		})
	}

	var req struct {
		Name     *string `json:"name,omitempty"`
		IsActive *bool   `json:"is_active,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&method).Updates(fields).Error; err != nil {
		logger.FromEcho(c).Error("Failed to update payment method", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update payment method",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, method)
}

// Delete removes a payment method.
func (h *PaymentHandler) Delete(c echo.Context) error {
	cafe := middleware.Cafe(c)

	result := h.db.Where("cafe_id = ?", cafe.ID).Delete(&model.PaymentMethod{}, c.Param("id"))
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to delete payment method", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to delete payment method",
			"code":  "INTERNAL_ERROR",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "payment method not found",
			"code":  "PAYMENT_METHOD_NOT_FOUND",
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// Reorder rewrites display_order for the listed method ids inside one
// transaction: if any update fails, no display order changes. Ids must all
// belong to the cafe.
func (h *PaymentHandler) Reorder(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "ids are required",
			"code":  "MISSING_FIELDS",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := h.db.Transaction(func(tx *gorm.DB) error {
		for position, id := range req.IDs {
			result := tx.Model(&model.PaymentMethod{}).
				Where("id = ? AND cafe_id = ?", id, cafe.ID).
				Update("display_order", position+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("payment method %d not found in cafe %d", id, cafe.ID)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Payment method reorder rolled back",
			zap.Uint("cafe_id", cafe.ID), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "reorder failed, no changes applied",
			"code":  "REORDER_FAILED",
		})
	}

	return h.List(c)
}
