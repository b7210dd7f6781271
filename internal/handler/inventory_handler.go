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

// InventoryHandler serves cafe-scoped stock tracking.
type InventoryHandler struct {
	db *gorm.DB
}

// NewInventoryHandler creates the inventory handler.
func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{db: db}
}

// List returns the cafe's inventory. With ?low=true only items at or below
// their reorder level are returned.
func (h *InventoryHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var items []model.InventoryItem
	query := h.db.Where("cafe_id = ?", cafe.ID)
	if c.QueryParam("low") == "true" {
		query = query.Where("quantity <= reorder_level")
	}
	if err := query.Order("name").Find(&items).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list inventory", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list inventory",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds an inventory item to the cafe.
func (h *InventoryHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		Quantity     float64 `json:"quantity"`
		ReorderLevel float64 `json:"reorder_level"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name is required",
			"code":  "MISSING_FIELDS",
		})
	}

	item := model.InventoryItem{
		CafeID:       cafe.ID,
		Name:         req.Name,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&item).Error; err != nil {
		log.Error("Failed to create inventory item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to create inventory item",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update adjusts quantity or reorder level for an inventory item.
func (h *InventoryHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var item model.InventoryItem
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&item, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "inventory item not found",
			"code":  "INVENTORY_ITEM_NOT_FOUND",
		})
	}

	var req struct {
		Name         *string  `json:"name,omitempty"`
		Unit         *string  `json:"unit,omitempty"`
		Quantity     *float64 `json:"quantity,omitempty"`
		ReorderLevel *float64 `json:"reorder_level,omitempty"`
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
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.ReorderLevel != nil {
		fields["reorder_level"] = *req.ReorderLevel
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&item).Updates(fields).Error; err != nil {
		log.Error("Failed to update inventory item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update inventory item",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes an inventory item.
func (h *InventoryHandler) Delete(c echo.Context) error {
	cafe := middleware.Cafe(c)

	result := h.db.Where("cafe_id = ?", cafe.ID).Delete(&model.InventoryItem{}, c.Param("id"))
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to delete inventory item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to delete inventory item",
			"code":  "INTERNAL_ERROR",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "inventory item not found",
			"code":  "INVENTORY_ITEM_NOT_FOUND",
		})
	}
	return c.NoContent(http.StatusNoContent)
}
