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

// MenuItemRequest defines the structure for menu item creation/update requests
type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// MenuHandler serves cafe-scoped menu item CRUD.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler creates the menu handler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// List returns the cafe's menu, optionally filtered by category or
// availability.
func (h *MenuHandler) List(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var items []model.MenuItem
	query := h.db.Where("cafe_id = ?", cafe.ID)
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.QueryParam("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		logger.FromEcho(c).Error("Failed to list menu items", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list menu items",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one menu item.
func (h *MenuHandler) Get(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var item model.MenuItem
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&item, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "menu item not found",
			"code":  "MENU_ITEM_NOT_FOUND",
		})
	}
	return c.JSON(http.StatusOK, item)
}

// Create adds a menu item to the cafe.
func (h *MenuHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Name == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name and a positive price are required",
			"code":  "MISSING_FIELDS",
		})
	}

	item := model.MenuItem{
		CafeID:      cafe.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = model.Flag(*req.IsAvailable)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.db.Create(&item).Error; err != nil {
		log.Error("Failed to create menu item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to create menu item",
			"code":  "INTERNAL_ERROR",
		})
	}

	log.Info("Menu item created",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("name", item.Name))
	return c.JSON(http.StatusCreated, item)
}

// Update applies a partial update to a menu item.
func (h *MenuHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var item model.MenuItem
	if err := h.db.Where("cafe_id = ?", cafe.ID).First(&item, c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "menu item not found",
			"code":  "MENU_ITEM_NOT_FOUND",
		})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.Category != "" {
		fields["category"] = req.Category
	}
	if req.Price > 0 {
		fields["price"] = req.Price
	}
	if req.ImageURL != "" {
		fields["image_url"] = req.ImageURL
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&item).Updates(fields).Error; err != nil {
		log.Error("Failed to update menu item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update menu item",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete soft-deletes a menu item.
func (h *MenuHandler) Delete(c echo.Context) error {
	cafe := middleware.Cafe(c)

	result := h.db.Where("cafe_id = ?", cafe.ID).Delete(&model.MenuItem{}, c.Param("id"))
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to delete menu item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to delete menu item",
			"code":  "INTERNAL_ERROR",
		})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "menu item not found",
			"code":  "MENU_ITEM_NOT_FOUND",
		})
	}
	return c.NoContent(http.StatusNoContent)
}
