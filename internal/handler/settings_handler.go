package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/entitlement"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// SettingsHandler serves the cafe's role matrix and branding options.
// Every update appends the post-update state to the history shadow table.
type SettingsHandler struct {
	db    *gorm.DB
	cafes *store.CafeStore
}

// NewSettingsHandler creates the settings handler.
func NewSettingsHandler(db *gorm.DB, cafes *store.CafeStore) *SettingsHandler {
	return &SettingsHandler{db: db, cafes: cafes}
}

// Get returns the cafe's settings row, creating defaults if missing.
func (h *SettingsHandler) Get(c echo.Context) error {
	cafe := middleware.Cafe(c)

	settings, err := h.cafes.Settings(cafe.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to load settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to load settings",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, settings)
}

// Update applies a partial update. Unbound JSON keys keep their stored
// values; the merged row is saved and snapshotted into the history table.
func (h *SettingsHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)
	principal := middleware.Principal(c)

	settings, err := h.cafes.Settings(cafe.ID)
	if err != nil {
		log.Error("Failed to load settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to load settings",
			"code":  "INTERNAL_ERROR",
		})
	}

	// Decoding into the loaded row keeps unmentioned fields intact.
	if err := c.Bind(settings); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	settings.CafeID = cafe.ID

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Save(settings).Error; err != nil {
		log.Error("Failed to save settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to save settings",
			"code":  "INTERNAL_ERROR",
		})
	}

	snapshot, err := json.Marshal(settings)
	if err == nil {
		var actorID *uint
		if principal != nil {
			actorID = &principal.ID
		}
		history := model.CafeSettingsHistory{
			CafeID:    cafe.ID,
			Snapshot:  string(snapshot),
			ChangedBy: actorID,
		}
		if err := h.db.Create(&history).Error; err != nil {
			log.Warn("Failed to append settings history", zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, settings)
}

// History returns the append-only settings history, newest first.
func (h *SettingsHandler) History(c echo.Context) error {
	cafe := middleware.Cafe(c)

	var entries []model.CafeSettingsHistory
	err := h.db.Where("cafe_id = ?", cafe.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&entries).Error
	if err != nil {
		logger.FromEcho(c).Error("Failed to read settings history", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read settings history",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, entries)
}

// RolePolicies returns the effective visibility and permissions for every
// role, derived from the stored settings row.
func (h *SettingsHandler) RolePolicies(c echo.Context) error {
	cafe := middleware.Cafe(c)

	settings, err := h.cafes.Settings(cafe.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to load settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to load settings",
			"code":  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"admin":     entitlement.ResolveRole(settings, model.RoleAdmin),
		"user":      entitlement.ResolveRole(settings, model.RoleUser),
		"reception": entitlement.ResolveRole(settings, model.RoleReception),
		"chef":      entitlement.ResolveRole(settings, model.RoleChef),
	})
}
