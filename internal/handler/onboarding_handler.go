package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// OnboardingHandler completes a cafe's onboarding flow.
type OnboardingHandler struct {
	cafes *store.CafeStore
}

// NewOnboardingHandler creates the onboarding handler.
func NewOnboardingHandler(cafes *store.CafeStore) *OnboardingHandler {
	return &OnboardingHandler{cafes: cafes}
}

// Complete marks the cafe onboarded and stores the free-form onboarding
// payload.
func (h *OnboardingHandler) Complete(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var payload json.RawMessage
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	updated, err := h.cafes.Update(cafe.ID, map[string]interface{}{
		"is_onboarded":    true,
		"onboarding_data": string(payload),
	})
	if err != nil {
		log.Error("Failed to complete onboarding", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to complete onboarding",
			"code":  "INTERNAL_ERROR",
		})
	}

	log.Info("Cafe onboarded", zap.Uint("cafe_id", cafe.ID))
	return c.JSON(http.StatusOK, updated)
}
