package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/audit"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/jwtutil"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// ImpersonationHandler lets a super-admin temporarily assume a cafe's
// context for support. Every session start and end is audited.
type ImpersonationHandler struct {
	cafes *store.CafeStore
	jwt   *jwtutil.JWTUtil
	audit *audit.Recorder
}

// NewImpersonationHandler creates the impersonation handler.
func NewImpersonationHandler(cafes *store.CafeStore, jwt *jwtutil.JWTUtil, recorder *audit.Recorder) *ImpersonationHandler {
	return &ImpersonationHandler{cafes: cafes, jwt: jwt, audit: recorder}
}

// Start issues a cafe-scoped impersonation token for the slug.
func (h *ImpersonationHandler) Start(c echo.Context) error {
	log := logger.FromEcho(c)
	principal := middleware.Principal(c)

	cafe, err := h.cafes.GetBySlug(c.Param("slug"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "cafe not found",
			"code":  "CAFE_NOT_FOUND",
		})
	}

	token, err := h.jwt.GenerateImpersonationToken(principal.ID, principal.Email, cafe.ID, cafe.Slug)
	if err != nil {
		log.Error("Failed to mint impersonation token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "token error",
			"code":  "INTERNAL_ERROR",
		})
	}

	h.audit.RecordImpersonation(principal, cafe, model.ImpersonationStarted,
		c.RealIP(), c.Request().UserAgent())
	prometheus.RecordImpersonation(model.ImpersonationStarted)

	log.Info("Impersonation started",
		zap.Uint("superadmin_id", principal.ID),
		zap.String("cafe_slug", cafe.Slug))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"cafe":  cafe,
	})
}

// End records the end of an impersonation session. The client discards the
// scoped token; there is no server-side session to tear down.
func (h *ImpersonationHandler) End(c echo.Context) error {
	principal := middleware.Principal(c)
	claims := middleware.Claims(c)

	if claims == nil || claims.ImpersonatorID == nil || claims.CafeID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "not an impersonation session",
			"code":  "INVALID_REQUEST",
		})
	}

	cafe, err := h.cafes.GetByID(*claims.CafeID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "cafe not found",
			"code":  "CAFE_NOT_FOUND",
		})
	}

	h.audit.RecordImpersonation(principal, cafe, model.ImpersonationEnded,
		c.RealIP(), c.Request().UserAgent())
	prometheus.RecordImpersonation(model.ImpersonationEnded)

	logger.FromEcho(c).Info("Impersonation ended",
		zap.Uint("superadmin_id", principal.ID),
		zap.String("cafe_slug", cafe.Slug))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "impersonation ended",
	})
}
