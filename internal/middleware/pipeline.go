package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/entitlement"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// Context keys attached by the pipeline stages.
const (
	cafeKey         = "cafe"
	subscriptionKey = "subscription"
)

// Pipeline is the composable authorization chain applied per route:
// resolve cafe from the path, verify membership, verify the subscription
// is active, verify feature entitlement, verify role permission. Each
// stage attaches context or short-circuits with a specific status and
// code. Super-admins bypass membership, feature and role stages.
type Pipeline struct {
	cafes    *store.CafeStore
	features *entitlement.FeatureService
}

// NewPipeline creates the authorization pipeline.
func NewPipeline(cafes *store.CafeStore, features *entitlement.FeatureService) *Pipeline {
	return &Pipeline{cafes: cafes, features: features}
}

// ResolveCafe loads the cafe named by the :slug path parameter and
// attaches it to the request.
func (p *Pipeline) ResolveCafe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		slug := c.Param("slug")
		if slug == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "cafe identifier is required",
				"code":  "CAFE_ID_REQUIRED",
			})
		}

		cafe, err := p.cafes.GetBySlug(slug)
		if err != nil {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "cafe not found",
				"code":  "CAFE_NOT_FOUND",
			})
		}

		c.Set(cafeKey, cafe)
		return next(c)
	}
}

// RequireMembership denies principals bound to a different cafe.
// Super-admins pass unconditionally.
func (p *Pipeline) RequireMembership(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal := Principal(c)
		cafe := Cafe(c)

		if principal.IsSuperAdmin() {
			return next(c)
		}
		if principal.CafeID == nil || *principal.CafeID != cafe.ID {
			log := logger.FromEcho(c)
			log.Warn("Cross-tenant access denied",
				zap.Uint("user_id", principal.ID),
				zap.Uint("cafe_id", cafe.ID))
			prometheus.RecordAuthError("cross_tenant")
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "you do not belong to this cafe",
				"code":  "CROSS_TENANT_FORBIDDEN",
			})
		}
		return next(c)
	}
}

// RequireActiveSubscription resolves the cafe's subscription, denying when
// it is not active, and attaches the resolved subscription.
func (p *Pipeline) RequireActiveSubscription(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cafe := Cafe(c)
		sub := entitlement.ResolveSubscription(cafe)
		if !sub.Active() {
			prometheus.RecordAuthError("subscription_inactive")
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":               "this cafe's subscription is not active",
				"code":                "SUBSCRIPTION_INACTIVE",
				"subscription_status": sub.Status,
			})
		}
		c.Set(subscriptionKey, sub)
		return next(c)
	}
}

// RequireFeature denies the request unless the feature resolves enabled
// for the cafe. Super-admins bypass. Denials carry the current plan so
// clients can render upsell prompts.
func (p *Pipeline) RequireFeature(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := Principal(c)
			if principal.IsSuperAdmin() {
				return next(c)
			}

			cafe := Cafe(c)
			resolved, err := p.features.ResolveForCafe(cafe)
			if err != nil {
				logger.FromEcho(c).Error("Feature resolution failed",
					zap.Uint("cafe_id", cafe.ID), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "failed to resolve features",
					"code":  "INTERNAL_ERROR",
				})
			}
			if !resolved[key] {
				prometheus.RecordFeatureDenial(cafe.ID, key)
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":        "this feature is not available on your plan",
					"code":         "FEATURE_ACCESS_DENIED",
					"feature":      key,
					"current_plan": cafe.Plan(),
				})
			}
			return next(c)
		}
	}
}

// RequirePermission denies the request unless the principal's role holds
// the permission in this cafe's settings. Super-admins bypass.
func (p *Pipeline) RequirePermission(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := Principal(c)
			if principal.IsSuperAdmin() {
				return next(c)
			}

			cafe := Cafe(c)
			settings, err := p.cafes.Settings(cafe.ID)
			if err != nil {
				logger.FromEcho(c).Error("Settings load failed",
					zap.Uint("cafe_id", cafe.ID), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error": "failed to load cafe settings",
					"code":  "INTERNAL_ERROR",
				})
			}

			policy := entitlement.ResolveRole(settings, principal.Role)
			if !policy.Can(action) {
				prometheus.RecordAuthError("role_forbidden")
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": "your role does not permit this action",
					"code":  "ROLE_FORBIDDEN",
					"role":  principal.Role,
				})
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin denies anyone but super-admins. Used on /api/admin.
func (p *Pipeline) RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal := Principal(c)
		if !principal.IsSuperAdmin() {
			prometheus.RecordAuthError("role_forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "super-admin access required",
				"code":  "ROLE_FORBIDDEN",
			})
		}
		return next(c)
	}
}

// Cafe returns the cafe attached by ResolveCafe.
func Cafe(c echo.Context) *model.Cafe {
	cafe, _ := c.Get(cafeKey).(*model.Cafe)
	return cafe
}

// Subscription returns the subscription attached by
// RequireActiveSubscription.
func Subscription(c echo.Context) entitlement.Subscription {
	sub, _ := c.Get(subscriptionKey).(entitlement.Subscription)
	return sub
}
