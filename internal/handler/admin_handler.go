package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/audit"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/entitlement"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// AdminHandler serves the super-admin surface: cafe lifecycle, subscription
// and feature-override management, and audit reads.
type AdminHandler struct {
	cafes    *store.CafeStore
	users    *store.UserStore
	catalog  *store.FeatureCatalog
	features *entitlement.FeatureService
	audit    *audit.Recorder
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(cafes *store.CafeStore, users *store.UserStore, catalog *store.FeatureCatalog, features *entitlement.FeatureService, recorder *audit.Recorder) *AdminHandler {
	return &AdminHandler{
		cafes:    cafes,
		users:    users,
		catalog:  catalog,
		features: features,
		audit:    recorder,
	}
}

// ListCafes returns every cafe with its resolved subscription.
func (h *AdminHandler) ListCafes(c echo.Context) error {
	cafes, err := h.cafes.List()
	if err != nil {
		logger.FromEcho(c).Error("Failed to list cafes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list cafes",
			"code":  "INTERNAL_ERROR",
		})
	}

	out := make([]echo.Map, 0, len(cafes))
	for i := range cafes {
		cafe := &cafes[i]
		out = append(out, echo.Map{
			"cafe":         cafe,
			"subscription": entitlement.ResolveSubscription(cafe),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateCafe creates a cafe in its initial state and binds its first admin
// user.
func (h *AdminHandler) CreateCafe(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Slug          string `json:"slug"`
		Name          string `json:"name"`
		AdminEmail    string `json:"admin_email"`
		AdminUsername string `json:"admin_username"`
		AdminPassword string `json:"admin_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Slug == "" || req.Name == "" || req.AdminEmail == "" || req.AdminUsername == "" || req.AdminPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "slug, name and admin credentials are required",
			"code":  "MISSING_FIELDS",
		})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	cafe, err := h.cafes.Create(req.Slug, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidSlug):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "slug must match [a-z0-9-]{1,64}",
				"code":  "INVALID_SLUG",
			})
		case errors.Is(err, store.ErrDuplicateSlug):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cafe slug already taken",
				"code":  "DUPLICATE_SLUG",
			})
		default:
			log.Error("Failed to create cafe", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "failed to create cafe",
				"code":  "INTERNAL_ERROR",
			})
		}
	}

	admin, err := h.users.Create(store.CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    req.AdminEmail,
		Username: req.AdminUsername,
		Password: req.AdminPassword,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "admin email or username already registered",
				"code":  "DUPLICATE_IDENTITY",
			})
		}
		log.Error("Failed to create first admin", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to create first admin user",
			"code":  "INTERNAL_ERROR",
		})
	}

	h.refreshActiveCafes(log)
	log.Info("Cafe created",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("slug", cafe.Slug),
		zap.Uint("admin_id", admin.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"cafe":  cafe,
		"admin": admin,
	})
}

// GetCafe returns one cafe with its subscription and feature resolution.
func (h *AdminHandler) GetCafe(c echo.Context) error {
	cafe, ok := h.cafeFromParam(c)
	if !ok {
		return nil
	}

	details, err := h.features.FeatureResolution(cafe.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to resolve features", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to resolve features",
			"code":  "INTERNAL_ERROR",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"cafe":         cafe,
		"subscription": entitlement.ResolveSubscription(cafe),
		"features":     details,
	})
}

// UpdateSubscription changes a cafe's plan and/or status. Every changed
// field emits exactly one audit entry with the before/after values.
func (h *AdminHandler) UpdateSubscription(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.Principal(c)

	cafe, ok := h.cafeFromParam(c)
	if !ok {
		return nil
	}

	var req struct {
		Plan   *string `json:"plan,omitempty"`
		Status *string `json:"status,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Plan == nil && req.Status == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "plan or status is required",
			"code":  "MISSING_FIELDS",
		})
	}

	fields := map[string]interface{}{}
	if req.Plan != nil {
		if !model.ValidPlan(*req.Plan) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "plan must be FREE or PRO",
				"code":  "INVALID_PLAN",
			})
		}
		fields["subscription_plan"] = *req.Plan
	}
	if req.Status != nil {
		if !model.ValidStatus(*req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "status must be active, inactive or expired",
				"code":  "INVALID_STATUS",
			})
		}
		fields["subscription_status"] = *req.Status
	}

	previousPlan := cafe.Plan()
	previousStatus := cafe.Status()

	defer prometheus.TrackDBOperation("update")(time.Now())
	updated, err := h.cafes.Update(cafe.ID, fields)
	if err != nil {
		log.Error("Failed to update subscription", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to update subscription",
			"code":  "INTERNAL_ERROR",
		})
	}

	if req.Plan != nil && *req.Plan != previousPlan {
		h.audit.RecordSubscriptionChange(cafe.ID, model.AuditPlanChanged, previousPlan, *req.Plan, &actor.ID)
		prometheus.RecordSubscriptionChange(model.AuditPlanChanged)
	}
	if req.Status != nil && *req.Status != previousStatus {
		action := model.AuditCafeDeactivated
		if *req.Status == model.StatusActive {
			action = model.AuditCafeActivated
		}
		h.audit.RecordSubscriptionChange(cafe.ID, action, previousStatus, *req.Status, &actor.ID)
		prometheus.RecordSubscriptionChange(action)
		h.refreshActiveCafes(log)
	}

	log.Info("Subscription updated",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("plan", updated.Plan()),
		zap.String("status", updated.Status()))
	return c.JSON(http.StatusOK, echo.Map{
		"cafe":         updated,
		"subscription": entitlement.ResolveSubscription(updated),
	})
}

// ListFeatures returns the global feature catalog.
func (h *AdminHandler) ListFeatures(c echo.Context) error {
	features, err := h.catalog.ListFeatures()
	if err != nil {
		logger.FromEcho(c).Error("Failed to list features", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list features",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, features)
}

// CafeFeatureResolution returns the per-feature resolution detail for one
// cafe.
func (h *AdminHandler) CafeFeatureResolution(c echo.Context) error {
	cafe, ok := h.cafeFromParam(c)
	if !ok {
		return nil
	}

	details, err := h.features.FeatureResolution(cafe.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to resolve features", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to resolve features",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, details)
}

// SetFeatureOverride upserts a per-cafe feature override and audits the
// resulting entitlement change.
func (h *AdminHandler) SetFeatureOverride(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.Principal(c)

	cafe, ok := h.cafeFromParam(c)
	if !ok {
		return nil
	}
	key := c.Param("key")

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}

	previous, err := h.features.ResolveFeature(cafe.ID, key)
	if err != nil {
		log.Error("Failed to resolve feature", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to resolve feature",
			"code":  "INTERNAL_ERROR",
		})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.catalog.SetOverride(cafe.ID, key, req.Enabled); err != nil {
		if errors.Is(err, store.ErrUnknownFeature) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "unknown feature key",
				"code":  "UNKNOWN_FEATURE",
			})
		}
		log.Error("Failed to set override", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to set override",
			"code":  "INTERNAL_ERROR",
		})
	}

	if previous != req.Enabled {
		action := model.AuditFeatureDisabled
		if req.Enabled {
			action = model.AuditFeatureEnabled
		}
		h.audit.RecordSubscriptionChange(cafe.ID, action, key+"="+strconv.FormatBool(previous), key+"="+strconv.FormatBool(req.Enabled), &actor.ID)
		prometheus.RecordSubscriptionChange(action)
	}

	log.Info("Feature override set",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("feature", key),
		zap.Bool("enabled", req.Enabled))
	return c.JSON(http.StatusOK, echo.Map{
		"cafe_id": cafe.ID,
		"feature": key,
		"enabled": req.Enabled,
	})
}

// ClearFeatureOverride deletes a per-cafe override, restoring plan
// defaults, and audits the resulting entitlement change.
func (h *AdminHandler) ClearFeatureOverride(c echo.Context) error {
	log := logger.FromEcho(c)
	actor := middleware.Principal(c)

	cafe, ok := h.cafeFromParam(c)
	if !ok {
		return nil
	}
	key := c.Param("key")

	previous, err := h.features.ResolveFeature(cafe.ID, key)
	if err != nil {
		log.Error("Failed to resolve feature", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to resolve feature",
			"code":  "INTERNAL_ERROR",
		})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.catalog.ClearOverride(cafe.ID, key); err != nil {
		log.Error("Failed to clear override", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to clear override",
			"code":  "INTERNAL_ERROR",
		})
	}

	resolved, err := h.features.ResolveFeature(cafe.ID, key)
	if err == nil && resolved != previous {
		action := model.AuditFeatureDisabled
		if resolved {
			action = model.AuditFeatureEnabled
		}
		h.audit.RecordSubscriptionChange(cafe.ID, action, key+"="+strconv.FormatBool(previous), key+"="+strconv.FormatBool(resolved), &actor.ID)
		prometheus.RecordSubscriptionChange(action)
	}

	log.Info("Feature override cleared",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("feature", key))
	return c.JSON(http.StatusOK, echo.Map{
		"cafe_id": cafe.ID,
		"feature": key,
	})
}

// ListSubscriptionAudit returns subscription audit entries with filters
// and pagination.
func (h *AdminHandler) ListSubscriptionAudit(c echo.Context) error {
	filters := audit.SubscriptionFilters{
		ActionType: c.QueryParam("action_type"),
		Limit:      queryInt(c, "limit"),
		Offset:     queryInt(c, "offset"),
	}
	if id := queryUint(c, "cafe_id"); id != nil {
		filters.CafeID = id
	}
	if id := queryUint(c, "actor_id"); id != nil {
		filters.ActorID = id
	}
	if from := queryTime(c, "from"); from != nil {
		filters.From = from
	}
	if to := queryTime(c, "to"); to != nil {
		filters.To = to
	}

	entries, err := h.audit.ListSubscriptionEntries(filters)
	if err != nil {
		logger.FromEcho(c).Error("Failed to read audit log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read audit log",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, entries)
}

// ListImpersonationAudit returns impersonation audit entries with filters
// and pagination.
func (h *AdminHandler) ListImpersonationAudit(c echo.Context) error {
	filters := audit.ImpersonationFilters{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if id := queryUint(c, "cafe_id"); id != nil {
		filters.CafeID = id
	}
	if id := queryUint(c, "superadmin_id"); id != nil {
		filters.SuperadminID = id
	}
	if from := queryTime(c, "from"); from != nil {
		filters.From = from
	}
	if to := queryTime(c, "to"); to != nil {
		filters.To = to
	}

	entries, err := h.audit.ListImpersonationEntries(filters)
	if err != nil {
		logger.FromEcho(c).Error("Failed to read audit log", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to read audit log",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, entries)
}

// refreshActiveCafes recounts active subscriptions into the gauge.
func (h *AdminHandler) refreshActiveCafes(log *zap.Logger) {
	count, err := h.cafes.CountActive()
	if err != nil {
		log.Warn("Failed to count active cafes", zap.Error(err))
		return
	}
	prometheus.SetActiveCafes(count)
}

// cafeFromParam loads the cafe named by the :id path parameter, writing
// the error response itself when the lookup fails.
func (h *AdminHandler) cafeFromParam(c echo.Context) (*model.Cafe, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{
			"error": "cafe id is required",
			"code":  "CAFE_ID_REQUIRED",
		})
		return nil, false
	}
	cafe, err := h.cafes.GetByID(uint(id))
	if err != nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{
			"error": "cafe not found",
			"code":  "CAFE_NOT_FOUND",
		})
		return nil, false
	}
	return cafe, true
}

func queryInt(c echo.Context, name string) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return value
}

func queryUint(c echo.Context, name string) *uint {
	value, err := strconv.ParseUint(c.QueryParam(name), 10, 32)
	if err != nil {
		return nil
	}
	id := uint(value)
	return &id
}

func queryTime(c echo.Context, name string) *time.Time {
	value, err := time.Parse(time.RFC3339, c.QueryParam(name))
	if err != nil {
		return nil
	}
	return &value
}
