package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/middleware"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/jwtutil"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// AuthHandler serves login and staff user management.
type AuthHandler struct {
	users *store.UserStore
	cafes *store.CafeStore
	jwt   *jwtutil.JWTUtil
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(users *store.UserStore, cafes *store.CafeStore, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{users: users, cafes: cafes, jwt: jwt}
}

// Login verifies credentials and issues a token carrying the user's cafe
// binding and role.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.users.FindByEmail(req.Email)
	if err != nil || !h.users.VerifyPassword(user, req.Password) {
		log.Warn("Login failed", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "invalid credentials",
			"code":  "INVALID_CREDENTIALS",
		})
	}

	var cafeSlug string
	if user.CafeID != nil {
		if cafe, err := h.cafes.GetByID(*user.CafeID); err == nil {
			cafeSlug = cafe.Slug
		}
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role, user.CafeID, cafeSlug)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "token error",
			"code":  "INTERNAL_ERROR",
		})
	}

	if err := h.users.TouchLastLogin(user.ID); err != nil {
		log.Warn("Failed to stamp last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":      user.ID,
			"email":   user.Email,
			"role":    user.Role,
			"cafe_id": user.CafeID,
		},
	})
}

// ListUsers returns the staff of the current cafe.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	cafe := middleware.Cafe(c)
	users, err := h.users.List(&cafe.ID)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "failed to list users",
			"code":  "INTERNAL_ERROR",
		})
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser creates a staff user bound to the current cafe.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)
	cafe := middleware.Cafe(c)

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid request",
			"code":  "INVALID_REQUEST",
		})
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "email, username and password are required",
			"code":  "MISSING_FIELDS",
		})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.users.Create(store.CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidRole):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid role",
				"code":  "INVALID_ROLE",
			})
		case errors.Is(err, store.ErrDuplicateIdentity):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "email or username already registered",
				"code":  "DUPLICATE_IDENTITY",
			})
		default:
			log.Error("Failed to create user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "failed to create user",
				"code":  "INTERNAL_ERROR",
			})
		}
	}

	log.Info("Staff user created",
		zap.Uint("cafe_id", cafe.ID),
		zap.String("email", user.Email),
		zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}
