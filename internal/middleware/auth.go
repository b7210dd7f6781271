package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/jwtutil"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// Context keys attached by the authentication gate.
const (
	principalKey = "principal"
	claimsKey    = "claims"
)

// Authenticator converts a bearer token into an authenticated principal.
type Authenticator struct {
	jwt   *jwtutil.JWTUtil
	users *store.UserStore
}

// NewAuthenticator creates the authentication gate.
func NewAuthenticator(jwt *jwtutil.JWTUtil, users *store.UserStore) *Authenticator {
	return &Authenticator{jwt: jwt, users: users}
}

// Authenticate validates the Authorization header, loads the user and
// attaches it to the request. Every failure is a 401 with a distinct code.
func (a *Authenticator) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			prometheus.RecordAuthError("no_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "missing authorization token",
				"code":  "NO_TOKEN",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "invalid authorization format, expected Bearer token",
				"code":  "INVALID_TOKEN",
			})
		}

		claims, err := a.jwt.ValidateToken(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwtutil.ErrTokenExpired):
				prometheus.RecordAuthError("token_expired")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "token is expired",
					"code":  "TOKEN_EXPIRED",
				})
			case errors.Is(err, jwtutil.ErrTokenMalformed):
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "invalid token",
					"code":  "INVALID_TOKEN",
				})
			default:
				prometheus.RecordAuthError("verification_failed")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "token verification failed",
					"code":  "VERIFICATION_FAILED",
				})
			}
		}

		user, err := a.users.FindByID(claims.UserID)
		if err != nil {
			log.Warn("Token valid but user missing", zap.Uint("user_id", claims.UserID))
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"error": "user not found",
				"code":  "USER_NOT_FOUND",
			})
		}

		c.Set(principalKey, user)
		c.Set(claimsKey, claims)
		return next(c)
	}
}

// Principal returns the authenticated user attached by Authenticate.
func Principal(c echo.Context) *model.User {
	user, _ := c.Get(principalKey).(*model.User)
	return user
}

// Claims returns the verified token claims attached by Authenticate.
func Claims(c echo.Context) *jwtutil.Claims {
	claims, _ := c.Get(claimsKey).(*jwtutil.Claims)
	return claims
}
