package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
)

// ClockSkew is the tolerance applied when validating token timestamps.
// Ten minutes matches the tolerance the platform has always granted to
// clients with drifting clocks.
const ClockSkew = 10 * time.Minute

var (
	// ErrTokenExpired indicates the token's exp is past even after skew.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenMalformed indicates the token could not be parsed at all.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrVerificationFailed indicates the signature did not verify.
	ErrVerificationFailed = errors.New("token verification failed")
)

// Claims represents the JWT claims carried by every issued token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	CafeID   *uint  `json:"cafe_id,omitempty"`
	CafeSlug string `json:"cafe_slug,omitempty"`
	// ImpersonatorID is set only on tokens minted by a super-admin
	// impersonating a cafe.
	ImpersonatorID *uint `json:"impersonator_id,omitempty"`
	jwt.RegisteredClaims
}

// Valid implements jwt.Claims with the platform clock-skew tolerance.
func (c *Claims) Valid() error {
	now := time.Now()
	if !c.VerifyExpiresAt(now.Add(-ClockSkew), false) {
		return jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	}
	if !c.VerifyIssuedAt(now.Add(ClockSkew), false) {
		return jwt.NewValidationError("token used before issued", jwt.ValidationErrorIssuedAt)
	}
	return nil
}

// JWTUtil signs and verifies tokens with the process-wide signing secret.
type JWTUtil struct {
	config *config.JWTConfig
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{config: cfg}
}

// GenerateToken creates a signed token for the given principal.
func (j *JWTUtil) GenerateToken(userID uint, email, role string, cafeID *uint, cafeSlug string) (string, error) {
	return j.sign(&Claims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		CafeID:   cafeID,
		CafeSlug: cafeSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateImpersonationToken mints a cafe-scoped token for a super-admin
// impersonating the given cafe. The impersonator id is preserved so the
// session remains attributable in audit logs.
func (j *JWTUtil) GenerateImpersonationToken(superadminID uint, email string, cafeID uint, cafeSlug string) (string, error) {
	id := cafeID
	actor := superadminID
	return j.sign(&Claims{
		UserID:         superadminID,
		Email:          email,
		Role:           "super-admin",
		CafeID:         &id,
		CafeSlug:       cafeSlug,
		ImpersonatorID: &actor,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateTokenWithExpiry is used by tests to mint tokens at arbitrary
// expiration offsets.
func (j *JWTUtil) GenerateTokenWithExpiry(userID uint, email, role string, cafeID *uint, cafeSlug string, expiresAt time.Time) (string, error) {
	return j.sign(&Claims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		CafeID:   cafeID,
		CafeSlug: cafeSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Duration(j.config.ExpirationHours) * time.Hour)),
		},
	})
}

func (j *JWTUtil) sign(claims *Claims) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*Claims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			default:
				return nil, ErrVerificationFailed
			}
		}
		return nil, ErrVerificationFailed
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrVerificationFailed
}
