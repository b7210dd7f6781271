package store

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateIdentity is returned when an email or username is taken.
	ErrDuplicateIdentity = errors.New("email or username already registered")
	// ErrInvalidRole is returned for a role outside the five staff roles.
	ErrInvalidRole = errors.New("invalid role")
	// ErrMissingCafe is returned when a non-super-admin is created without
	// a cafe binding.
	ErrMissingCafe = errors.New("cafe id is required for this role")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrCafeNotFound is returned when no cafe matches the lookup.
	ErrCafeNotFound = errors.New("cafe not found")
	// ErrDuplicateSlug is returned when a cafe slug is already taken.
	ErrDuplicateSlug = errors.New("cafe slug already taken")
	// ErrInvalidSlug is returned for slugs outside [a-z0-9-]{1,64}.
	ErrInvalidSlug = errors.New("invalid cafe slug")
	// ErrUnknownFeature is returned when an override targets a feature key
	// that is not in the catalog.
	ErrUnknownFeature = errors.New("unknown feature key")
)

// isUniqueViolation matches unique-constraint errors from both the
// PostgreSQL driver and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
