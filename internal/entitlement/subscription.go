// Package entitlement implements the tenant entitlement core: subscription
// resolution, per-feature resolution with per-cafe overrides, and the
// role visibility/permission matrix.
package entitlement

import (
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

// Subscription is the resolved plan and status of a cafe.
type Subscription struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// ResolveSubscription is a pure function of persisted cafe state. Unset
// columns default to FREE/active.
func ResolveSubscription(cafe *model.Cafe) Subscription {
	return Subscription{
		Plan:   cafe.Plan(),
		Status: cafe.Status(),
	}
}

// Active reports whether feature resolution may proceed for this
// subscription. Inactive and expired both force every feature off.
func (s Subscription) Active() bool {
	return s.Status == model.StatusActive
}
