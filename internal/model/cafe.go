package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// Subscription statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// ValidPlan reports whether plan is a known subscription plan.
func ValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanPro
}

// ValidStatus reports whether status is a known subscription status.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive || status == StatusExpired
}

// Cafe represents a tenant. Every customer, order and staff user (except
// super-admins) belongs to exactly one cafe. Cafes are never hard deleted.
type Cafe struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Slug               string         `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	Name               string         `json:"name" gorm:"type:varchar(100);not null"`
	SubscriptionPlan   string         `json:"subscription_plan" gorm:"type:varchar(10);default:'FREE'"`
	SubscriptionStatus string         `json:"subscription_status" gorm:"type:varchar(20);default:'active'"`
	IsOnboarded        Flag           `json:"is_onboarded" gorm:"type:boolean;default:false"`
	OnboardingData     string         `json:"onboarding_data,omitempty" gorm:"type:jsonb"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// Plan returns the subscription plan, defaulting unset columns to FREE.
func (c *Cafe) Plan() string {
	if c.SubscriptionPlan == "" {
		return PlanFree
	}
	return c.SubscriptionPlan
}

// Status returns the subscription status, defaulting unset columns to active.
func (c *Cafe) Status() string {
	if c.SubscriptionStatus == "" {
		return StatusActive
	}
	return c.SubscriptionStatus
}
