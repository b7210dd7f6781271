package model

import (
	"time"
)

// Subscription audit action types
const (
	AuditPlanChanged     = "PLAN_CHANGED"
	AuditFeatureEnabled  = "FEATURE_ENABLED"
	AuditFeatureDisabled = "FEATURE_DISABLED"
	AuditCafeActivated   = "CAFE_ACTIVATED"
	AuditCafeDeactivated = "CAFE_DEACTIVATED"
)

// Impersonation audit actions
const (
	ImpersonationStarted = "STARTED"
	ImpersonationEnded   = "ENDED"
)

// SubscriptionAuditLog records every change to a cafe's plan, status or
// feature overrides. Append-only; the actor FK is nullable so user deletion
// never breaks history.
type SubscriptionAuditLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CafeID        uint      `json:"cafe_id" gorm:"index;not null"`
	ActionType    string    `json:"action_type" gorm:"type:varchar(30);index;not null"`
	PreviousValue string    `json:"previous_value" gorm:"type:varchar(100)"`
	NewValue      string    `json:"new_value" gorm:"type:varchar(100)"`
	ActorID       *uint     `json:"actor_id,omitempty" gorm:"index"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

// ImpersonationAuditLog records super-admin impersonation sessions.
// Append-only.
type ImpersonationAuditLog struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	SuperadminID    uint      `json:"superadmin_id" gorm:"index;not null"`
	SuperadminEmail string    `json:"superadmin_email" gorm:"type:varchar(100)"`
	CafeID          uint      `json:"cafe_id" gorm:"index;not null"`
	CafeSlug        string    `json:"cafe_slug" gorm:"type:varchar(64)"`
	CafeName        string    `json:"cafe_name" gorm:"type:varchar(100)"`
	Action          string    `json:"action" gorm:"type:varchar(10);not null"`
	IP              string    `json:"ip" gorm:"type:varchar(45)"`
	UserAgent       string    `json:"user_agent" gorm:"type:varchar(255)"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}
