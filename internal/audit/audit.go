// Package audit appends subscription, feature and impersonation audit
// entries. Writes are best-effort: a failure to append never fails the
// originating mutation, it only logs a warning.
package audit

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

// Pagination bounds for audit reads.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Recorder writes and reads audit entries.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecorder creates a recorder over the given database handle.
func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// RecordSubscriptionChange appends a subscription audit entry. Best-effort.
func (r *Recorder) RecordSubscriptionChange(cafeID uint, actionType, previous, next string, actorID *uint) {
	entry := model.SubscriptionAuditLog{
		CafeID:        cafeID,
		ActionType:    actionType,
		PreviousValue: previous,
		NewValue:      next,
		ActorID:       actorID,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.log.Warn("failed to append subscription audit entry",
			zap.Uint("cafe_id", cafeID),
			zap.String("action_type", actionType),
			zap.Error(err))
	}
}

// RecordImpersonation appends an impersonation audit entry. Best-effort.
func (r *Recorder) RecordImpersonation(superadmin *model.User, cafe *model.Cafe, action, ip, userAgent string) {
	entry := model.ImpersonationAuditLog{
		SuperadminID:    superadmin.ID,
		SuperadminEmail: superadmin.Email,
		CafeID:          cafe.ID,
		CafeSlug:        cafe.Slug,
		CafeName:        cafe.Name,
		Action:          action,
		IP:              ip,
		UserAgent:       userAgent,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		r.log.Warn("failed to append impersonation audit entry",
			zap.Uint("cafe_id", cafe.ID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// SubscriptionFilters narrows subscription audit reads.
type SubscriptionFilters struct {
	CafeID     *uint
	ActionType string
	ActorID    *uint
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ListSubscriptionEntries returns subscription audit entries matching the
// filters, newest first.
func (r *Recorder) ListSubscriptionEntries(filters SubscriptionFilters) ([]model.SubscriptionAuditLog, error) {
	query := r.db.Model(&model.SubscriptionAuditLog{})
	if filters.CafeID != nil {
		query = query.Where("cafe_id = ?", *filters.CafeID)
	}
	if filters.ActionType != "" {
		query = query.Where("action_type = ?", filters.ActionType)
	}
	if filters.ActorID != nil {
		query = query.Where("actor_id = ?", *filters.ActorID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}

	var entries []model.SubscriptionAuditLog
	err := query.Order("created_at DESC").
		Limit(clampLimit(filters.Limit)).
		Offset(filters.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ImpersonationFilters narrows impersonation audit reads.
type ImpersonationFilters struct {
	CafeID       *uint
	SuperadminID *uint
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// ListImpersonationEntries returns impersonation audit entries matching the
// filters, newest first.
func (r *Recorder) ListImpersonationEntries(filters ImpersonationFilters) ([]model.ImpersonationAuditLog, error) {
	query := r.db.Model(&model.ImpersonationAuditLog{})
	if filters.CafeID != nil {
		query = query.Where("cafe_id = ?", *filters.CafeID)
	}
	if filters.SuperadminID != nil {
		query = query.Where("superadmin_id = ?", *filters.SuperadminID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}

	var entries []model.ImpersonationAuditLog
	err := query.Order("created_at DESC").
		Limit(clampLimit(filters.Limit)).
		Offset(filters.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
