package store

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// CafeStore persists cafes and their subscription state.
type CafeStore struct {
	db *gorm.DB
}

// NewCafeStore creates a cafe store over the given database handle.
func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db}
}

// Create inserts a cafe in its initial state (FREE, active, not onboarded)
// along with its default settings row. The slug is lowercased before
// validation.
func (s *CafeStore) Create(slug, name string) (*model.Cafe, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	cafe := &model.Cafe{
		Slug:               slug,
		Name:               name,
		SubscriptionPlan:   model.PlanFree,
		SubscriptionStatus: model.StatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cafe).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateSlug
			}
			return err
		}
		return tx.Create(model.DefaultCafeSettings(cafe.ID)).Error
	})
	if err != nil {
		return nil, err
	}
	return cafe, nil
}

// GetByID returns the cafe with the given id.
func (s *CafeStore) GetByID(id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := s.db.First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, err
	}
	return &cafe, nil
}

// GetBySlug returns the cafe with the given slug.
func (s *CafeStore) GetBySlug(slug string) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := s.db.Where("slug = ?", strings.ToLower(slug)).First(&cafe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, err
	}
	return &cafe, nil
}

// Update applies a partial update to the cafe.
func (s *CafeStore) Update(id uint, fields map[string]interface{}) (*model.Cafe, error) {
	result := s.db.Model(&model.Cafe{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, ErrDuplicateSlug
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCafeNotFound
	}
	return s.GetByID(id)
}

// List returns all cafes ordered by id.
func (s *CafeStore) List() ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := s.db.Order("id").Find(&cafes).Error; err != nil {
		return nil, err
	}
	return cafes, nil
}

// CountActive returns the number of cafes with an active subscription.
func (s *CafeStore) CountActive() (int64, error) {
	var count int64
	err := s.db.Model(&model.Cafe{}).
		Where("subscription_status = ?", model.StatusActive).
		Count(&count).Error
	return count, err
}

// Settings returns the settings row for a cafe, creating the default row
// if it is missing.
func (s *CafeStore) Settings(cafeID uint) (*model.CafeSettings, error) {
	var settings model.CafeSettings
	err := s.db.Where("cafe_id = ?", cafeID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := model.DefaultCafeSettings(cafeID)
		if err := s.db.Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
