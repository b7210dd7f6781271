package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

// FeatureCatalog exposes the read-only global feature list and the mutable
// per-cafe override table.
type FeatureCatalog struct {
	db *gorm.DB
}

// NewFeatureCatalog creates a catalog over the given database handle.
func NewFeatureCatalog(db *gorm.DB) *FeatureCatalog {
	return &FeatureCatalog{db: db}
}

// ListFeatures returns the global feature catalog.
func (c *FeatureCatalog) ListFeatures() ([]model.Feature, error) {
	var features []model.Feature
	if err := c.db.Order("key").Find(&features).Error; err != nil {
		return nil, err
	}
	return features, nil
}

// GetOverrides returns the cafe's override rows as a key → enabled map.
func (c *FeatureCatalog) GetOverrides(cafeID uint) (map[string]bool, error) {
	var rows []model.CafeFeatureOverride
	if err := c.db.Where("cafe_id = ?", cafeID).Find(&rows).Error; err != nil {
		return nil, err
	}
	overrides := make(map[string]bool, len(rows))
	for _, row := range rows {
		overrides[row.FeatureKey] = row.Enabled.Bool()
	}
	return overrides, nil
}

// SetOverride upserts an override row. Keys outside the catalog are
// rejected so resolution never encounters dangling keys.
func (c *FeatureCatalog) SetOverride(cafeID uint, key string, enabled bool) error {
	var count int64
	if err := c.db.Model(&model.Feature{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownFeature
	}

	row := model.CafeFeatureOverride{
		CafeID:     cafeID,
		FeatureKey: key,
		Enabled:    model.Flag(enabled),
	}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cafe_id"}, {Name: "feature_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(&row).Error
}

// ClearOverride deletes an override row; clearing an absent row is not an
// error.
func (c *FeatureCatalog) ClearOverride(cafeID uint, key string) error {
	return c.db.Where("cafe_id = ? AND feature_key = ?", cafeID, key).
		Delete(&model.CafeFeatureOverride{}).Error
}

// Seed installs the catalog rows that are missing. Existing rows keep the
// defaults they were created with.
func (c *FeatureCatalog) Seed() error {
	for _, feature := range model.SeedFeatures() {
		f := feature
		if err := c.db.Where("key = ?", f.Key).FirstOrCreate(&f).Error; err != nil {
			return err
		}
	}
	return nil
}

// ImportLegacyModules folds a legacy enabled_modules map into override
// rows. Keys outside the catalog are skipped; the override table is the
// single override mechanism afterwards.
func (c *FeatureCatalog) ImportLegacyModules(cafeID uint, modules map[string]bool) error {
	for key, enabled := range modules {
		err := c.SetOverride(cafeID, key, enabled)
		if err == ErrUnknownFeature {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
