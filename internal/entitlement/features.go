package entitlement

import (
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
)

// Resolution sources
const (
	SourceOverride = "override"
	SourcePlan     = "plan"
)

// FeatureService resolves feature entitlements for cafes by combining plan
// defaults with per-cafe overrides, gated by subscription status.
type FeatureService struct {
	cafes   *store.CafeStore
	catalog *store.FeatureCatalog
}

// NewFeatureService creates the resolver over the cafe store and catalog.
func NewFeatureService(cafes *store.CafeStore, catalog *store.FeatureCatalog) *FeatureService {
	return &FeatureService{cafes: cafes, catalog: catalog}
}

// ResolveFeatures returns the enabled state of every catalog feature for
// the cafe. An inactive or expired subscription resolves every feature to
// false, overrides included.
func (s *FeatureService) ResolveFeatures(cafeID uint) (map[string]bool, error) {
	cafe, err := s.cafes.GetByID(cafeID)
	if err != nil {
		return nil, err
	}
	return s.ResolveForCafe(cafe)
}

// ResolveForCafe resolves features for an already-loaded cafe row.
func (s *FeatureService) ResolveForCafe(cafe *model.Cafe) (map[string]bool, error) {
	features, err := s.catalog.ListFeatures()
	if err != nil {
		return nil, err
	}

	sub := ResolveSubscription(cafe)
	resolved := make(map[string]bool, len(features))

	if !sub.Active() {
		for _, f := range features {
			resolved[f.Key] = false
		}
		return resolved, nil
	}

	overrides, err := s.catalog.GetOverrides(cafe.ID)
	if err != nil {
		return nil, err
	}

	for _, f := range features {
		if enabled, ok := overrides[f.Key]; ok {
			resolved[f.Key] = enabled
			continue
		}
		if sub.Plan == model.PlanPro {
			resolved[f.Key] = f.DefaultPro.Bool()
		} else {
			resolved[f.Key] = f.DefaultFree.Bool()
		}
	}
	return resolved, nil
}

// ResolveFeature returns the enabled state of a single feature. Keys not
// in the catalog resolve to false.
func (s *FeatureService) ResolveFeature(cafeID uint, key string) (bool, error) {
	resolved, err := s.ResolveFeatures(cafeID)
	if err != nil {
		return false, err
	}
	return resolved[key], nil
}

// Resolution explains how one feature resolved for a cafe. Used by the
// admin UI and by tests.
type Resolution struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	DefaultFree bool   `json:"default_free"`
	DefaultPro  bool   `json:"default_pro"`
	Override    *bool  `json:"override,omitempty"`
	Resolved    bool   `json:"resolved"`
	Source      string `json:"source"`
}

// FeatureResolution returns the full resolution detail for every feature.
func (s *FeatureService) FeatureResolution(cafeID uint) ([]Resolution, error) {
	cafe, err := s.cafes.GetByID(cafeID)
	if err != nil {
		return nil, err
	}

	features, err := s.catalog.ListFeatures()
	if err != nil {
		return nil, err
	}
	overrides, err := s.catalog.GetOverrides(cafe.ID)
	if err != nil {
		return nil, err
	}

	sub := ResolveSubscription(cafe)
	details := make([]Resolution, 0, len(features))
	for _, f := range features {
		detail := Resolution{
			Key:         f.Key,
			Name:        f.Name,
			DefaultFree: f.DefaultFree.Bool(),
			DefaultPro:  f.DefaultPro.Bool(),
			Source:      SourcePlan,
		}
		planDefault := detail.DefaultFree
		if sub.Plan == model.PlanPro {
			planDefault = detail.DefaultPro
		}
		detail.Resolved = planDefault
		if enabled, ok := overrides[f.Key]; ok {
			value := enabled
			detail.Override = &value
			detail.Resolved = enabled
			detail.Source = SourceOverride
		}
		if !sub.Active() {
			detail.Resolved = false
		}
		details = append(details, detail)
	}
	return details, nil
}
