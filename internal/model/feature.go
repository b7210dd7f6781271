package model

import (
	"time"
)

// Well-known feature keys seeded by the migration. The catalog table is the
// authority at runtime; these constants exist for route wiring.
const (
	FeatureOrders         = "orders"
	FeatureMenu           = "menu"
	FeatureInventory      = "inventory"
	FeatureCustomers      = "customers"
	FeatureInvoices       = "invoices"
	FeatureAnalytics      = "analytics"
	FeaturePaymentMethods = "payment-methods"
	FeatureSettings       = "settings"
	FeatureKitchen        = "kitchen"
)

// Feature is a global catalog entry with per-plan default entitlements.
// Rows are created by migration and read-only at runtime.
type Feature struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	DefaultFree Flag      `json:"default_free" gorm:"type:boolean;default:false"`
	DefaultPro  Flag      `json:"default_pro" gorm:"type:boolean;default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// CafeFeatureOverride forces a feature on or off for one cafe regardless of
// plan defaults. This table is the single override mechanism; the legacy
// enabled_modules JSON column was folded into it.
type CafeFeatureOverride struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CafeID     uint      `json:"cafe_id" gorm:"uniqueIndex:idx_cafe_feature;not null"`
	FeatureKey string    `json:"feature_key" gorm:"type:varchar(50);uniqueIndex:idx_cafe_feature;not null"`
	Enabled    Flag      `json:"enabled" gorm:"type:boolean;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SeedFeatures is the catalog installed by the migration path.
func SeedFeatures() []Feature {
	return []Feature{
		{Key: FeatureOrders, Name: "Orders", Description: "Point-of-sale order taking", DefaultFree: true, DefaultPro: true},
		{Key: FeatureMenu, Name: "Menu", Description: "Menu item management", DefaultFree: true, DefaultPro: true},
		{Key: FeatureInventory, Name: "Inventory", Description: "Stock tracking", DefaultFree: true, DefaultPro: true},
		{Key: FeatureCustomers, Name: "Customers", Description: "Loyalty customer management", DefaultFree: true, DefaultPro: true},
		{Key: FeatureInvoices, Name: "Invoices", Description: "Invoice generation", DefaultFree: true, DefaultPro: true},
		{Key: FeatureKitchen, Name: "Kitchen", Description: "Kitchen display board", DefaultFree: true, DefaultPro: true},
		{Key: FeaturePaymentMethods, Name: "Payment Methods", Description: "Configurable payment methods", DefaultFree: true, DefaultPro: true},
		{Key: FeatureSettings, Name: "Settings", Description: "Cafe settings and branding", DefaultFree: true, DefaultPro: true},
		{Key: FeatureAnalytics, Name: "Analytics", Description: "Daily sales analytics", DefaultFree: false, DefaultPro: true},
	}
}
