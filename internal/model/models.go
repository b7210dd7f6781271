package model

// All returns every model in migration order. The migration path is the
// schema gate: the server refuses to boot if AutoMigrate over this list
// fails, so handlers never probe the information schema at request time.
func All() []interface{} {
	return []interface{}{
		&Cafe{},
		&User{},
		&Feature{},
		&CafeFeatureOverride{},
		&CafeSettings{},
		&CafeSettingsHistory{},
		&Customer{},
		&MenuItem{},
		&InventoryItem{},
		&Order{},
		&OrderItem{},
		&Invoice{},
		&PaymentMethod{},
		&CafeDailyMetrics{},
		&SubscriptionAuditLog{},
		&ImpersonationAuditLog{},
	}
}
