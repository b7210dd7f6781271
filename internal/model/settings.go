package model

import (
	"time"
)

// UI tabs referenced by the visibility columns.
const (
	TabKitchen  = "kitchen"
	TabMenu     = "menu"
	TabHistory  = "history"
	TabSettings = "settings"
	TabReports  = "reports"
)

// Permission actions referenced by the permission columns.
const (
	PermManageSettings  = "manage-settings"
	PermManageUsers     = "manage-users"
	PermViewReports     = "view-reports"
	PermManageInventory = "manage-inventory"
	PermManageMenu      = "manage-menu"
	PermCreateOrders    = "create-orders"
	PermEditOrders      = "edit-orders"
	PermViewCustomers   = "view-customers"
	PermViewPayments    = "view-payments"
)

// CafeSettings holds the per-cafe role visibility and permission matrix as
// explicit boolean columns, plus branding and printer options. Exactly one
// row exists per cafe; every update appends a snapshot to CafeSettingsHistory.
type CafeSettings struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	CafeID uint `json:"cafe_id" gorm:"uniqueIndex;not null"`

	// Tab visibility per role
	AdminShowKitchenTab  Flag `json:"admin_show_kitchen_tab" gorm:"type:boolean;default:true"`
	AdminShowMenuTab     Flag `json:"admin_show_menu_tab" gorm:"type:boolean;default:true"`
	AdminShowHistoryTab  Flag `json:"admin_show_history_tab" gorm:"type:boolean;default:true"`
	AdminShowSettingsTab Flag `json:"admin_show_settings_tab" gorm:"type:boolean;default:true"`
	AdminShowReportsTab  Flag `json:"admin_show_reports_tab" gorm:"type:boolean;default:true"`

	UserShowKitchenTab  Flag `json:"user_show_kitchen_tab" gorm:"type:boolean;default:true"`
	UserShowMenuTab     Flag `json:"user_show_menu_tab" gorm:"type:boolean;default:true"`
	UserShowHistoryTab  Flag `json:"user_show_history_tab" gorm:"type:boolean;default:true"`
	UserShowSettingsTab Flag `json:"user_show_settings_tab" gorm:"type:boolean;default:true"`
	UserShowReportsTab  Flag `json:"user_show_reports_tab" gorm:"type:boolean;default:true"`

	ReceptionShowKitchenTab  Flag `json:"reception_show_kitchen_tab" gorm:"type:boolean;default:true"`
	ReceptionShowMenuTab     Flag `json:"reception_show_menu_tab" gorm:"type:boolean;default:false"`
	ReceptionShowHistoryTab  Flag `json:"reception_show_history_tab" gorm:"type:boolean;default:false"`
	ReceptionShowSettingsTab Flag `json:"reception_show_settings_tab" gorm:"type:boolean;default:false"`
	ReceptionShowReportsTab  Flag `json:"reception_show_reports_tab" gorm:"type:boolean;default:false"`

	ChefShowKitchenTab  Flag `json:"chef_show_kitchen_tab" gorm:"type:boolean;default:true"`
	ChefShowMenuTab     Flag `json:"chef_show_menu_tab" gorm:"type:boolean;default:false"`
	ChefShowHistoryTab  Flag `json:"chef_show_history_tab" gorm:"type:boolean;default:false"`
	ChefShowSettingsTab Flag `json:"chef_show_settings_tab" gorm:"type:boolean;default:false"`
	ChefShowReportsTab  Flag `json:"chef_show_reports_tab" gorm:"type:boolean;default:false"`

	// Permissions per role
	AdminCanManageSettings  Flag `json:"admin_can_manage_settings" gorm:"type:boolean;default:true"`
	AdminCanManageUsers     Flag `json:"admin_can_manage_users" gorm:"type:boolean;default:true"`
	AdminCanViewReports     Flag `json:"admin_can_view_reports" gorm:"type:boolean;default:true"`
	AdminCanManageInventory Flag `json:"admin_can_manage_inventory" gorm:"type:boolean;default:true"`
	AdminCanManageMenu      Flag `json:"admin_can_manage_menu" gorm:"type:boolean;default:true"`

	UserCanCreateOrders  Flag `json:"user_can_create_orders" gorm:"type:boolean;default:true"`
	UserCanEditOrders    Flag `json:"user_can_edit_orders" gorm:"type:boolean;default:true"`
	UserCanViewCustomers Flag `json:"user_can_view_customers" gorm:"type:boolean;default:true"`
	UserCanViewPayments  Flag `json:"user_can_view_payments" gorm:"type:boolean;default:true"`

	ReceptionCanCreateOrders  Flag `json:"reception_can_create_orders" gorm:"type:boolean;default:true"`
	ReceptionCanEditOrders    Flag `json:"reception_can_edit_orders" gorm:"type:boolean;default:true"`
	ReceptionCanViewCustomers Flag `json:"reception_can_view_customers" gorm:"type:boolean;default:true"`
	ReceptionCanViewPayments  Flag `json:"reception_can_view_payments" gorm:"type:boolean;default:true"`

	ChefCanEditOrders Flag `json:"chef_can_edit_orders" gorm:"type:boolean;default:true"`

	// Branding / printer options
	LogoURL          string `json:"logo_url" gorm:"type:varchar(255)"`
	BrandColor       string `json:"brand_color" gorm:"type:varchar(20)"`
	ReceiptFooter    string `json:"receipt_footer" gorm:"type:text"`
	PrinterName      string `json:"printer_name" gorm:"type:varchar(100)"`
	PrinterPaperSize string `json:"printer_paper_size" gorm:"type:varchar(20)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CafeSettingsHistory is the append-only shadow of CafeSettings. Every
// settings update writes the post-update state here as a JSON snapshot.
type CafeSettingsHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CafeID    uint      `json:"cafe_id" gorm:"index;not null"`
	Snapshot  string    `json:"snapshot" gorm:"type:jsonb;not null"`
	ChangedBy *uint     `json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultCafeSettings returns the seeded settings row for a new cafe.
// Column defaults mirror the zero configuration every cafe starts with.
func DefaultCafeSettings(cafeID uint) *CafeSettings {
	return &CafeSettings{
		CafeID: cafeID,

		AdminShowKitchenTab:  true,
		AdminShowMenuTab:     true,
		AdminShowHistoryTab:  true,
		AdminShowSettingsTab: true,
		AdminShowReportsTab:  true,

		UserShowKitchenTab:  true,
		UserShowMenuTab:     true,
		UserShowHistoryTab:  true,
		UserShowSettingsTab: true,
		UserShowReportsTab:  true,

		ReceptionShowKitchenTab: true,
		ChefShowKitchenTab:      true,

		AdminCanManageSettings:  true,
		AdminCanManageUsers:     true,
		AdminCanViewReports:     true,
		AdminCanManageInventory: true,
		AdminCanManageMenu:      true,

		UserCanCreateOrders:  true,
		UserCanEditOrders:    true,
		UserCanViewCustomers: true,
		UserCanViewPayments:  true,

		ReceptionCanCreateOrders:  true,
		ReceptionCanEditOrders:    true,
		ReceptionCanViewCustomers: true,
		ReceptionCanViewPayments:  true,

		ChefCanEditOrders: true,
	}
}
