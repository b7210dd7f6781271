package entitlement

import (
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

// RolePolicy is the effective visibility and permission set for one role in
// one cafe, derived from the stored settings row.
type RolePolicy struct {
	VisibleTabs map[string]bool `json:"visible_tabs"`
	Permissions map[string]bool `json:"permissions"`
}

// Sees reports whether the role sees the given UI tab.
func (p RolePolicy) Sees(tab string) bool {
	return p.VisibleTabs[tab]
}

// Can reports whether the role holds the given permission.
func (p RolePolicy) Can(action string) bool {
	return p.Permissions[action]
}

// ResolveRole derives the policy for a role from the cafe settings row.
// Super-admins never reach this resolver; the authorization pipeline
// bypasses them with all permissions in all cafes.
func ResolveRole(settings *model.CafeSettings, role string) RolePolicy {
	switch role {
	case model.RoleAdmin:
		return RolePolicy{
			VisibleTabs: map[string]bool{
				model.TabKitchen:  settings.AdminShowKitchenTab.Bool(),
				model.TabMenu:     settings.AdminShowMenuTab.Bool(),
				model.TabHistory:  settings.AdminShowHistoryTab.Bool(),
				model.TabSettings: settings.AdminShowSettingsTab.Bool(),
				model.TabReports:  settings.AdminShowReportsTab.Bool(),
			},
			Permissions: map[string]bool{
				model.PermManageSettings:  settings.AdminCanManageSettings.Bool(),
				model.PermManageUsers:     settings.AdminCanManageUsers.Bool(),
				model.PermViewReports:     settings.AdminCanViewReports.Bool(),
				model.PermManageInventory: settings.AdminCanManageInventory.Bool(),
				model.PermManageMenu:      settings.AdminCanManageMenu.Bool(),
				// Admins always retain the operational floor.
				model.PermCreateOrders:  true,
				model.PermEditOrders:    true,
				model.PermViewCustomers: true,
				model.PermViewPayments:  true,
			},
		}
	case model.RoleUser:
		return RolePolicy{
			VisibleTabs: map[string]bool{
				model.TabKitchen:  settings.UserShowKitchenTab.Bool(),
				model.TabMenu:     settings.UserShowMenuTab.Bool(),
				model.TabHistory:  settings.UserShowHistoryTab.Bool(),
				model.TabSettings: settings.UserShowSettingsTab.Bool(),
				model.TabReports:  settings.UserShowReportsTab.Bool(),
			},
			Permissions: map[string]bool{
				model.PermCreateOrders:  settings.UserCanCreateOrders.Bool(),
				model.PermEditOrders:    settings.UserCanEditOrders.Bool(),
				model.PermViewCustomers: settings.UserCanViewCustomers.Bool(),
				model.PermViewPayments:  settings.UserCanViewPayments.Bool(),
			},
		}
	case model.RoleReception:
		return RolePolicy{
			VisibleTabs: map[string]bool{
				model.TabKitchen:  settings.ReceptionShowKitchenTab.Bool(),
				model.TabMenu:     settings.ReceptionShowMenuTab.Bool(),
				model.TabHistory:  settings.ReceptionShowHistoryTab.Bool(),
				model.TabSettings: settings.ReceptionShowSettingsTab.Bool(),
				model.TabReports:  settings.ReceptionShowReportsTab.Bool(),
			},
			Permissions: map[string]bool{
				model.PermCreateOrders:  settings.ReceptionCanCreateOrders.Bool(),
				model.PermEditOrders:    settings.ReceptionCanEditOrders.Bool(),
				model.PermViewCustomers: settings.ReceptionCanViewCustomers.Bool(),
				model.PermViewPayments:  settings.ReceptionCanViewPayments.Bool(),
			},
		}
	case model.RoleChef:
		return RolePolicy{
			VisibleTabs: map[string]bool{
				model.TabKitchen:  settings.ChefShowKitchenTab.Bool(),
				model.TabMenu:     settings.ChefShowMenuTab.Bool(),
				model.TabHistory:  settings.ChefShowHistoryTab.Bool(),
				model.TabSettings: settings.ChefShowSettingsTab.Bool(),
				model.TabReports:  settings.ChefShowReportsTab.Bool(),
			},
			Permissions: map[string]bool{
				model.PermEditOrders: settings.ChefCanEditOrders.Bool(),
			},
		}
	default:
		return RolePolicy{
			VisibleTabs: map[string]bool{},
			Permissions: map[string]bool{},
		}
	}
}
