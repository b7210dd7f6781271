package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
)

func TestSettingsGet_CreatesDefaultsWhenMissing(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	// Drop the row created alongside the cafe to exercise the lazy path
	require.NoError(t, db.Where("cafe_id = ?", cafe.ID).Delete(&model.CafeSettings{}).Error)
	h := NewSettingsHandler(db, store.NewCafeStore(db))

	c, rec := newContext(t, http.MethodGet, "/settings", "", cafe, nil)
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var settings model.CafeSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, cafe.ID, settings.CafeID)
	assert.True(t, settings.AdminCanManageSettings.Bool())
}

func TestSettingsUpdate_PartialMergeAndHistory(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewSettingsHandler(db, store.NewCafeStore(db))

	admin, err := store.NewUserStore(db).Create(store.CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    "owner@test",
		Username: "owner",
		Password: "secret1",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	body := `{"user_can_create_orders":false,"brand_color":"#225533"}`
	c, rec := newContext(t, http.MethodPut, "/settings", body, cafe, admin)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var settings model.CafeSettings
	require.NoError(t, db.Where("cafe_id = ?", cafe.ID).First(&settings).Error)
	assert.False(t, settings.UserCanCreateOrders.Bool())
	assert.Equal(t, "#225533", settings.BrandColor)
	// Fields left out of the request keep their stored values
	assert.True(t, settings.UserCanEditOrders.Bool())

	var history []model.CafeSettingsHistory
	require.NoError(t, db.Where("cafe_id = ?", cafe.ID).Find(&history).Error)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].ChangedBy)
	assert.Equal(t, admin.ID, *history[0].ChangedBy)
	assert.Contains(t, history[0].Snapshot, `"brand_color":"#225533"`)
}

func TestSettingsUpdate_EveryChangeAppendsHistory(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewSettingsHandler(db, store.NewCafeStore(db))

	for _, body := range []string{
		`{"brand_color":"#111111"}`,
		`{"brand_color":"#222222"}`,
		`{"brand_color":"#333333"}`,
	} {
		c, rec := newContext(t, http.MethodPut, "/settings", body, cafe, nil)
		require.NoError(t, h.Update(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, db.Model(&model.CafeSettingsHistory{}).Where("cafe_id = ?", cafe.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestRolePolicies_ReflectsSettingsRow(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	require.NoError(t, db.Model(&model.CafeSettings{}).
		Where("cafe_id = ?", cafe.ID).
		Update("user_can_create_orders", false).Error)
	h := NewSettingsHandler(db, store.NewCafeStore(db))

	c, rec := newContext(t, http.MethodGet, "/settings/role-policies", "", cafe, nil)
	require.NoError(t, h.RolePolicies(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var policies map[string]struct {
		VisibleTabs map[string]bool `json:"visible_tabs"`
		Permissions map[string]bool `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policies))

	assert.False(t, policies["user"].Permissions[model.PermCreateOrders])
	assert.True(t, policies["admin"].Permissions[model.PermCreateOrders])
	assert.True(t, policies["chef"].Permissions[model.PermEditOrders])
}
