package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	require.NoError(t, err)
	return date
}

func TestMenuCreate_ValidatesPrice(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewMenuHandler(db)

	c, rec := newContext(t, http.MethodPost, "/menu", `{"name":"Latte","price":0}`, cafe, nil)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(t, http.MethodPost, "/menu", `{"name":"Latte","price":4.5,"category":"drinks"}`, cafe, nil)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item model.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, cafe.ID, item.CafeID)
	assert.True(t, item.IsAvailable.Bool())
}

func TestMenuList_FiltersByCategoryAndAvailability(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewMenuHandler(db)

	require.NoError(t, db.Create(&model.MenuItem{CafeID: cafe.ID, Name: "Latte", Price: 4.5, Category: "drinks", IsAvailable: true}).Error)
	require.NoError(t, db.Create(&model.MenuItem{CafeID: cafe.ID, Name: "Mocha", Price: 5, Category: "drinks", IsAvailable: false}).Error)
	require.NoError(t, db.Create(&model.MenuItem{CafeID: cafe.ID, Name: "Scone", Price: 3, Category: "bakes", IsAvailable: true}).Error)

	c, rec := newContext(t, http.MethodGet, "/menu?category=drinks", "", cafe, nil)
	require.NoError(t, h.List(c))
	var items []model.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)

	c, rec = newContext(t, http.MethodGet, "/menu?category=drinks&available=true", "", cafe, nil)
	require.NoError(t, h.List(c))
	items = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Latte", items[0].Name)
}

func TestMenuGet_ScopedToCafe(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	other := seedCafe(t, db, "other-cafe")
	h := NewMenuHandler(db)

	item := model.MenuItem{CafeID: cafe.ID, Name: "Latte", Price: 4.5, IsAvailable: true}
	require.NoError(t, db.Create(&item).Error)

	c, rec := newContext(t, http.MethodGet, "/menu/1", "", other, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(item.ID))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventoryList_LowStockFilter(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewInventoryHandler(db)

	require.NoError(t, db.Create(&model.InventoryItem{CafeID: cafe.ID, Name: "Beans", Quantity: 2, ReorderLevel: 5}).Error)
	require.NoError(t, db.Create(&model.InventoryItem{CafeID: cafe.ID, Name: "Milk", Quantity: 20, ReorderLevel: 5}).Error)

	c, rec := newContext(t, http.MethodGet, "/inventory?low=true", "", cafe, nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Beans", items[0].Name)
}

func TestAnalyticsDaily_SummarizesRange(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h := NewAnalyticsHandler(db)

	require.NoError(t, db.Create(&model.CafeDailyMetrics{
		CafeID: cafe.ID, Date: mustDate(t, "2026-08-20"), TotalOrders: 4, TotalRevenue: 50, NewCustomers: 2,
	}).Error)
	require.NoError(t, db.Create(&model.CafeDailyMetrics{
		CafeID: cafe.ID, Date: mustDate(t, "2026-08-21"), TotalOrders: 6, TotalRevenue: 70, NewCustomers: 1,
	}).Error)

	c, rec := newContext(t, http.MethodGet, "/analytics/daily?from=2026-08-20&to=2026-08-21", "", cafe, nil)
	require.NoError(t, h.Daily(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Days    []model.CafeDailyMetrics `json:"days"`
		Summary struct {
			TotalOrders  int     `json:"total_orders"`
			TotalRevenue float64 `json:"total_revenue"`
			NewCustomers int     `json:"new_customers"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 2)
	assert.Equal(t, 10, resp.Summary.TotalOrders)
	assert.InDelta(t, 120, resp.Summary.TotalRevenue, 0.001)
	assert.Equal(t, 3, resp.Summary.NewCustomers)
}
