package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, cafeID uint, status string, total float64, at time.Time) {
	t.Helper()
	order := model.Order{CafeID: cafeID, Status: status, Total: total, CreatedAt: at}
	require.NoError(t, db.Create(&order).Error)
}

func metricsFor(t *testing.T, db *gorm.DB, cafeID uint, day time.Time) *model.CafeDailyMetrics {
	t.Helper()
	var row model.CafeDailyMetrics
	err := db.Where("cafe_id = ? AND date = ?", cafeID, day).First(&row).Error
	require.NoError(t, err)
	return &row
}

func TestRecomputeDay_CountsCompletedOrdersOnly(t *testing.T) {
	db := testDB(t)
	cafe, err := store.NewCafeStore(db).Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedOrder(t, db, cafe.ID, model.OrderCompleted, 10, day.Add(9*time.Hour))
	seedOrder(t, db, cafe.ID, model.OrderCompleted, 15, day.Add(13*time.Hour))
	seedOrder(t, db, cafe.ID, model.OrderCancelled, 99, day.Add(14*time.Hour))
	seedOrder(t, db, cafe.ID, model.OrderCompleted, 50, day.Add(25*time.Hour))

	require.NoError(t, db.Create(&model.Customer{
		CafeID: cafe.ID, Name: "Asha", CreatedAt: day.Add(10 * time.Hour),
	}).Error)

	agg := NewAggregator(db, zap.NewNop())
	require.NoError(t, agg.RecomputeDay(cafe.ID, day))

	row := metricsFor(t, db, cafe.ID, day)
	assert.Equal(t, 2, row.TotalOrders)
	assert.InDelta(t, 25, row.TotalRevenue, 0.001)
	assert.Equal(t, 1, row.NewCustomers)
}

func TestRecomputeDay_RerunReplacesRow(t *testing.T) {
	db := testDB(t)
	cafe, err := store.NewCafeStore(db).Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	seedOrder(t, db, cafe.ID, model.OrderCompleted, 10, day.Add(9*time.Hour))

	agg := NewAggregator(db, zap.NewNop())
	require.NoError(t, agg.RecomputeDay(cafe.ID, day))
	assert.Equal(t, 1, metricsFor(t, db, cafe.ID, day).TotalOrders)

	seedOrder(t, db, cafe.ID, model.OrderCompleted, 20, day.Add(11*time.Hour))
	require.NoError(t, agg.RecomputeDay(cafe.ID, day))

	row := metricsFor(t, db, cafe.ID, day)
	assert.Equal(t, 2, row.TotalOrders)
	assert.InDelta(t, 30, row.TotalRevenue, 0.001)

	var count int64
	require.NoError(t, db.Model(&model.CafeDailyMetrics{}).
		Where("cafe_id = ?", cafe.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rerun must not duplicate the day's row")
}

func TestBackfill_CoversInclusiveRangePerCafe(t *testing.T) {
	db := testDB(t)
	cafes := store.NewCafeStore(db)
	first, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)
	second, err := cafes.Create("other-cafe", "Other Cafe")
	require.NoError(t, err)

	start := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	seedOrder(t, db, first.ID, model.OrderCompleted, 10, start.Add(10*time.Hour))
	seedOrder(t, db, second.ID, model.OrderCompleted, 20, start.Add(34*time.Hour))

	agg := NewAggregator(db, zap.NewNop())
	require.NoError(t, agg.Backfill(0, start, start.Add(48*time.Hour)))

	var count int64
	require.NoError(t, db.Model(&model.CafeDailyMetrics{}).Count(&count).Error)
	assert.Equal(t, int64(6), count, "three days for each of two cafes")

	assert.Equal(t, 1, metricsFor(t, db, first.ID, start).TotalOrders)
	assert.Equal(t, 1, metricsFor(t, db, second.ID, start.Add(24*time.Hour)).TotalOrders)
	assert.Equal(t, 0, metricsFor(t, db, second.ID, start).TotalOrders)
}

func TestBackfill_SingleCafeOnly(t *testing.T) {
	db := testDB(t)
	cafes := store.NewCafeStore(db)
	first, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)
	_, err = cafes.Create("other-cafe", "Other Cafe")
	require.NoError(t, err)

	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	agg := NewAggregator(db, zap.NewNop())
	require.NoError(t, agg.Backfill(first.ID, day, day))

	var count int64
	require.NoError(t, db.Model(&model.CafeDailyMetrics{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
