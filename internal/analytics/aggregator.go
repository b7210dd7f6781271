package analytics

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/prometheus"
)

// Aggregator recomputes per-cafe daily metrics from completed orders.
type Aggregator struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAggregator creates an aggregator over the given database handle.
func NewAggregator(db *gorm.DB, log *zap.Logger) *Aggregator {
	return &Aggregator{db: db, log: log}
}

// RecomputeDay rebuilds the metrics row for one cafe and one calendar day.
// Re-running for the same day replaces the previous values.
func (a *Aggregator) RecomputeDay(cafeID uint, date time.Time) error {
	day := date.Truncate(24 * time.Hour)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	defer prometheus.TrackDBOperation("aggregate")(time.Now())

	var orderStats struct {
		TotalOrders  int
		TotalRevenue float64
	}
	err := a.db.Model(&model.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total), 0) AS total_revenue").
		Where("cafe_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			cafeID, model.OrderCompleted, start, end).
		Scan(&orderStats).Error
	if err != nil {
		return err
	}

	var newCustomers int64
	err = a.db.Model(&model.Customer{}).
		Where("cafe_id = ? AND created_at >= ? AND created_at < ?", cafeID, start, end).
		Count(&newCustomers).Error
	if err != nil {
		return err
	}

	row := model.CafeDailyMetrics{
		CafeID:       cafeID,
		Date:         start,
		TotalOrders:  orderStats.TotalOrders,
		TotalRevenue: orderStats.TotalRevenue,
		NewCustomers: int(newCustomers),
	}
	return a.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cafe_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_orders", "total_revenue", "new_customers", "updated_at",
		}),
	}).Create(&row).Error
}

// RecomputeAll rebuilds one day's metrics for every cafe. Failures on a
// single cafe are logged and do not stop the others.
func (a *Aggregator) RecomputeAll(date time.Time) error {
	var cafes []model.Cafe
	if err := a.db.Order("id").Find(&cafes).Error; err != nil {
		return err
	}
	for _, cafe := range cafes {
		if err := a.RecomputeDay(cafe.ID, date); err != nil {
			a.log.Warn("Daily metrics recompute failed",
				zap.Uint("cafe_id", cafe.ID),
				zap.String("date", date.Format("2006-01-02")),
				zap.Error(err))
		}
	}
	return nil
}

// Backfill recomputes metrics for each day in [from, to] inclusive. A zero
// cafeID recomputes every cafe.
func (a *Aggregator) Backfill(cafeID uint, from, to time.Time) error {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	for day := from; !day.After(to); day = day.Add(24 * time.Hour) {
		if cafeID != 0 {
			if err := a.RecomputeDay(cafeID, day); err != nil {
				return err
			}
			continue
		}
		if err := a.RecomputeAll(day); err != nil {
			return err
		}
	}
	return nil
}

// Schedule registers the nightly recompute job (covering the previous day)
// on the given cron spec and starts the scheduler. The returned cron should
// be stopped on shutdown.
func (a *Aggregator) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		yesterday := time.Now().UTC().Add(-24 * time.Hour)
		a.log.Info("Running nightly metrics aggregation",
			zap.String("date", yesterday.Format("2006-01-02")))
		if err := a.RecomputeAll(yesterday); err != nil {
			a.log.Error("Nightly metrics aggregation failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
