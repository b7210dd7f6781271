package main

import (
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/analytics"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/database"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		fromFlag = flag.String("from", "", "start date (YYYY-MM-DD), inclusive")
		toFlag   = flag.String("to", "", "end date (YYYY-MM-DD), inclusive; defaults to from")
		cafeFlag = flag.Uint("cafe", 0, "cafe id to backfill; 0 backfills every cafe")
	)
	flag.Parse()

	cfg, err := config.Load("cafe-backfill")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()

	if *fromFlag == "" {
		log.Fatal("The -from flag is required")
	}
	from, err := time.ParseInLocation(dateLayout, *fromFlag, time.UTC)
	if err != nil {
		log.Fatal("Invalid -from date", zap.Error(err))
	}
	to := from
	if *toFlag != "" {
		to, err = time.ParseInLocation(dateLayout, *toFlag, time.UTC)
		if err != nil {
			log.Fatal("Invalid -to date", zap.Error(err))
		}
	}
	if to.Before(from) {
		log.Fatal("The -to date is before -from")
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	aggregator := analytics.NewAggregator(db, log)

	log.Info("Backfilling daily metrics",
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
		zap.Uint("cafe", *cafeFlag))

	if err := aggregator.Backfill(uint(*cafeFlag), from, to); err != nil {
		log.Fatal("Backfill failed", zap.Error(err))
	}
	log.Info("Backfill complete")
}
