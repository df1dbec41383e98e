package main

import (
	"context"
	"time"

	"mirotec-backend/internal/cache"
	"mirotec-backend/internal/config"
	"mirotec-backend/internal/database"
	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/locking"
	"mirotec-backend/internal/production"
	"mirotec-backend/internal/server"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	log := config.GetLogger()

	decimal.MarshalJSONWithoutQuotes = true

	database.Init(cfg)

	if cfg.RedisAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.Connect(ctx, cfg.RedisAddress)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("redis unavailable")
		}
		locking.SetDefault(locking.NewRedis(rdb))
		log.WithField("address", cfg.RedisAddress).Info("redis connected, using distributed company locks")
	}

	if cfg.ConsumptionTablePath != "" {
		table, err := production.LoadConsumption(cfg.ConsumptionTablePath)
		if err != nil {
			log.WithError(err).Fatal("could not load machine consumption table")
		}
		production.SetConsumption(table)
		log.WithField("path", cfg.ConsumptionTablePath).Info("machine consumption table loaded")
	}

	if cfg.SummaryCacheTTL > 0 {
		finance.SummaryTTL = time.Duration(cfg.SummaryCacheTTL) * time.Second
	}

	app := server.NewApp(cfg)

	log.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
