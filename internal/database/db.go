package database

import (
	"fmt"

	"mirotec-backend/internal/config"
	"mirotec-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := config.GetLogger()

	db, err := Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}

	if err := Migrate(db); err != nil {
		log.WithError(err).Fatal("auto migrate failed")
	}

	DB = db
	log.WithField("driver", cfg.DatabaseDriver).Info("database connected, migration complete")
}

// Open picks the gorm dialector by driver name. "sqlite" is for local runs
// and tests; anything else is treated as postgres.
func Open(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// single writer, otherwise "database is locked" under concurrent commands
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		db, err := gorm.Open(postgres.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.AuditLog{},
		&models.InventoryItem{},
		&models.Machine{},
		&models.Client{},
		&models.Order{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.GSTChallan{},
		&models.Transaction{},
		&models.Employee{},
		&models.AttendanceRecord{},
		&models.SalaryConfig{},
		&models.PayrollRecord{},
		&models.ProcessedMonth{},
	)
}
