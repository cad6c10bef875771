package db

import (
	"fmt"
	"time"

	gormModels "staylink/channelsync/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PgDB is the GORM handle used by the domain repositories.
var PgDB *gorm.DB

// InitPostgresORM connects GORM and migrates the engine's schema.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	err = db.AutoMigrate(
		&gormModels.Property{},
		&gormModels.Integration{},
		&gormModels.CalendarDay{},
		&gormModels.PricingRule{},
		&gormModels.SyncLog{},
		&gormModels.PlatformBooking{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	PgDB = db
	return db, nil
}
