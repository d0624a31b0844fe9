package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/contracts-billing/internal/config"
)

func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime != "" {
		lifetime, err := time.ParseDuration(cfg.DB.ConnMaxLifetime)
		if err != nil {
			return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME is not a valid duration: %w", err)
		}
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := runMigrations(database); err != nil {
		return nil, err
	}

	log.Info().Msg("database connected and migrated")
	return database, nil
}
