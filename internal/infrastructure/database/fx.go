// Package database contains the durable store connection
package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Lucxx50/BotLucasAllan/config"
)

// Module provides database components for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewDBFx),
)

// NewDBFx opens the database and applies migrations. Any failure aborts startup.
func NewDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logCfg *config.LoggingConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	db, err := Open(cfg, logCfg.Level)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if cfg.Driver == DriverSQLite {
		name = cfg.Path
	}

	if err := RunMigrations(db, cfg.Driver, name); err != nil {
		logger.Error().Err(err).Msg("Failed to run migrations")
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	logger.Info().Msg("Database migrations completed successfully")

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
				return err
			}
			logger.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("driver", cfg.Driver).
		Str("database", name).
		Msg("Database connected")

	return db, nil
}
