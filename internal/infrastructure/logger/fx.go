// Package logger contains logger infrastructure
package logger

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

// provideLogger creates logger from config
func provideLogger(lc fx.Lifecycle, cfg *config.LoggingConfig) (zerolog.Logger, error) {
	if cfg.File == "" {
		return New(cfg.Level), nil
	}

	logger, closer, err := NewWithFile(cfg.Level, cfg.File)
	if err != nil {
		return zerolog.Logger{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return closer.Close()
		},
	})

	return logger, nil
}
