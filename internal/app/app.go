// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/config"
	"github.com/Lucxx50/BotLucasAllan/internal/domain"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, telegram bot, http server)
		infrastructure.Module,

		// Domain (membership business logic)
		domain.Module,
	)
}
