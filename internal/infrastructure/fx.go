// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/cache"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/database"
	httpfx "github.com/Lucxx50/BotLucasAllan/internal/infrastructure/http"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/logger"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	cache.Module,
	telegram.Module,
	httpfx.Module,
)
