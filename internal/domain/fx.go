// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	membership.Module,
)
