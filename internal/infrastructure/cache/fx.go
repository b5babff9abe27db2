// Package cache contains in-memory state shared between handlers
package cache

import "go.uber.org/fx"

// Module provides in-memory caches for fx DI
var Module = fx.Module("cache",
	fx.Provide(NewPendingJoins),
)
