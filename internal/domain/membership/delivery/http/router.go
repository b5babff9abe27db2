package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers membership HTTP routes
type Router struct {
	handler *Handler
	health  *HealthHandler
	logger  zerolog.Logger
}

// NewRouter creates a new membership router
func NewRouter(handler *Handler, health *HealthHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		health:  health,
		logger:  logger,
	}
}

// RegisterRoutes registers membership routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/webhook", r.handler.HandleWebhook)
	rt.GET("/check_pending", r.handler.HandleCheckPending)
	rt.GET("/health", r.health.Handle)

	r.logger.Info().Msg("Membership HTTP routes registered")
}
