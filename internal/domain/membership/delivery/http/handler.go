// Package http contains HTTP delivery for the membership domain
package http

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

const (
	statusSuccess        = "success"
	statusEmailNotMapped = "email not mapped"
)

// Handler handles billing webhook and grace check requests
type Handler struct {
	svc    deps.MembershipService
	mapper *pkgerrors.Mapper
	logger zerolog.Logger
}

// NewHandler creates a new membership HTTP handler
func NewHandler(svc deps.MembershipService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		mapper: mapper,
		logger: logger.With().Str("handler", "membership").Logger(),
	}
}

// HandleWebhook handles POST /webhook
func (h *Handler) HandleWebhook(ctx *fasthttp.RequestCtx) {
	var event dto.BillingEvent
	if err := json.Unmarshal(ctx.PostBody(), &event); err != nil {
		h.logger.Warn().Err(err).Int("body_size", len(ctx.PostBody())).Msg("malformed webhook payload")
		h.writeError(ctx, fasthttp.StatusBadRequest, domainerrors.ErrMalformedPayload.Error())
		return
	}

	outcome, err := h.svc.ProcessBillingEvent(ctx, &event)
	if err != nil {
		status, message := h.mapper.MapErrorToHTTP(err)
		h.writeError(ctx, status, message)
		return
	}

	if outcome == dto.OutcomeUnmapped {
		h.writeJSON(ctx, fasthttp.StatusOK, dto.StatusResponse{Status: statusEmailNotMapped})
		return
	}

	h.writeJSON(ctx, fasthttp.StatusOK, dto.StatusResponse{Status: statusSuccess})
}

// HandleCheckPending handles GET /check_pending
func (h *Handler) HandleCheckPending(ctx *fasthttp.RequestCtx) {
	removed, err := h.svc.CheckPendingJoins(ctx)
	if err != nil {
		h.logger.Error().Err(err).Int("removed", removed).Msg("grace check failed")
		h.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Debug().Int("removed", removed).Msg("grace check completed")
	h.writeJSON(ctx, fasthttp.StatusOK, dto.StatusResponse{Status: statusSuccess})
}

// writeJSON writes JSON response
func (h *Handler) writeJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes error response
func (h *Handler) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	h.writeJSON(ctx, status, dto.ErrorResponse{Error: message})
}
