// Package kafka contains Kafka delivery handlers
package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// Handlers contains Kafka message handlers
type Handlers struct {
	svc    deps.MembershipService
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(svc deps.MembershipService, logger zerolog.Logger) *Handlers {
	return &Handlers{
		svc:    svc,
		logger: logger,
	}
}

// HandleBillingEvent applies a billing event delivered over Kafka.
// Only transient failures are returned; rejected events would fail the same way on redelivery.
func (h *Handlers) HandleBillingEvent(ctx context.Context, data []byte) error {
	var event dto.BillingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error().Err(err).Int("size", len(data)).Msg("Failed to unmarshal billing event")
		return domainerrors.ErrMalformedPayload
	}

	outcome, err := h.svc.ProcessBillingEvent(ctx, &event)
	if err != nil {
		if pkgerrors.IsValidation(err) || pkgerrors.IsUnauthorized(err) {
			h.logger.Warn().Err(err).Str("event", event.Event).Msg("Billing event rejected")
			return nil
		}
		h.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to process billing event")
		return err
	}

	h.logger.Info().
		Str("event", event.Event).
		Str("outcome", string(outcome)).
		Msg("Billing event processed from Kafka")
	return nil
}
