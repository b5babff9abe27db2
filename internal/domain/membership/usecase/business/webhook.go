package business

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
)

// ProcessBillingEvent applies one billing event. Each step gates the next:
// authenticate, validate, resolve identity, classify plan, apply transition, notify admin.
func (uc *UseCase) ProcessBillingEvent(ctx context.Context, event *dto.BillingEvent) (dto.WebhookOutcome, error) {
	if err := uc.authenticate(event); err != nil {
		uc.metrics.RecordWebhookEvent(event.Event, "unauthorized")
		uc.logger.Warn().Str("event", event.Event).Msg("billing event rejected: invalid token")
		return "", err
	}

	expiry, err := validateEvent(event)
	if err != nil {
		uc.metrics.RecordWebhookEvent(event.Event, "invalid")
		uc.logger.Warn().Err(err).Str("event", event.Event).Msg("billing event rejected")
		return "", err
	}

	email := event.Data.UserEmail
	memberID, found, err := uc.identities.Resolve(ctx, email)
	if err != nil {
		uc.metrics.RecordWebhookEvent(event.Event, "error")
		uc.logger.Error().Err(err).Str("email", email).Msg("failed to resolve billing email")
		return "", err
	}
	if !found {
		uc.metrics.RecordWebhookEvent(event.Event, string(dto.OutcomeUnmapped))
		uc.logger.Warn().
			Str("email", email).
			Str("event", event.Event).
			Msg("billing email not mapped to any member, ask the buyer to /register")
		return dto.OutcomeUnmapped, nil
	}

	plan := entities.PlanForAmount(event.Data.PlanAmount)

	var outcome dto.WebhookOutcome
	switch event.Event {
	case consts.EventPurchaseApproved, consts.EventRenewalApproved:
		if err := uc.activate(ctx, memberID, email, plan, expiry); err != nil {
			uc.metrics.RecordWebhookEvent(event.Event, "error")
			return "", err
		}
		uc.notifyAdmin(ctx, fmt.Sprintf(adminActivated, plan.Label(), email, memberID))
		outcome = dto.OutcomeActivated

	case consts.EventCancelled, consts.EventPaymentOverdue:
		if err := uc.expire(ctx, memberID, email, plan, consts.SourceWebhook); err != nil {
			uc.metrics.RecordWebhookEvent(event.Event, "error")
			return "", err
		}
		uc.notifyAdmin(ctx, fmt.Sprintf(adminCancelled, plan.Label(), email, memberID))
		outcome = dto.OutcomeExpired

	default:
		uc.logger.Info().
			Str("event", event.Event).
			Int64("member_id", memberID).
			Msg("billing event kind ignored")
		uc.notifyAdmin(ctx, fmt.Sprintf(adminIgnored, event.Event, email, memberID))
		outcome = dto.OutcomeIgnored
	}

	uc.metrics.RecordWebhookEvent(event.Event, string(outcome))
	uc.logger.Info().
		Str("event", event.Event).
		Str("outcome", string(outcome)).
		Int64("member_id", memberID).
		Str("plan", string(plan)).
		Str("expiry_date", expiry.String()).
		Msg("billing event processed")

	return outcome, nil
}

// authenticate accepts the event when the secret is unset or either token matches it
func (uc *UseCase) authenticate(event *dto.BillingEvent) error {
	secret := uc.settings.WebhookSecret
	if secret == "" {
		return nil
	}

	for _, token := range []string{event.Token, event.Data.Token} {
		if token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
			return nil
		}
	}
	return domainerrors.ErrUnauthorized
}

func validateEvent(event *dto.BillingEvent) (entities.Date, error) {
	switch {
	case event.Event == "":
		return entities.Date{}, domainerrors.ErrMissingEvent
	case event.Data.UserEmail == "":
		return entities.Date{}, domainerrors.ErrMissingEmail
	case event.Data.ExpiryDate == "":
		return entities.Date{}, domainerrors.ErrMissingExpiryDate
	}

	expiry, err := entities.ParseDate(event.Data.ExpiryDate)
	if err != nil {
		return entities.Date{}, domainerrors.ErrInvalidExpiryDate
	}
	return expiry, nil
}

// activate stores the purchase, then lifts any exclusion and welcomes the member
func (uc *UseCase) activate(ctx context.Context, memberID int64, email string, plan entities.Plan, expiry entities.Date) error {
	if err := uc.subscriptions.UpsertActive(ctx, memberID, email, plan, expiry); err != nil {
		uc.logger.Error().Err(err).Int64("member_id", memberID).Msg("failed to activate subscription")
		return err
	}
	uc.metrics.RecordActivation()

	if uc.pending.Remove(memberID) {
		uc.metrics.UpdatePendingJoins(uc.pending.Len())
		uc.logger.Info().Int64("member_id", memberID).Msg("pending join confirmed by payment")
	}

	welcome := fmt.Sprintf(msgWelcome, plan.Label())
	link, err := uc.gateway.AddMember(ctx, memberID)
	if err != nil {
		uc.gatewayFailed("add_member", memberID, err)
	} else if link != "" {
		welcome += "\n" + fmt.Sprintf(msgInviteLink, link)
	}
	uc.notifyMember(ctx, memberID, welcome)

	uc.publish(ctx, consts.MembershipActivated, consts.SourceWebhook, memberID, email, plan, expiry, nil)
	return nil
}

// expire marks the subscription expired, then removes and notifies the member
func (uc *UseCase) expire(ctx context.Context, memberID int64, email string, plan entities.Plan, source string) error {
	if err := uc.subscriptions.MarkExpired(ctx, memberID); err != nil {
		uc.logger.Error().Err(err).Int64("member_id", memberID).Msg("failed to expire subscription")
		return err
	}
	uc.metrics.RecordExpiration(source)

	if err := uc.gateway.RemoveMember(ctx, memberID); err != nil {
		uc.gatewayFailed("remove_member", memberID, err)
	}
	uc.notifyMember(ctx, memberID, msgExpired)

	uc.publish(ctx, consts.MembershipExpired, source, memberID, email, plan, entities.Date{}, nil)
	return nil
}
