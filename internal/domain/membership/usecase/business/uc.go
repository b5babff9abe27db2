// Package business contains business logic for the membership domain
package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	"github.com/Lucxx50/BotLucasAllan/internal/infrastructure/metrics"
	"github.com/Lucxx50/BotLucasAllan/pkg/clock"
)

// Settings holds the operator configuration the use case needs
type Settings struct {
	AdminID       int64
	WebhookSecret string
	Location      *time.Location
}

// UseCase contains the subscription lifecycle and membership reconciliation logic
type UseCase struct {
	subscriptions deps.SubscriptionRepository
	identities    deps.IdentityRepository
	pending       deps.PendingJoinStore
	gateway       deps.MembershipGateway
	publisher     deps.MembershipEventPublisher
	clock         clock.Clock
	metrics       *metrics.Metrics
	settings      Settings
	logger        zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	subscriptions deps.SubscriptionRepository,
	identities deps.IdentityRepository,
	pending deps.PendingJoinStore,
	gateway deps.MembershipGateway,
	publisher deps.MembershipEventPublisher,
	clk clock.Clock,
	m *metrics.Metrics,
	settings Settings,
	logger zerolog.Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &UseCase{
		subscriptions: subscriptions,
		identities:    identities,
		pending:       pending,
		gateway:       gateway,
		publisher:     publisher,
		clock:         clk,
		metrics:       m,
		settings:      settings,
		logger:        logger.With().Str("component", "membership_usecase").Logger(),
	}
}

var _ deps.MembershipService = (*UseCase)(nil)

// today is the operator's calendar date
func (uc *UseCase) today() entities.Date {
	return entities.DateOf(uc.clock.Now().In(uc.settings.Location))
}

// Status returns the caller's subscription
func (uc *UseCase) Status(ctx context.Context, memberID int64) (*entities.Subscriber, error) {
	return uc.subscriptions.Get(ctx, memberID)
}

// notifyMember sends a direct message; failures are logged and absorbed
func (uc *UseCase) notifyMember(ctx context.Context, memberID int64, text string) {
	if err := uc.gateway.SendDirectMessage(ctx, memberID, text); err != nil {
		uc.gatewayFailed("send_direct_message", memberID, err)
	}
}

// notifyAdmin sends an operator notice; failures are logged and absorbed
func (uc *UseCase) notifyAdmin(ctx context.Context, text string) {
	if uc.settings.AdminID == 0 {
		return
	}
	if err := uc.gateway.SendDirectMessage(ctx, uc.settings.AdminID, text); err != nil {
		uc.gatewayFailed("notify_admin", uc.settings.AdminID, err)
	}
}

func (uc *UseCase) gatewayFailed(operation string, memberID int64, err error) {
	uc.metrics.RecordGatewayError(operation)
	uc.logger.Warn().
		Err(err).
		Str("operation", operation).
		Int64("member_id", memberID).
		Msg("membership gateway call failed")
}

// publish emits a membership event; failures never roll back store state
func (uc *UseCase) publish(ctx context.Context, eventType, source string, memberID int64, email string, plan entities.Plan, expiry entities.Date, daysLeft *int) {
	event := &dto.MembershipEvent{
		Type:       eventType,
		MemberID:   memberID,
		Email:      email,
		Source:     source,
		DaysLeft:   daysLeft,
		OccurredAt: uc.clock.Now().UTC(),
	}
	if plan != "" {
		event.Plan = string(plan)
	}
	if !expiry.IsZero() {
		event.ExpiryDate = expiry.String()
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("type", eventType).
			Int64("member_id", memberID).
			Msg("failed to publish membership event")
	}
}
