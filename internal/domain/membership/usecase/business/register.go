package business

import (
	"context"
	"fmt"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
)

// Register binds a billing email to the caller and reports whether it unlocks an
// active subscription. An active member loses any pending join and, if outside
// the channel, is re-admitted with a fresh invite link.
func (uc *UseCase) Register(ctx context.Context, memberID int64, email string) (*dto.RegisterResult, error) {
	if email == "" {
		return nil, domainerrors.ErrEmptyEmail
	}

	if err := uc.identities.Register(ctx, email, memberID); err != nil {
		uc.logger.Error().Err(err).Int64("member_id", memberID).Msg("failed to register email")
		return nil, err
	}

	active, err := uc.subscriptions.IsActive(ctx, memberID)
	if err != nil {
		uc.logger.Error().Err(err).Int64("member_id", memberID).Msg("failed to check subscription after registration")
		active = false
	}

	result := &dto.RegisterResult{Active: active}
	uc.notifyAdmin(ctx, fmt.Sprintf(adminRegistered, email, memberID, active))

	if !active {
		return result, nil
	}

	if uc.pending.Remove(memberID) {
		uc.metrics.UpdatePendingJoins(uc.pending.Len())
		uc.logger.Info().Int64("member_id", memberID).Msg("pending join confirmed by registration")
	}

	if sub, err := uc.subscriptions.Get(ctx, memberID); err == nil {
		result.Subscriber = sub
	}

	status, err := uc.gateway.GetMembershipStatus(ctx, memberID)
	if err != nil {
		uc.gatewayFailed("get_membership_status", memberID, err)
		return result, nil
	}

	if !status.InChannel() {
		link, err := uc.gateway.AddMember(ctx, memberID)
		if err != nil {
			uc.gatewayFailed("add_member", memberID, err)
			return result, nil
		}
		result.InviteLink = link
	}

	return result, nil
}
