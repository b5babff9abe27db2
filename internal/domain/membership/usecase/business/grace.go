package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// RecordJoin starts the grace period for a member who just joined the channel
func (uc *UseCase) RecordJoin(ctx context.Context, memberID int64) {
	if memberID == uc.settings.AdminID {
		return
	}

	uc.pending.Add(memberID, uc.clock.Now())
	uc.metrics.UpdatePendingJoins(uc.pending.Len())

	uc.logger.Info().Int64("member_id", memberID).Msg("member joined, grace period started")

	if err := uc.gateway.SendChannelMessage(ctx, msgJoinChannel); err != nil {
		uc.gatewayFailed("send_channel_message", memberID, err)
	}

	// best effort: most members have not opened a private chat with the bot yet
	if err := uc.gateway.SendDirectMessage(ctx, memberID, msgJoinDirect); err != nil {
		uc.logger.Debug().Err(err).Int64("member_id", memberID).Msg("join notice not delivered")
	}
}

// CheckPendingJoins removes members whose grace period ran out without an
// active subscription. The store decides at check time; an entry is claimed
// before any gateway call so concurrent checks never remove a member twice.
func (uc *UseCase) CheckPendingJoins(ctx context.Context) (int, error) {
	due := uc.pending.Due(uc.clock.Now(), consts.GracePeriod)

	var (
		removed int
		errs    []error
	)

	for _, join := range due {
		active, err := uc.subscriptions.IsActive(ctx, join.MemberID)
		if err != nil {
			// entry stays for the next check
			uc.logger.Error().Err(err).Int64("member_id", join.MemberID).Msg("failed to check subscription for pending join")
			errs = append(errs, fmt.Errorf("member %d: %w", join.MemberID, err))
			continue
		}

		if !uc.pending.Claim(join.MemberID, join.JoinedAt) {
			continue
		}

		if active {
			uc.logger.Info().Int64("member_id", join.MemberID).Msg("pending join already has an active subscription")
			continue
		}

		if err := uc.gateway.RemoveMember(ctx, join.MemberID); err != nil {
			uc.gatewayFailed("remove_member", join.MemberID, err)
			continue
		}

		removed++
		uc.metrics.RecordExpulsion()
		uc.logger.Info().
			Int64("member_id", join.MemberID).
			Time("joined_at", join.JoinedAt).
			Msg("member removed after grace period")

		uc.notifyMember(ctx, join.MemberID, msgGraceRemoved)
		uc.notifyAdmin(ctx, fmt.Sprintf(adminGraceRemoved, join.MemberID))
		uc.publish(ctx, consts.MembershipExpelled, consts.SourceGrace, join.MemberID, "", "", entities.Date{}, nil)
	}

	uc.metrics.RecordGraceCheck(uc.pending.Len())

	return removed, errors.Join(errs...)
}
