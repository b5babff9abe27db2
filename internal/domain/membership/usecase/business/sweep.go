package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// Sweep reconciles active subscriptions against today's date.
// days_left <= 0 expires, 3..5 reminds, 1..2 does nothing.
// Reminders are not recorded, so a member gets one per sweep while in the window.
func (uc *UseCase) Sweep(ctx context.Context) (*dto.SweepReport, error) {
	started := time.Now()
	today := uc.today()
	report := &dto.SweepReport{}

	var scanErrs []error

	lapsed, err := uc.subscriptions.ScanLapsed(ctx, today)
	if err != nil {
		uc.logger.Error().Err(err).Msg("failed to scan lapsed subscriptions")
		scanErrs = append(scanErrs, err)
	}

	expiring, err := uc.subscriptions.ScanExpiring(ctx, today, consts.ReminderWindowDays)
	if err != nil {
		uc.logger.Error().Err(err).Msg("failed to scan expiring subscriptions")
		scanErrs = append(scanErrs, err)
	}

	candidates := make([]entities.Subscriber, 0, len(lapsed)+len(expiring))
	candidates = append(candidates, lapsed...)
	candidates = append(candidates, expiring...)

	for i := range candidates {
		if ctx.Err() != nil {
			scanErrs = append(scanErrs, ctx.Err())
			break
		}

		sub := &candidates[i]
		report.Scanned++

		daysLeft := sub.DaysLeft(today)
		switch {
		case daysLeft <= 0:
			if err := uc.expire(ctx, sub.MemberID, sub.BillingEmail, sub.Plan, consts.SourceSweep); err != nil {
				report.Failed++
				continue
			}
			uc.notifyAdmin(ctx, fmt.Sprintf(adminSweepExpired, sub.MemberID, sub.BillingEmail))
			report.Expired++

		case daysLeft >= consts.ReminderMinDays && daysLeft <= consts.ReminderWindowDays:
			uc.remind(ctx, sub, daysLeft)
			report.Reminded++

		default:
			report.Skipped++
		}
	}

	uc.metrics.RecordSweep(time.Since(started).Seconds())
	uc.logger.Info().
		Str("today", today.String()).
		Int("scanned", report.Scanned).
		Int("expired", report.Expired).
		Int("reminded", report.Reminded).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("expiry sweep finished")

	return report, errors.Join(scanErrs...)
}

func (uc *UseCase) remind(ctx context.Context, sub *entities.Subscriber, daysLeft int) {
	uc.notifyMember(ctx, sub.MemberID, fmt.Sprintf(msgReminder, sub.Plan.Label(), daysLeft))
	uc.notifyAdmin(ctx, fmt.Sprintf(adminReminder, sub.MemberID, sub.BillingEmail, daysLeft))
	uc.metrics.RecordReminder()

	uc.publish(ctx, consts.MembershipReminded, consts.SourceSweep, sub.MemberID, sub.BillingEmail, sub.Plan, sub.ExpiryDate, &daysLeft)
}
