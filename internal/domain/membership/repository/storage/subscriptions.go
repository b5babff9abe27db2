// Package storage contains gorm-backed repositories for the membership domain
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	domainerrors "github.com/Lucxx50/BotLucasAllan/internal/domain/membership/errors"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB, logger zerolog.Logger) deps.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger.With().Str("component", "subscription_repository").Logger(),
	}
}

func (r *subscriptionRepository) UpsertActive(ctx context.Context, memberID int64, email string, plan entities.Plan, expiry entities.Date) error {
	sub := &entities.Subscriber{
		MemberID:     memberID,
		BillingEmail: email,
		Plan:         plan,
		ExpiryDate:   expiry,
		Status:       entities.StatusActive,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "plan", "expiry_date", "status", "updated_at"}),
		}).
		Create(sub)
	if result.Error != nil {
		return pkgerrors.NewTransientError("failed to upsert subscription", result.Error)
	}

	r.logger.Debug().
		Int64("member_id", memberID).
		Str("plan", string(plan)).
		Str("expiry_date", expiry.String()).
		Msg("subscription upserted")

	return nil
}

func (r *subscriptionRepository) MarkExpired(ctx context.Context, memberID int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("user_id = ?", memberID).
		Update("status", entities.StatusExpired)
	if result.Error != nil {
		return pkgerrors.NewTransientError("failed to mark subscription expired", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug().Int64("member_id", memberID).Msg("no subscription to expire")
	}

	return nil
}

func (r *subscriptionRepository) IsActive(ctx context.Context, memberID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("user_id = ? AND status = ?", memberID, entities.StatusActive).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.NewTransientError("failed to check subscription", err)
	}

	return count > 0, nil
}

func (r *subscriptionRepository) ScanExpiring(ctx context.Context, today entities.Date, windowDays int) ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date >= ? AND expiry_date <= ?",
			entities.StatusActive, today, today.AddDays(windowDays)).
		Order("expiry_date, user_id").
		Find(&subs).Error
	if err != nil {
		return nil, pkgerrors.NewTransientError("failed to scan expiring subscriptions", err)
	}

	return subs, nil
}

func (r *subscriptionRepository) ScanLapsed(ctx context.Context, today entities.Date) ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date < ?", entities.StatusActive, today).
		Order("expiry_date, user_id").
		Find(&subs).Error
	if err != nil {
		return nil, pkgerrors.NewTransientError("failed to scan lapsed subscriptions", err)
	}

	return subs, nil
}

func (r *subscriptionRepository) Get(ctx context.Context, memberID int64) (*entities.Subscriber, error) {
	var sub entities.Subscriber
	err := r.db.WithContext(ctx).
		Where("user_id = ?", memberID).
		Take(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrSubscriberNotFound
		}
		return nil, pkgerrors.NewTransientError(fmt.Sprintf("failed to get subscription %d", memberID), err)
	}

	return &sub, nil
}
