package storage

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/deps"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

type identityRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewIdentityRepository creates a new email to member mapping repository
func NewIdentityRepository(db *gorm.DB, logger zerolog.Logger) deps.IdentityRepository {
	return &identityRepository{
		db:     db,
		logger: logger.With().Str("component", "identity_repository").Logger(),
	}
}

// Resolve matches the email byte for byte; no trimming or case folding
func (r *identityRepository) Resolve(ctx context.Context, email string) (int64, bool, error) {
	var mapping entities.IdentityMapping
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, pkgerrors.NewTransientError("failed to resolve email", err)
	}

	return mapping.MemberID, true, nil
}

func (r *identityRepository) Register(ctx context.Context, email string, memberID int64) error {
	mapping := &entities.IdentityMapping{
		Email:    email,
		MemberID: memberID,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "updated_at"}),
		}).
		Create(mapping).Error
	if err != nil {
		return pkgerrors.NewTransientError("failed to register email", err)
	}

	r.logger.Info().
		Str("email", email).
		Int64("member_id", memberID).
		Msg("email registered")

	return nil
}
