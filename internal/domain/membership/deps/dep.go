// Package deps contains interface definitions for the membership domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/dto"
	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// SubscriptionRepository is the durable subscription store.
// Every method is a single atomic statement.
type SubscriptionRepository interface {
	// UpsertActive inserts or fully replaces the member's row with status active
	UpsertActive(ctx context.Context, memberID int64, email string, plan entities.Plan, expiry entities.Date) error

	// MarkExpired sets status expired; a missing row is not an error
	MarkExpired(ctx context.Context, memberID int64) error

	// IsActive reports whether an active row exists
	IsActive(ctx context.Context, memberID int64) (bool, error)

	// ScanExpiring returns active rows with expiry in [today, today+windowDays]
	ScanExpiring(ctx context.Context, today entities.Date, windowDays int) ([]entities.Subscriber, error)

	// ScanLapsed returns active rows with expiry before today
	ScanLapsed(ctx context.Context, today entities.Date) ([]entities.Subscriber, error)

	// Get returns the member's row or ErrSubscriberNotFound
	Get(ctx context.Context, memberID int64) (*entities.Subscriber, error)
}

// IdentityRepository maps billing emails to members
type IdentityRepository interface {
	// Resolve performs an exact, case-sensitive lookup
	Resolve(ctx context.Context, email string) (memberID int64, found bool, err error)

	// Register binds email to memberID, overwriting any previous binding
	Register(ctx context.Context, email string, memberID int64) error
}

// MembershipGateway is the chat platform membership API for the configured channel
type MembershipGateway interface {
	// AddMember lifts any exclusion and returns a single-use invite link
	AddMember(ctx context.Context, memberID int64) (inviteLink string, err error)

	// RemoveMember excludes the member from the channel
	RemoveMember(ctx context.Context, memberID int64) error

	SendDirectMessage(ctx context.Context, memberID int64, text string) error

	SendChannelMessage(ctx context.Context, text string) error

	GetMembershipStatus(ctx context.Context, memberID int64) (entities.MembershipStatus, error)
}

// PendingJoinStore is the lock-guarded table of unconfirmed channel joins
type PendingJoinStore interface {
	Add(memberID int64, joinedAt time.Time)
	Remove(memberID int64) bool
	Due(now time.Time, timeout time.Duration) []entities.PendingJoin
	// Claim removes the entry only if it still carries joinedAt
	Claim(memberID int64, joinedAt time.Time) bool
	Len() int
}

// MembershipEventPublisher publishes membership transitions
type MembershipEventPublisher interface {
	Publish(ctx context.Context, event *dto.MembershipEvent) error
	Close() error
}

// MembershipService is the use case surface consumed by delivery adapters
type MembershipService interface {
	ProcessBillingEvent(ctx context.Context, event *dto.BillingEvent) (dto.WebhookOutcome, error)
	Sweep(ctx context.Context) (*dto.SweepReport, error)
	RecordJoin(ctx context.Context, memberID int64)
	CheckPendingJoins(ctx context.Context) (int, error)
	Register(ctx context.Context, memberID int64, email string) (*dto.RegisterResult, error)
	Status(ctx context.Context, memberID int64) (*entities.Subscriber, error)
}
