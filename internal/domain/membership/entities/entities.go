// Package entities contains domain entities for the membership domain
package entities

import (
	"time"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/consts"
)

// Plan is the informational plan tag derived from the billed amount
type Plan string

const (
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanUnknown   Plan = "unknown"
)

// PlanForAmount classifies a billed amount; unknown amounts never gate access
func PlanForAmount(amount float64) Plan {
	switch amount {
	case consts.MonthlyPlanAmount:
		return PlanMonthly
	case consts.QuarterlyPlanAmount:
		return PlanQuarterly
	default:
		return PlanUnknown
	}
}

// Label returns the plan name shown to members and the operator
func (p Plan) Label() string {
	switch p {
	case PlanMonthly:
		return "mensal"
	case PlanQuarterly:
		return "trimestral"
	default:
		return "desconhecido"
	}
}

// Status is the subscription status
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Subscriber is one subscription record per member
type Subscriber struct {
	MemberID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	BillingEmail string    `gorm:"column:email"`
	Plan         Plan      `gorm:"column:plan"`
	ExpiryDate   Date      `gorm:"column:expiry_date"`
	Status       Status    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Subscriber) TableName() string {
	return "subscriptions"
}

// DaysLeft returns expiry_date - today in whole days
func (s *Subscriber) DaysLeft(today Date) int {
	return today.DaysUntil(s.ExpiryDate)
}

// IsActive reports whether the subscription currently grants access
func (s *Subscriber) IsActive() bool {
	return s.Status == StatusActive
}

// IdentityMapping binds a billing email to a member
type IdentityMapping struct {
	Email     string    `gorm:"column:email;primaryKey"`
	MemberID  int64     `gorm:"column:user_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (IdentityMapping) TableName() string {
	return "email_mappings"
}

// PendingJoin is a channel join not yet confirmed against an active subscription
type PendingJoin struct {
	MemberID int64
	JoinedAt time.Time
}

// MembershipStatus is the member's state in the community channel
type MembershipStatus string

const (
	MembershipOwner         MembershipStatus = "creator"
	MembershipAdministrator MembershipStatus = "administrator"
	MembershipMember        MembershipStatus = "member"
	MembershipRestricted    MembershipStatus = "restricted"
	MembershipLeft          MembershipStatus = "left"
	MembershipKicked        MembershipStatus = "kicked"
)

// InChannel reports whether the status means the member can see the channel
func (s MembershipStatus) InChannel() bool {
	switch s {
	case MembershipOwner, MembershipAdministrator, MembershipMember, MembershipRestricted:
		return true
	default:
		return false
	}
}
