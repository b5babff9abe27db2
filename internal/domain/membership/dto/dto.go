// Package dto contains data transfer objects for the membership domain
package dto

import (
	"time"

	"github.com/Lucxx50/BotLucasAllan/internal/domain/membership/entities"
)

// BillingEvent is the payment provider webhook payload
type BillingEvent struct {
	Event string           `json:"event"`
	Token string           `json:"token,omitempty"`
	Data  BillingEventData `json:"data"`
}

// BillingEventData is the nested event payload
type BillingEventData struct {
	UserEmail  string  `json:"user_email"`
	PlanAmount float64 `json:"plan_amount"`
	ExpiryDate string  `json:"expiry_date"`
	Token      string  `json:"token,omitempty"`
}

// WebhookOutcome describes what processing a billing event did
type WebhookOutcome string

const (
	OutcomeActivated WebhookOutcome = "activated"
	OutcomeExpired   WebhookOutcome = "expired"
	OutcomeIgnored   WebhookOutcome = "ignored"
	OutcomeUnmapped  WebhookOutcome = "unmapped"
)

// StatusResponse is the JSON body of successful HTTP calls
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON body of failed HTTP calls
type ErrorResponse struct {
	Error string `json:"error"`
}

// SweepReport summarises one expiry sweep
type SweepReport struct {
	Scanned  int
	Expired  int
	Reminded int
	Skipped  int
	Failed   int
}

// RegisterResult is returned by identity registration
type RegisterResult struct {
	Active     bool
	Subscriber *entities.Subscriber
	InviteLink string
}

// MembershipEvent is published after each membership transition
type MembershipEvent struct {
	Type       string    `json:"type"`
	MemberID   int64     `json:"member_id"`
	Email      string    `json:"email,omitempty"`
	Plan       string    `json:"plan,omitempty"`
	ExpiryDate string    `json:"expiry_date,omitempty"`
	Source     string    `json:"source"`
	DaysLeft   *int      `json:"days_left,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
