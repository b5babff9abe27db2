// Package consts contains constants for the membership domain
package consts

import "time"

// Billing event kinds as sent by the payment provider
const (
	EventPurchaseApproved = "Compra aprovada"
	EventRenewalApproved  = "Assinatura renovada"
	EventCancelled        = "Assinatura cancelada"
	EventPaymentOverdue   = "Assinatura atrasada"
)

// Plan prices in the provider currency
const (
	MonthlyPlanAmount   = 100
	QuarterlyPlanAmount = 260
)

const (
	// GracePeriod is how long a new channel member has to link an active subscription
	GracePeriod = 120 * time.Second

	// ReminderWindowDays bounds the sweep scan ahead of today
	ReminderWindowDays = 5

	// ReminderMinDays is the smallest days-left value that still gets a reminder
	ReminderMinDays = 3
)

// Membership event types published after each transition
const (
	MembershipActivated = "membership.activated"
	MembershipExpired   = "membership.expired"
	MembershipExpelled  = "membership.expelled"
	MembershipReminded  = "membership.reminded"
)

// Expiration sources used for metrics and published events
const (
	SourceWebhook = "webhook"
	SourceSweep   = "sweep"
	SourceGrace   = "grace"
)
