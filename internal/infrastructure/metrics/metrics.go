package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the membership bot
type Metrics struct {
	// Webhook metrics
	WebhookEvents *prometheus.CounterVec

	// Membership transition metrics
	MembersActivated prometheus.Counter
	MembersExpired   *prometheus.CounterVec
	MembersExpelled  prometheus.Counter
	RemindersSent    prometheus.Counter

	// Sweep metrics
	SweepsTotal   prometheus.Counter
	SweepDuration prometheus.Histogram

	// Grace period metrics
	PendingJoins prometheus.Gauge
	GraceChecks  prometheus.Counter

	// Gateway metrics
	GatewayErrors *prometheus.CounterVec

	// Kafka metrics
	KafkaMessagesProduced prometheus.Counter
	KafkaProduceErrors    prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		WebhookEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_webhook_events_total",
				Help: "Total number of billing events processed by outcome",
			},
			[]string{"event", "outcome"},
		),

		MembersActivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_members_activated_total",
			Help: "Total number of purchase or renewal activations",
		}),
		MembersExpired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_members_expired_total",
				Help: "Total number of subscriptions marked expired by source",
			},
			[]string{"source"},
		),
		MembersExpelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_grace_expulsions_total",
			Help: "Total number of members removed after the grace period",
		}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_renewal_reminders_total",
			Help: "Total number of renewal reminders issued",
		}),

		SweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_sweeps_total",
			Help: "Total number of expiry sweeps",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "membership_sweep_duration_seconds",
			Help:    "Duration of expiry sweeps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		PendingJoins: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "membership_pending_joins",
			Help: "Current number of joins waiting for registration",
		}),
		GraceChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_grace_checks_total",
			Help: "Total number of grace period checks",
		}),

		GatewayErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_gateway_errors_total",
				Help: "Total number of failed membership gateway calls",
			},
			[]string{"operation"},
		),

		KafkaMessagesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_kafka_messages_produced_total",
			Help: "Total number of membership events produced to Kafka",
		}),
		KafkaProduceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "membership_kafka_produce_errors_total",
			Help: "Total number of Kafka produce errors",
		}),
	}
}

// RecordWebhookEvent records a processed billing event
func (m *Metrics) RecordWebhookEvent(event, outcome string) {
	if event == "" {
		event = "unknown"
	}
	m.WebhookEvents.WithLabelValues(event, outcome).Inc()
}

// RecordActivation records a purchase or renewal activation
func (m *Metrics) RecordActivation() {
	m.MembersActivated.Inc()
}

// RecordExpiration records a subscription marked expired
func (m *Metrics) RecordExpiration(source string) {
	m.MembersExpired.WithLabelValues(source).Inc()
}

// RecordExpulsion records a grace period removal
func (m *Metrics) RecordExpulsion() {
	m.MembersExpelled.Inc()
}

// RecordReminder records a renewal reminder
func (m *Metrics) RecordReminder() {
	m.RemindersSent.Inc()
}

// RecordSweep records a finished sweep
func (m *Metrics) RecordSweep(duration float64) {
	m.SweepsTotal.Inc()
	m.SweepDuration.Observe(duration)
}

// RecordGraceCheck records a grace period check and the remaining pending joins
func (m *Metrics) RecordGraceCheck(pending int) {
	m.GraceChecks.Inc()
	m.PendingJoins.Set(float64(pending))
}

// UpdatePendingJoins updates the pending joins gauge
func (m *Metrics) UpdatePendingJoins(count int) {
	m.PendingJoins.Set(float64(count))
}

// RecordGatewayError records a failed gateway call
func (m *Metrics) RecordGatewayError(operation string) {
	if operation == "" {
		operation = "unknown"
	}
	m.GatewayErrors.WithLabelValues(operation).Inc()
}

// RecordKafkaMessage records a produced membership event
func (m *Metrics) RecordKafkaMessage() {
	m.KafkaMessagesProduced.Inc()
}

// RecordKafkaError records a Kafka produce error
func (m *Metrics) RecordKafkaError() {
	m.KafkaProduceErrors.Inc()
}
