// Package metrics holds the Prometheus instruments shared across the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agendabot"

var (
	// InboundMessages counts handled private messages by classified intent.
	InboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inbound_messages_total",
		Help:      "Inbound WhatsApp messages handled, labeled by intent.",
	}, []string{"intent"})

	// IgnoredMessages counts inbound messages dropped before handling.
	IgnoredMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ignored_messages_total",
		Help:      "Inbound messages ignored, labeled by reason.",
	}, []string{"reason"})

	// Bookings counts appointment lifecycle transitions.
	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Appointment lifecycle events, labeled by outcome.",
	}, []string{"outcome"})

	// RemindersSent counts reminder notifications by milestone.
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Reminder notifications sent, labeled by milestone.",
	}, []string{"milestone"})
)

// Booking outcome label values.
const (
	OutcomeCreated          = "created"
	OutcomeConfirmed        = "confirmed"
	OutcomeCancelled        = "cancelled"
	OutcomeCancelledPending = "cancelled_pending"
	OutcomeOperatorCancel   = "operator_cancelled"
)
