package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockwise_notifications_created_total",
		Help: "Notifications inserted into the ledger, by channel type.",
	}, []string{"type"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockwise_notifications_sent_total",
		Help: "Delivery attempts that ended in SENT, by channel type.",
	}, []string{"type"})

	NotificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockwise_notifications_failed_total",
		Help: "Delivery attempts that ended in FAILED, by channel type.",
	}, []string{"type"})

	RemindersTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clockwise_reminders_triggered_total",
		Help: "Timesheet reminders the evaluator decided to send.",
	})

	NotificationsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clockwise_notifications_cleaned_total",
		Help: "Notifications removed by the retention sweep.",
	})
)
