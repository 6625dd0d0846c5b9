package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachadmin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coachadmin_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachadmin_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
	)

	SubscriptionsRenewedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachadmin_subscriptions_renewed_total",
			Help: "Total number of subscription renewals",
		},
	)

	SubscriptionsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachadmin_subscriptions_cancelled_total",
			Help: "Total number of subscription cancellations",
		},
	)

	OverlapConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coachadmin_subscription_overlap_conflicts_total",
			Help: "Total number of rejected overlapping subscription writes",
		},
	)

	PaymentsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachadmin_payments_recorded_total",
			Help: "Total number of recorded payments",
		},
		[]string{"payment_status"},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachadmin_notifications_queued_total",
			Help: "Total number of queued notifications",
		},
		[]string{"type"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coachadmin_notifications_sent_total",
			Help: "Total number of processed notifications",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coachadmin_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSubscriptionCreated() {
	SubscriptionsCreatedTotal.Inc()
}

func RecordSubscriptionRenewed() {
	SubscriptionsRenewedTotal.Inc()
}

func RecordSubscriptionCancelled() {
	SubscriptionsCancelledTotal.Inc()
}

func RecordOverlapConflict() {
	OverlapConflictsTotal.Inc()
}

func RecordPayment(paymentStatus string) {
	PaymentsRecordedTotal.WithLabelValues(paymentStatus).Inc()
}

func RecordNotificationQueued(notificationType string) {
	NotificationsQueuedTotal.WithLabelValues(notificationType).Inc()
}

func RecordNotificationSent(notificationType, status string) {
	NotificationsSentTotal.WithLabelValues(notificationType, status).Inc()
}

func SetNotificationQueueLength(length float64) {
	NotificationQueueLength.Set(length)
}
