package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "washcorner_http_requests_total",
		Help: "HTTP requests served, by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "washcorner_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "washcorner_notifications_total",
		Help: "Customer notifications by outcome (sent, failed, dropped, skipped).",
	}, []string{"result"})

	TransactionStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "washcorner_transaction_status_changes_total",
		Help: "Transaction status writes by target status.",
	}, []string{"status"})

	PayrollsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "washcorner_payrolls_created_total",
		Help: "Payrolls created by payment type.",
	}, []string{"payment_type"})
)

const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationDropped = "dropped"
	NotificationSkipped = "skipped"
)
