package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ingestion pipeline.
type Metrics struct {
	// Webhook gateway metrics
	WebhooksReceived *prometheus.CounterVec
	WebhooksRejected *prometheus.CounterVec
	WebhooksIgnored  prometheus.Counter

	// Queue metrics
	JobsEnqueued  prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsRetried   prometheus.Counter
	JobsFailed    prometheus.Counter

	// Revenue processing metrics
	PaymentsProcessed  prometheus.Counter
	PaymentsDuplicated prometheus.Counter
	ProcessingDuration prometheus.Histogram
	RevenueAmount      prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		WebhooksReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trato_webhooks_received_total",
				Help: "Total number of webhook notifications received, by event",
			},
			[]string{"event"},
		),
		WebhooksRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trato_webhooks_rejected_total",
				Help: "Total number of webhook notifications rejected, by reason",
			},
			[]string{"reason"},
		),
		WebhooksIgnored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_webhooks_ignored_total",
			Help: "Total number of acknowledged but unprocessed notifications",
		}),
		JobsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_jobs_enqueued_total",
			Help: "Total number of jobs enqueued",
		}),
		JobsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_jobs_completed_total",
			Help: "Total number of jobs completed",
		}),
		JobsRetried: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_jobs_retried_total",
			Help: "Total number of job retry attempts",
		}),
		JobsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_jobs_failed_total",
			Help: "Total number of jobs moved to the failed set",
		}),
		PaymentsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_payments_processed_total",
			Help: "Total number of payments posted to the ledger",
		}),
		PaymentsDuplicated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trato_payments_duplicated_total",
			Help: "Total number of gateway retransmissions detected",
		}),
		ProcessingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trato_payment_processing_duration_seconds",
			Help:    "Duration of payment processing",
			Buckets: prometheus.DefBuckets,
		}),
		RevenueAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trato_revenue_amount",
			Help:    "Recognized revenue amounts in major currency units",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trato_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trato_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
