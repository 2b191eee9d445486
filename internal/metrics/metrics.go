package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultSkipped  = "skipped"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_site_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_site_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Publishing metrics, kind is "article" or "paper"
	PublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_site_publish_total",
			Help: "Publish attempts by payload kind and result",
		},
		[]string{"kind", "result"},
	)

	ThrottledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_site_throttled_requests_total",
			Help: "Requests rejected by the publish rate limiter",
		},
		[]string{"path"},
	)

	CodeRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_site_code_rotations_total",
			Help: "Number of times the publishing code was replaced",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_site_notifications_total",
			Help: "Webhook deliveries of the publishing code by result",
		},
		[]string{"result"},
	)

	NotificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "news_site_notification_duration_seconds",
			Help:    "Webhook delivery duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "news_site_application_info",
			Help: "Application information",
		},
		[]string{"service", "environment", "driver"},
	)
)

// Init records static application labels
func Init(serviceName, environment, driver string) {
	ApplicationInfo.WithLabelValues(serviceName, environment, driver).Set(1)
}
