package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"valeod/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncReportsSent(kind string)
	IncReportFailures(kind string)
	IncAlertsSent()
	IncAlertsSuppressed()
	ObservePassDuration(job string, duration time.Duration)
	SetChatsTracked(count int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reportsSent     *prometheus.CounterVec
	reportFailures  *prometheus.CounterVec
	alertsSent      prometheus.Counter
	alertsSuppress  prometheus.Counter
	passDuration    *prometheus.HistogramVec
	chatsTracked    prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncReportsSent(kind string) {
	m.reportsSent.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncReportFailures(kind string) {
	m.reportFailures.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncAlertsSent() {
	m.alertsSent.Inc()
}

func (m *MetricsProvider) IncAlertsSuppressed() {
	m.alertsSuppress.Inc()
}

func (m *MetricsProvider) ObservePassDuration(job string, duration time.Duration) {
	m.passDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetChatsTracked(count int) {
	m.chatsTracked.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "valeod_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valeod_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		reportsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "valeod_reports_sent_total",
			Help: "Reports delivered to chats, by kind",
		}, []string{"kind"}),

		reportFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "valeod_report_failures_total",
			Help: "Per-chat report failures, by kind",
		}, []string{"kind"}),

		alertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "valeod_whale_alerts_sent_total",
			Help: "Whale alerts delivered",
		}),

		alertsSuppress: promauto.NewCounter(prometheus.CounterOpts{
			Name: "valeod_whale_alerts_suppressed_total",
			Help: "Whale alerts suppressed by the dedup window",
		}),

		passDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valeod_job_pass_duration_seconds",
			Help:    "Duration of one scheduled job pass",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),

		chatsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "valeod_chats_tracked",
			Help: "Chats with at least one linked model, as of the last pass",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncReportsSent(_ string)                           {}
func (n *noopMetrics) IncReportFailures(_ string)                        {}
func (n *noopMetrics) IncAlertsSent()                                    {}
func (n *noopMetrics) IncAlertsSuppressed()                              {}
func (n *noopMetrics) ObservePassDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) SetChatsTracked(_ int)                             {}
