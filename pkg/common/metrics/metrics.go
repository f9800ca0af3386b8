package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	HandledErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advice_handled_errors_total",
			Help: "Errors converted into responses by the exception advice, by code.",
		},
		[]string{"service", "code"},
	)

	SessionsCleanedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cleanup_expired_total",
			Help: "Expired sessions removed by the cleanup job.",
		},
		[]string{"service"},
	)
)

// Registry 独立的注册表，/metrics 只暴露本服务的指标
var Registry = prometheus.NewRegistry()

var (
	service      = "boot-labs"
	registerOnce sync.Once
)

// MustRegister 设置服务名标签并注册所有指标，重复调用只生效一次
func MustRegister(serviceName string) {
	registerOnce.Do(func() {
		if serviceName != "" {
			service = serviceName
		}
		Registry.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HandledErrorsTotal,
			SessionsCleanedTotal,
		)
	})
}

func ObserveRequest(method, path string, status int, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(service, method, path).Observe(seconds)
}

func IncHandledError(code int) {
	HandledErrorsTotal.WithLabelValues(service, strconv.Itoa(code)).Inc()
}

func AddSessionsCleaned(n int) {
	if n > 0 {
		SessionsCleanedTotal.WithLabelValues(service).Add(float64(n))
	}
}
