package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulletin_request_total",
			Help: "Number of HTTP requests",
		},
		[]string{"method", "handler", "status"},
	)

	ResponseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bulletin_response_time_seconds",
			Help:    "The API response time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "handler"},
	)

	DismissalTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulletin_dismissal_total",
			Help: "Number of announcement dismissal requests by dismissal type and outcome",
		},
		[]string{"type", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestTotal,
		ResponseTime,
		DismissalTotal,
	)
}

// RegisterRequest 记录一次HTTP请求
func RegisterRequest(start time.Time, method, handler string, status int) {
	RequestTotal.WithLabelValues(method, handler, strconv.Itoa(status)).Inc()
	ResponseTime.WithLabelValues(method, handler).Observe(time.Since(start).Seconds())
}

// RegisterDismissal 记录一次关闭公告请求
func RegisterDismissal(dismissalType, result string) {
	DismissalTotal.WithLabelValues(dismissalType, result).Inc()
}

// Handler 暴露指标的HTTP处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
