package loggical

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector receives emission metrics. Implementations must be
// concurrency-safe.
type MetricsCollector interface {
	LoggedMessage(level Level, size int)
	TransportError(transport string)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) LoggedMessage(Level, int) {}
func (NoopMetricsCollector) TransportError(string)    {}

// PrometheusCollector exports emission counters to a Prometheus registry.
type PrometheusCollector struct {
	messages        *prometheus.CounterVec
	bytes           prometheus.Counter
	transportErrors *prometheus.CounterVec
}

// NewPrometheusCollector registers the collectors on reg and returns the
// collector. Registration conflicts are returned, not hidden.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loggical_messages_total",
			Help: "Log messages emitted, by level.",
		}, []string{"level"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loggical_bytes_total",
			Help: "Formatted log bytes emitted.",
		}),
		transportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loggical_transport_errors_total",
			Help: "Transport write failures, by transport.",
		}, []string{"transport"}),
	}
	for _, col := range []prometheus.Collector{c.messages, c.bytes, c.transportErrors} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) LoggedMessage(level Level, size int) {
	c.messages.WithLabelValues(strings.ToLower(level.String())).Inc()
	c.bytes.Add(float64(size))
}

func (c *PrometheusCollector) TransportError(transport string) {
	c.transportErrors.WithLabelValues(transport).Inc()
}
