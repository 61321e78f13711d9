package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eglrender_step_duration_seconds",
		Help:    "Time spent in each step of the offscreen render sequence",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"backend", "step"})
	RenderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eglrender_render_calls_total",
		Help: "Total number of render calls submitted",
	}, []string{"backend"})
	ReadbackBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eglrender_readback_bytes_total",
		Help: "Total number of pixel bytes copied from the surface to host memory",
	}, []string{"backend"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eglrender_errors_total",
		Help: "Total number of failed steps, by error kind",
	}, []string{"backend", "kind"})
)

type RunMetrics struct {
	backend       string
	RenderCalls   prometheus.Counter
	ReadbackBytes prometheus.Counter
}

func NewRunMetrics(backend string) RunMetrics {
	m := RunMetrics{
		backend:       backend,
		RenderCalls:   RenderCalls.WithLabelValues(backend),
		ReadbackBytes: ReadbackBytes.WithLabelValues(backend),
	}
	m.RenderCalls.Add(0)
	m.ReadbackBytes.Add(0)
	return m
}

func (m RunMetrics) ObserveStep(step string, seconds float64) {
	StepDuration.WithLabelValues(m.backend, step).Observe(seconds)
}

func (m RunMetrics) CountError(kind string) {
	Errors.WithLabelValues(m.backend, kind).Inc()
}

// WriteTextfile dumps all registered metrics in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
