package healthcheck

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpdred/readiness/pkg/readiness"
)

const (
	statusHealthy   = 0
	statusUnhealthy = 1
)

// MetricsService records probe results and the samples of a readiness.Probe.
type MetricsService interface {
	readiness.Metrics

	UpdateGauge(executionResults ...ExecutionResult)
	GetHandler() http.Handler
}

type noopMetricsService struct{}

func (s noopMetricsService) GetHandler() http.Handler { return http.NewServeMux() }

func (s noopMetricsService) UpdateGauge(...ExecutionResult) {}

func (s noopMetricsService) ObserveSample(readiness.Sample) {}

func (s noopMetricsService) ObserveCheck(readiness.CheckPath, readiness.Outcome, time.Duration) {}

func NewNoOpMetricsService() MetricsService { return &noopMetricsService{} }

type prometheusMetricsService struct {
	statusGauge     *prometheus.GaugeVec
	readyGauge      prometheus.Gauge
	sampleTimeGauge prometheus.Gauge
	checksTotal     *prometheus.CounterVec
	checkDuration   *prometheus.HistogramVec
	handler         http.Handler
}

func (s prometheusMetricsService) GetHandler() http.Handler {
	return s.handler
}

func (s prometheusMetricsService) UpdateGauge(executionResults ...ExecutionResult) {
	for _, e := range executionResults {
		p := e.Probe

		status := statusHealthy
		if !e.Healthy() {
			status = statusUnhealthy
		}

		s.statusGauge.WithLabelValues(string(p.GetKind()), p.GetName()).Set(float64(status))
	}
}

func (s prometheusMetricsService) ObserveSample(sample readiness.Sample) {
	ready := 0.0
	if sample.Ready {
		ready = 1
	}

	s.readyGauge.Set(ready)
	s.sampleTimeGauge.Set(float64(sample.ObservedAt.UnixNano()) / float64(time.Second))
}

func (s prometheusMetricsService) ObserveCheck(path readiness.CheckPath, outcome readiness.Outcome, took time.Duration) {
	s.checksTotal.WithLabelValues(string(path), string(outcome)).Inc()
	s.checkDuration.WithLabelValues(string(path)).Observe(took.Seconds())
}

// NewPrometheusMetricsService registers the collectors on the default registry.
func NewPrometheusMetricsService(namespace string) MetricsService {
	return newPrometheusMetricsService(promauto.With(prometheus.DefaultRegisterer), namespace, promhttp.Handler())
}

// NewPrometheusMetricsServiceWithRegistry registers the collectors on reg and serves reg only.
func NewPrometheusMetricsServiceWithRegistry(namespace string, reg *prometheus.Registry, opts promhttp.HandlerOpts) MetricsService {
	return newPrometheusMetricsService(promauto.With(reg), namespace, promhttp.HandlerFor(reg, opts))
}

func newPrometheusMetricsService(factory promauto.Factory, namespace string, handler http.Handler) MetricsService {
	const (
		healthcheckSubsystem = "healthcheck"
		readinessSubsystem   = "readiness"
	)

	s := &prometheusMetricsService{
		statusGauge: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: healthcheckSubsystem,
			Name:      "status",
			Help:      "Current probe check status (0=healthy, 1=unhealthy)",
		}, []string{"kind", "probe"}),
		readyGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: readinessSubsystem,
			Name:      "ready",
			Help:      "Last published readiness sample (1=ready, 0=not ready)",
		}),
		sampleTimeGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: readinessSubsystem,
			Name:      "sample_timestamp_seconds",
			Help:      "Unix time the last readiness sample was published",
		}),
		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: readinessSubsystem,
			Name:      "checks_total",
			Help:      "Readiness check runs by path and outcome",
		}, []string{"path", "outcome"}),
		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: readinessSubsystem,
			Name:      "check_duration_seconds",
			Help:      "Duration of readiness check runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		handler: handler,
	}

	return s
}
