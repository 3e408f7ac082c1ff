package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline outcomes.
const (
	OutcomeOK                  = "ok"
	OutcomeMissingCredential   = "missing_credential"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
	OutcomeDecodeError         = "decode_error"
	OutcomeSelectionEmpty      = "selection_empty"
)

// Metrics groups every collector the service exports.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UpstreamDuration    *prometheus.HistogramVec
	PipelineOutcomes    *prometheus.CounterVec
	ApplicationInfo     *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg yields a private registry,
// which is what tests and the Lambda entrypoint use.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apod_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apod_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apod_upstream_request_duration_seconds",
				Help:    "Time from sending the upstream request to reading its body",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		PipelineOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apod_pipeline_outcomes_total",
				Help: "Terminal states of the aggregation route",
			},
			[]string{"outcome"},
		),
		ApplicationInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "apod_application_info",
				Help: "Application information",
			},
			[]string{"service", "version", "environment"},
		),
		gatherer: reg,
	}
}

// Init publishes the build/deployment labels.
func (m *Metrics) Init(service, version, environment string) {
	m.ApplicationInfo.WithLabelValues(service, version, environment).Set(1)
}

// ObserveUpstream records one successful upstream round trip.
func (m *Metrics) ObserveUpstream(backend string, elapsed time.Duration) {
	m.UpstreamDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// CountOutcome increments the counter for one terminal pipeline state.
func (m *Metrics) CountOutcome(outcome string) {
	m.PipelineOutcomes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request count and latency. route is resolved after the
// handler ran so unmatched paths share a single label value.
func (m *Metrics) Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			label := route(r)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
		})
	}
}
