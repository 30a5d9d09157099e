package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Validation outcomes recorded by Metrics.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics records request and validation counters in a Prometheus registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests    *prometheus.CounterVec
	validations *prometheus.CounterVec
	errorLines  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rateLimited prometheus.Counter
}

// NewMetrics registers the coerce collectors in reg. With process set, the
// Go runtime and process collectors are registered as well.
func NewMetrics(reg *prometheus.Registry, process bool) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coerce",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coerce",
			Name:      "validations_total",
			Help:      "Validation calls by schema, input kind and outcome.",
		}, []string{"schema", "input", "outcome"}),
		errorLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coerce",
			Name:      "validation_errors_total",
			Help:      "Validation error lines by schema and error type.",
		}, []string{"schema", "type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coerce",
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one input.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1},
		}, []string{"schema"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coerce",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.requests, m.validations, m.errorLines, m.duration, m.rateLimited)
	if process {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(route, method string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeValidation(schema, input, outcome string, types []valerr.ErrorType, d time.Duration) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(schema, input, outcome).Inc()
	m.duration.WithLabelValues(schema).Observe(d.Seconds())
	for _, t := range types {
		m.errorLines.WithLabelValues(schema, string(t)).Inc()
	}
}

func (m *Metrics) observeRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
