package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the process-wide Prometheus instrumentation. All methods are
// safe on a nil receiver.
type Recorder struct {
	gatherer prometheus.Gatherer

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	adviceTotal      *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// New registers the collectors, plus the Go runtime and process collectors,
// on reg. Pass a fresh prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Recorder {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Recorder{
		gatherer: reg,
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_desk_upstream_requests_total",
				Help: "Candle fetches per provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signal_desk_upstream_duration_seconds",
				Help:    "Duration of candle fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_desk_cache_lookups_total",
				Help: "Candle cache lookups by result",
			},
			[]string{"result"},
		),
		adviceTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_desk_advice_total",
				Help: "Advice generations by outcome",
			},
			[]string{"outcome"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signal_desk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signal_desk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"route", "method", "class"},
		),
	}
}

func (r *Recorder) ObserveUpstream(provider string, err error, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	r.upstreamLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (r *Recorder) CacheHit() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("hit").Inc()
}

func (r *Recorder) CacheMiss() {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveAdvice counts one advice request. outcome is "ok" or an error class
// such as "not_enough_data" or "analysis".
func (r *Recorder) ObserveAdvice(outcome string) {
	if r == nil {
		return
	}
	r.adviceTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records one request. Use the route template, not the raw path,
// to keep label cardinality low.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(route, method, statusClass(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
