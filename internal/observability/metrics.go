package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	calculations      *prometheus.CounterVec
	reports           *prometheus.CounterVec
	reportDuration    prometheus.Histogram
	emailsFailed      prometheus.Counter
	artifactsPurged   prometheus.Counter
}

// NewMetrics registers the collectors on a private registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "savings_calculations_total",
			Help: "Savings calculations served, by resolved industry.",
		}, []string{"industry"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reports_generated_total",
			Help: "Report generation attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		reportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_generation_duration_seconds",
			Help:    "Histogram of report rendering durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		emailsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_emails_failed_total",
			Help: "Report emails that could not be delivered.",
		}),
		artifactsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_artifacts_purged_total",
			Help: "Expired report artifacts removed by the retention job.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.calculations,
		m.reports,
		m.reportDuration,
		m.emailsFailed,
		m.artifactsPurged,
	)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler counts requests and observes latency under the given route label.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Calculation(industry string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(industry).Inc()
}

func (m *Metrics) ReportGenerated(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(kind, outcome).Inc()
	m.reportDuration.Observe(d.Seconds())
}

func (m *Metrics) EmailFailed() {
	if m == nil {
		return
	}
	m.emailsFailed.Inc()
}

func (m *Metrics) ArtifactsPurged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.artifactsPurged.Add(float64(n))
}
