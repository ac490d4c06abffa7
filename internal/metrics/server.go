// Package metrics exposes pricelist counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricelist"

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	Registry *prometheus.Registry

	Renders        *prometheus.CounterVec
	LoadFailures   prometheus.Counter
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	ScrapeResults  *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec

	startTime time.Time
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Global returns the process-wide metrics instance
func Global() *Metrics {
	globalOnce.Do(func() {
		global = New()
	})
	return global
}

// New creates metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "view",
			Name:      "renders_total",
			Help:      "Price list renders by presentation mode and outcome.",
		}, []string{"mode", "outcome"}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "load_failures_total",
			Help:      "Pricing documents that failed to load.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "path"}),
		ScrapeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scrape",
			Name:      "captures_total",
			Help:      "Provider page captures by outcome.",
		}, []string{"provider", "outcome"}),
		ScrapeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scrape",
			Name:      "capture_duration_seconds",
			Help:      "Time spent loading and extracting a provider page.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		}, []string{"provider"}),
		startTime: time.Now(),
	}

	uptime := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Time since the process started.",
	}, func() float64 { return time.Since(m.startTime).Seconds() })

	m.Registry.MustRegister(
		m.Renders, m.LoadFailures,
		m.HTTPRequests, m.HTTPDuration,
		m.ScrapeResults, m.ScrapeDuration,
		uptime,
	)
	return m
}

// RecordRender counts one rendered view.
func (m *Metrics) RecordRender(mode, outcome string) {
	m.Renders.WithLabelValues(mode, outcome).Inc()
}

// RecordLoadFailure counts a failed document load.
func (m *Metrics) RecordLoadFailure() {
	m.LoadFailures.Inc()
}

// RecordHTTP records a handled request.
func (m *Metrics) RecordHTTP(method, path string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordScrape records one provider capture.
func (m *Metrics) RecordScrape(provider string, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.ScrapeResults.WithLabelValues(provider, outcome).Inc()
	m.ScrapeDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
