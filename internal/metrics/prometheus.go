package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements smpp.MetricsCollector on a private
// registry. Collectors are created lazily by metric name, so the client
// code can emit without declaring metrics up front.
type PrometheusCollector struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec

	server *http.Server
}

// NewPrometheusCollector creates a collector with its own registry.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Registry exposes the underlying registry for callers that mount their own
// handler.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving the collected metrics.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve starts an HTTP server for the metrics endpoint on port.
func (c *PrometheusCollector) Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	c.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go c.server.ListenAndServe()
	return nil
}

// Stop shuts the metrics endpoint down.
func (c *PrometheusCollector) Stop() error {
	if c.server == nil {
		return nil
	}
	return c.server.Close()
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	return names
}

// IncCounter increments a counter metric
func (c *PrometheusCollector) IncCounter(name string, labels map[string]string) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		counter = prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: name, Help: name},
			labelNames(labels),
		)
		c.registry.MustRegister(counter)
		c.counters[name] = counter
	}
	c.mu.Unlock()
	counter.With(labels).Inc()
}

// SetGauge sets a gauge metric
func (c *PrometheusCollector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		gauge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: name, Help: name},
			labelNames(labels),
		)
		c.registry.MustRegister(gauge)
		c.gauges[name] = gauge
	}
	c.mu.Unlock()
	gauge.With(labels).Set(value)
}

// ObserveHistogram observes a value for a histogram metric
func (c *PrometheusCollector) ObserveHistogram(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	histogram, ok := c.histograms[name]
	if !ok {
		histogram = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: name, Help: name},
			labelNames(labels),
		)
		c.registry.MustRegister(histogram)
		c.histograms[name] = histogram
	}
	c.mu.Unlock()
	histogram.With(labels).Observe(value)
}

// RecordDuration records a duration metric in seconds.
func (c *PrometheusCollector) RecordDuration(name string, duration time.Duration, labels map[string]string) {
	c.ObserveHistogram(name, duration.Seconds(), labels)
}
