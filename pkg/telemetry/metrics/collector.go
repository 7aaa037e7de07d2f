package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline stages.
const (
	StageLoad    = "load"
	StageBuild   = "build"
	StagePlan    = "plan"
	StageResolve = "resolve"
	StageRender  = "render"
	StageWrite   = "write"
	StageNetwork = "network"
)

// ResultSuccess labels a run that completed.
const ResultSuccess = "success"

// Config contains metric naming options.
type Config struct {
	// Namespace is the metric namespace (default "proxyforge")
	Namespace string

	// Subsystem is the metric subsystem (default "generator")
	Subsystem string
}

// Inventory is the size of one generated bundle.
type Inventory struct {
	Services        int
	SkippedServices int

	// Routes counts route table entries by kind name.
	Routes map[string]int

	Issuance  int
	Renewal   int
	Documents int
	Bytes     int
}

// Collector owns the generation metrics and their registry.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	services        *prometheus.GaugeVec
	routes          *prometheus.GaugeVec
	certificates    *prometheus.GaugeVec
	documents       prometheus.Gauge
	bundleBytes     prometheus.Gauge
	lastSuccessTime prometheus.Gauge

	now func() time.Time
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil, a fresh registry is used.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "proxyforge"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "generator"
	}

	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: cfg.Namespace, Subsystem: cfg.Subsystem, Name: name, Help: help}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
		now:      time.Now,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts(opts("runs_total", "Total number of generation runs by result")),
			[]string{"result"},
		),

		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each generation stage in seconds",
				// Stages are in-memory except write and network (< 10s)
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 9), // 100µs to 6.5s
			},
			[]string{"stage"},
		),

		services: prometheus.NewGaugeVec(
			prometheus.GaugeOpts(opts("services", "Declared services by state")),
			[]string{"state"},
		),

		routes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts(opts("routes", "Route table entries by kind")),
			[]string{"kind"},
		),

		certificates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts(opts("certificates", "Certificate domains by list")),
			[]string{"list"},
		),

		documents:       prometheus.NewGauge(prometheus.GaugeOpts(opts("documents", "Documents in the last generated bundle"))),
		bundleBytes:     prometheus.NewGauge(prometheus.GaugeOpts(opts("bundle_bytes", "Total size of the last generated bundle in bytes"))),
		lastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts(opts("last_success_timestamp_seconds", "Unix time of the last successful run"))),
	}

	// Register all metrics
	registry.MustRegister(
		c.runsTotal,
		c.stageDuration,
		c.services,
		c.routes,
		c.certificates,
		c.documents,
		c.bundleBytes,
		c.lastSuccessTime,
	)

	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordStage records the duration of one pipeline stage.
func (c *Collector) RecordStage(stage string, d time.Duration) {
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordResult counts a finished run. result is ResultSuccess or an error
// class label; a success also stamps the last-success gauge.
func (c *Collector) RecordResult(result string) {
	c.runsTotal.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		c.lastSuccessTime.Set(float64(c.now().Unix()))
	}
}

// SetInventory records the size of the generated bundle.
func (c *Collector) SetInventory(inv Inventory) {
	c.services.WithLabelValues("routed").Set(float64(inv.Services))
	c.services.WithLabelValues("skipped").Set(float64(inv.SkippedServices))

	c.routes.Reset()
	for kind, n := range inv.Routes {
		c.routes.WithLabelValues(kind).Set(float64(n))
	}

	c.certificates.WithLabelValues("issuance").Set(float64(inv.Issuance))
	c.certificates.WithLabelValues("renewal").Set(float64(inv.Renewal))
	c.documents.Set(float64(inv.Documents))
	c.bundleBytes.Set(float64(inv.Bytes))
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
