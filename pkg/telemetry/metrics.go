package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/weft/pkg/reactive"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush and load durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weft",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records runtime events as Prometheus metrics. All methods are
// safe for concurrent use, so one Metrics can serve every session.
type Metrics struct {
	effectRuns      *prometheus.CounterVec
	flushes         *prometheus.CounterVec
	flushDuration   *prometheus.HistogramVec
	owners          prometheus.Gauge
	created         *prometheus.CounterVec
	removed         prometheus.Counter
	asyncDuration   *prometheus.HistogramVec
	sessions        prometheus.Gauge
	sessionDuration prometheus.Histogram
	mutationsSent   prometheus.Counter
}

// NewMetrics registers the metrics and returns a Metrics. Registering twice
// on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"schedule", "status"}),

		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of effect queue flushes",
			ConstLabels: config.ConstLabels,
		}, []string{"schedule"}),

		flushDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Effect queue flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"schedule"}),

		owners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "owners",
			Help:        "Number of live reactive owners",
			ConstLabels: config.ConstLabels,
		}),

		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_created_total",
			Help:        "Total number of target instances created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		removed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_removed_total",
			Help:        "Total number of target instances removed",
			ConstLabels: config.ConstLabels,
		}),

		asyncDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "async_duration_seconds",
			Help:        "Async component load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"status"}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_session_duration_seconds",
			Help:        "Live session lifetime in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 10, 60, 300, 1800, 3600},
		}),

		mutationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_mutations_sent_total",
			Help:        "Total number of DOM mutations sent to live clients",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// EffectDone implements reactive.Observer.
func (m *Metrics) EffectDone(s reactive.Schedule, start time.Time, err error) {
	m.effectRuns.WithLabelValues(s.String(), status(err)).Inc()
}

// FlushDone implements reactive.Observer.
func (m *Metrics) FlushDone(s reactive.Schedule, start time.Time, effects int) {
	m.flushes.WithLabelValues(s.String()).Inc()
	m.flushDuration.WithLabelValues(s.String()).Observe(time.Since(start).Seconds())
}

// OwnerCreated implements reactive.Observer.
func (m *Metrics) OwnerCreated() { m.owners.Inc() }

// OwnerDisposed implements reactive.Observer.
func (m *Metrics) OwnerDisposed() { m.owners.Dec() }

// InstanceCreated implements render.Observer.
func (m *Metrics) InstanceCreated(tag string) {
	kind := "element"
	if tag == "" {
		kind = "default"
	}
	m.created.WithLabelValues(kind).Inc()
}

// InstanceRemoved implements render.Observer.
func (m *Metrics) InstanceRemoved() { m.removed.Inc() }

// AsyncSettled implements render.Observer.
func (m *Metrics) AsyncSettled(component string, start time.Time, err error) {
	m.asyncDuration.WithLabelValues(status(err)).Observe(time.Since(start).Seconds())
}

// SessionOpened implements live.Observer.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed implements live.Observer.
func (m *Metrics) SessionClosed(lifetime time.Duration) {
	m.sessions.Dec()
	m.sessionDuration.Observe(lifetime.Seconds())
}

// PatchSent implements live.Observer.
func (m *Metrics) PatchSent(mutations int) { m.mutationsSent.Add(float64(mutations)) }
