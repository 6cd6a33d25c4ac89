package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "sessionkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "auth").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sessionkit",
		Subsystem: "auth",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder exports store operation metrics to Prometheus. It satisfies
// store.Recorder.
//
// Metrics collected:
//   - sessionkit_auth_operations_total: Counter of operations by op and outcome
//   - sessionkit_auth_operation_duration_seconds: Histogram of operation duration by op
//   - sessionkit_auth_authenticated: Gauge that is 1 while the store holds an
//     authenticated state
type Recorder struct {
	opsTotal      *prometheus.CounterVec
	opDuration    *prometheus.HistogramVec
	authenticated prometheus.Gauge
}

// New creates a Recorder and registers its collectors.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Recorder{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of auth operations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "outcome"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Auth operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		authenticated: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "authenticated",
			Help:        "Whether the store currently holds an authenticated state",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Observe records one completed operation.
func (r *Recorder) Observe(op, outcome string, duration time.Duration) {
	r.opsTotal.WithLabelValues(op, outcome).Inc()
	r.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetAuthenticated tracks the store's authenticated flag.
func (r *Recorder) SetAuthenticated(authenticated bool) {
	if authenticated {
		r.authenticated.Set(1)
	} else {
		r.authenticated.Set(0)
	}
}
