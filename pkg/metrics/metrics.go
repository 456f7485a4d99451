package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for compilation and framing. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Compilation metrics
	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	cachedLayouts   prometheus.Gauge

	// RecordIO metrics
	framesTotal *prometheus.CounterVec
	frameBytes  *prometheus.HistogramVec

	// Catalog metrics
	catalogOperationsTotal *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		compilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridrow_compiles_total",
				Help: "Total number of schema layout compilations",
			},
			[]string{"status"},
		),

		compileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hybridrow_compile_duration_seconds",
				Help:    "Schema layout compilation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),

		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridrow_layout_cache_lookups_total",
				Help: "Total number of compiled layout cache lookups",
			},
			[]string{"result"},
		),

		cachedLayouts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hybridrow_layout_cache_entries",
				Help: "Number of compiled layouts held in the cache",
			},
		),

		framesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridrow_recordio_frames_total",
				Help: "Total number of RecordIO frames formatted",
			},
			[]string{"kind", "status"},
		),

		frameBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hybridrow_recordio_frame_bytes",
				Help:    "Size of formatted RecordIO frames in bytes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 10),
			},
			[]string{"kind"},
		),

		catalogOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hybridrow_catalog_operations_total",
				Help: "Total number of schema catalog operations",
			},
			[]string{"operation", "status"},
		),
	}

	return m
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}

// RecordCompile records one layout compilation
func (m *Metrics) RecordCompile(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.compilesTotal.WithLabelValues(status(err)).Inc()
	m.compileDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a layout cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetCachedLayouts updates the layout cache size
func (m *Metrics) SetCachedLayouts(n int) {
	if m == nil {
		return
	}
	m.cachedLayouts.Set(float64(n))
}

// RecordFrame records a formatted frame of the given kind
func (m *Metrics) RecordFrame(kind string, size int, err error) {
	if m == nil {
		return
	}
	m.framesTotal.WithLabelValues(kind, status(err)).Inc()
	if err == nil {
		m.frameBytes.WithLabelValues(kind).Observe(float64(size))
	}
}

// RecordCatalogOperation records a catalog operation
func (m *Metrics) RecordCatalogOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.catalogOperationsTotal.WithLabelValues(operation, status(err)).Inc()
}
