package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "covid_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reconciliation pipeline.
type Metrics struct {
	FeedFetches       *prometheus.CounterVec // labels: outcome={success,error}
	FeedFetchDuration prometheus.Histogram
	PipelineRunning   prometheus.Gauge

	// Ingest metrics, updated once per refresh.
	RecordsFetched  prometheus.Counter
	RecordsKept     prometheus.Counter
	FieldsDropped   prometheus.Counter
	DatesReconciled prometheus.Gauge
	AlternateValues prometheus.Gauge
	RefreshDuration prometheus.Histogram
	LastRefresh     prometheus.Gauge

	// Output metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	ProjectionCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.PipelineRunning,
		m.RecordsFetched,
		m.RecordsKept,
		m.FieldsDropped,
		m.DatesReconciled,
		m.AlternateValues,
		m.RefreshDuration,
		m.LastRefresh,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.ProjectionCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Feed retrievals by outcome.",
		}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a complete feed download and parse.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_fetched_total",
			Help:      "Raw feed entries received.",
		}),
		RecordsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_kept_total",
			Help:      "Feed entries kept after region and source filtering.",
		}),
		FieldsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_dropped_total",
			Help:      "Category fields dropped because they failed integer coercion.",
		}),
		DatesReconciled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dates_reconciled",
			Help:      "Number of dates in the latest dataset.",
		}),
		AlternateValues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alternate_values",
			Help:      "Conflicting non-primary observations in the latest dataset.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-reconcile-publish cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Daily snapshots written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed snapshot batch writes.",
		}),
		ProjectionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_total",
			Help:      "Chart projection cache lookups by result.",
		}, []string{"result"}),
	}
}
