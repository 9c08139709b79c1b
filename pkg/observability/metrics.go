package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus metric exported by the clustering engine
// and its surrounding REST service.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	// Cluster-run metrics
	ClusterRunsTotal    prometheus.Counter
	ClusterDuration     prometheus.Histogram
	PointsProcessed     prometheus.Counter
	ClustersFormed      prometheus.Histogram
	NoiseRelabeledTotal prometheus.Counter

	// k-d tree metrics
	KDTreeBuildDuration prometheus.Histogram
	KDTreeNodeCount     prometheus.Histogram

	// Convex hull metrics
	HullVerticesReturned prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheSize   prometheus.Gauge

	// Dataset metrics
	DatasetsTotal     prometheus.Gauge
	DatasetQuotaUsage *prometheus.GaugeVec

	// System metrics
	GoroutinesCount prometheus.Gauge
	MemoryUsage     prometheus.Gauge
}

// NewMetrics creates and registers every metric with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocluster_requests_total",
				Help: "Total number of requests by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geocluster_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geocluster_request_errors_total",
				Help: "Total number of request errors by method and error type",
			},
			[]string{"method", "error_type"},
		),

		ClusterRunsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geocluster_cluster_runs_total",
				Help: "Total number of cluster runs executed",
			},
		),
		ClusterDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocluster_cluster_duration_seconds",
				Help:    "Wall-clock duration of a cluster run",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
		),
		PointsProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geocluster_points_processed_total",
				Help: "Total number of input points processed across all cluster runs",
			},
		),
		ClustersFormed: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocluster_clusters_formed",
				Help:    "Number of clusters formed per run",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		NoiseRelabeledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geocluster_noise_relabeled_total",
				Help: "Total number of points resolved by the Phase 3 noise relabeling pass",
			},
		),

		KDTreeBuildDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocluster_kdtree_build_duration_seconds",
				Help:    "Time spent building a k-d tree",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		KDTreeNodeCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocluster_kdtree_node_count",
				Help:    "Number of nodes in a built k-d tree",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
		),

		HullVerticesReturned: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "geocluster_hull_vertices_returned",
				Help:    "Number of vertices returned by a single convex hull computation",
				Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
			},
		),

		CacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geocluster_cache_hits_total",
				Help: "Total number of result cache hits",
			},
		),
		CacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geocluster_cache_misses_total",
				Help: "Total number of result cache misses",
			},
		),
		CacheSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "geocluster_cache_size",
				Help: "Current number of entries in the result cache",
			},
		),

		DatasetsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "geocluster_datasets_total",
				Help: "Total number of active datasets",
			},
		),
		DatasetQuotaUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "geocluster_dataset_quota_usage",
				Help: "Dataset quota usage percentage by dataset and resource",
			},
			[]string{"dataset", "resource"},
		),

		GoroutinesCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "geocluster_goroutines",
				Help: "Current number of goroutines",
			},
		),
		MemoryUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "geocluster_memory_bytes",
				Help: "Memory usage in bytes",
			},
		),
	}
}

// RecordRequest records a request with duration and status.
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordError records an error.
func (m *Metrics) RecordError(method, errorType string) {
	m.RequestErrors.WithLabelValues(method, errorType).Inc()
}

// RecordClusterRun records the outcome of one Cluster invocation.
func (m *Metrics) RecordClusterRun(duration time.Duration, pointCount int, clusterCount uint64) {
	m.ClusterRunsTotal.Inc()
	m.ClusterDuration.Observe(duration.Seconds())
	m.PointsProcessed.Add(float64(pointCount))
	m.ClustersFormed.Observe(float64(clusterCount))
}

// RecordNoiseRelabeled records how many points Phase 3 resolved.
func (m *Metrics) RecordNoiseRelabeled(count int) {
	m.NoiseRelabeledTotal.Add(float64(count))
}

// RecordKDTreeBuild records how long a k-d tree build took and its size.
func (m *Metrics) RecordKDTreeBuild(duration time.Duration, nodeCount int) {
	m.KDTreeBuildDuration.Observe(duration.Seconds())
	m.KDTreeNodeCount.Observe(float64(nodeCount))
}

// RecordHullVertices records the vertex count of one convex hull result.
func (m *Metrics) RecordHullVertices(count int) {
	m.HullVerticesReturned.Observe(float64(count))
}

// RecordCacheHit records a result cache hit.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss records a result cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}

// UpdateCacheSize updates the cache size gauge.
func (m *Metrics) UpdateCacheSize(size int) {
	m.CacheSize.Set(float64(size))
}

// UpdateDatasetCount updates the total dataset count.
func (m *Metrics) UpdateDatasetCount(count int) {
	m.DatasetsTotal.Set(float64(count))
}

// UpdateDatasetQuota updates dataset quota usage for a given resource.
func (m *Metrics) UpdateDatasetQuota(dataset, resource string, usage float64) {
	m.DatasetQuotaUsage.WithLabelValues(dataset, resource).Set(usage)
}

// UpdateGoroutineCount updates the goroutine count gauge.
func (m *Metrics) UpdateGoroutineCount(count int) {
	m.GoroutinesCount.Set(float64(count))
}

// UpdateMemoryUsage updates the memory usage gauge.
func (m *Metrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}
