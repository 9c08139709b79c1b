package observability

import (
	"testing"
	"time"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	t.Run("NewMetrics", func(t *testing.T) {
		if m == nil {
			t.Fatal("NewMetrics returned nil")
		}
		if m.RequestsTotal == nil {
			t.Error("RequestsTotal not initialized")
		}
		if m.ClusterRunsTotal == nil {
			t.Error("ClusterRunsTotal not initialized")
		}
		if m.CacheHits == nil {
			t.Error("CacheHits not initialized")
		}
	})

	t.Run("RecordRequest", func(t *testing.T) {
		m.RecordRequest("ClusterDataset", "success", 100*time.Millisecond)
		m.RecordRequest("AppendPoints", "error", 50*time.Millisecond)

		methods := []string{"ClusterDataset", "AppendPoints", "CreateDataset", "DeleteDataset"}
		statuses := []string{"success", "error", "timeout"}
		for _, method := range methods {
			for _, status := range statuses {
				m.RecordRequest(method, status, 10*time.Millisecond)
			}
		}
	})

	t.Run("RecordError", func(t *testing.T) {
		m.RecordError("ClusterDataset", "invalid_argument")
		m.RecordError("AppendPoints", "quota_exceeded")
	})

	t.Run("RecordClusterRun", func(t *testing.T) {
		m.RecordClusterRun(25*time.Millisecond, 500, 12)
		m.RecordClusterRun(5*time.Second, 100000, 340)
	})

	t.Run("RecordNoiseRelabeled", func(t *testing.T) {
		m.RecordNoiseRelabeled(7)
		m.RecordNoiseRelabeled(0)
	})

	t.Run("RecordKDTreeBuild", func(t *testing.T) {
		m.RecordKDTreeBuild(2*time.Millisecond, 512)
		m.RecordKDTreeBuild(500*time.Millisecond, 250000)
	})

	t.Run("RecordHullVertices", func(t *testing.T) {
		m.RecordHullVertices(3)
		m.RecordHullVertices(12)
	})

	t.Run("CacheMetrics", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			m.RecordCacheHit()
		}
		for i := 0; i < 10; i++ {
			m.RecordCacheMiss()
		}
		m.UpdateCacheSize(42)
	})

	t.Run("DatasetMetrics", func(t *testing.T) {
		m.UpdateDatasetCount(5)
		m.UpdateDatasetQuota("demo", "points", 75.5)
		m.UpdateDatasetQuota("demo", "points", 90.0)
	})

	t.Run("SystemMetrics", func(t *testing.T) {
		m.UpdateGoroutineCount(32)
		m.UpdateMemoryUsage(1024 * 1024 * 64)
	})
}

func BenchmarkRecordClusterRun(b *testing.B) {
	b.Skip("skipping benchmark to avoid global metric registry conflicts")
}
