// Package dataset manages named, quota-bounded point collections and runs
// the clustering engine over them. It mirrors the teacher's multi-tenant
// namespace manager, re-themed from vector tenants to clusterable point
// sets.
package dataset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lennartvoss/geocluster/pkg/cluster"
	"github.com/lennartvoss/geocluster/pkg/store"
)

// Quota represents resource limits for a dataset. A zero or negative field
// means "unlimited", matching the teacher's convention.
type Quota struct {
	MaxPoints int64
}

// Usage tracks current resource usage and cluster-run history for a
// dataset.
type Usage struct {
	PointCount      int64
	ClusterRunCount int64
	LastClusterAt   time.Time
	LastClusterSize uint64
}

// Dataset is a named, quota-bounded collection of clusterable points.
type Dataset struct {
	ID        string
	Name      string
	Quota     Quota
	Usage     Usage
	CreatedAt time.Time
	UpdatedAt time.Time

	mu     sync.RWMutex
	points []cluster.ClusterablePoint
	db     *store.DB
}

// parseSQLiteTime parses the "datetime('now')" format SQLite stores
// timestamps in, falling back to the current time on a malformed value.
func parseSQLiteTime(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Now()
	}
	return t
}

// Manager handles dataset lifecycle and quota enforcement. When backed by a
// store.DB it persists every mutation so datasets survive a restart;
// without one it behaves as a plain in-memory registry, which is all the
// teacher's original tenant manager ever was.
type Manager struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	db       *store.DB
}

// NewManager creates an empty, in-memory-only dataset manager.
func NewManager() *Manager {
	return &Manager{datasets: make(map[string]*Dataset)}
}

// NewManagerWithStore creates a dataset manager backed by db, loading any
// datasets and points persisted by a previous run.
func NewManagerWithStore(db *store.DB) (*Manager, error) {
	m := &Manager{datasets: make(map[string]*Dataset), db: db}

	rows, err := db.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("dataset: loading persisted datasets: %w", err)
	}

	for _, row := range rows {
		points, err := db.LoadPoints(row.ID)
		if err != nil {
			return nil, fmt.Errorf("dataset: loading points for %q: %w", row.Name, err)
		}

		ds := &Dataset{
			ID:        row.ID,
			Name:      row.Name,
			Quota:     Quota{MaxPoints: row.MaxPoints},
			CreatedAt: parseSQLiteTime(row.CreatedAt),
			UpdatedAt: parseSQLiteTime(row.UpdatedAt),
			points:    points,
			db:        db,
		}
		ds.Usage.PointCount = int64(len(points))
		m.datasets[row.Name] = ds
	}

	return m, nil
}

// CreateDataset creates a new, empty dataset under name with the given
// quota.
func (m *Manager) CreateDataset(name string, quota Quota) (*Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.datasets[name]; exists {
		return nil, fmt.Errorf("dataset %q already exists", name)
	}

	ds := &Dataset{
		ID:        generateDatasetID(name),
		Name:      name,
		Quota:     quota,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		db:        m.db,
	}

	if m.db != nil {
		if err := m.db.InsertDataset(ds.ID, ds.Name, ds.Quota.MaxPoints); err != nil {
			return nil, fmt.Errorf("dataset: persisting %q: %w", name, err)
		}
	}

	m.datasets[name] = ds
	return ds, nil
}

// GetDataset retrieves a dataset by name.
func (m *Manager) GetDataset(name string) (*Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, exists := m.datasets[name]
	if !exists {
		return nil, fmt.Errorf("dataset %q not found", name)
	}
	return ds, nil
}

// DeleteDataset removes a dataset.
func (m *Manager) DeleteDataset(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ds, exists := m.datasets[name]
	if !exists {
		return fmt.Errorf("dataset %q not found", name)
	}

	if m.db != nil {
		if err := m.db.DeleteDataset(ds.ID); err != nil {
			return fmt.Errorf("dataset: deleting %q: %w", name, err)
		}
	}

	delete(m.datasets, name)
	return nil
}

// ListDatasets returns every dataset currently tracked.
func (m *Manager) ListDatasets() []*Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Dataset, 0, len(m.datasets))
	for _, ds := range m.datasets {
		out = append(out, ds)
	}
	return out
}

// CheckPointQuota reports whether adding count points would exceed the
// dataset's quota.
func (d *Dataset) CheckPointQuota(count int) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.Quota.MaxPoints > 0 && d.Usage.PointCount+int64(count) > d.Quota.MaxPoints {
		return fmt.Errorf("point quota exceeded: current=%d, requested=%d, max=%d",
			d.Usage.PointCount, count, d.Quota.MaxPoints)
	}
	return nil
}

// AppendPoints adds points to the dataset after checking its quota.
func (d *Dataset) AppendPoints(points []cluster.ClusterablePoint) error {
	if err := d.CheckPointQuota(len(points)); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	merged := append(append([]cluster.ClusterablePoint{}, d.points...), points...)

	if d.db != nil {
		if err := d.db.ReplacePoints(d.ID, merged); err != nil {
			return fmt.Errorf("dataset: persisting points for %q: %w", d.Name, err)
		}
	}

	d.points = merged
	d.Usage.PointCount = int64(len(d.points))
	d.UpdatedAt = time.Now()
	return nil
}

// Points returns a copy of the dataset's current points, safe for the
// caller to mutate.
func (d *Dataset) Points() []cluster.ClusterablePoint {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]cluster.ClusterablePoint, len(d.points))
	copy(out, d.points)
	return out
}

// ClusterDataset runs the clustering engine over a fresh snapshot of the
// dataset's points and stores the labeled result back onto the dataset.
// Each call rebuilds the underlying index from scratch, since the
// dataset's membership may have changed since the last run and the index
// itself is static.
func (d *Dataset) ClusterDataset(eps float64, minPts uint, opts cluster.Options) (uint64, []cluster.ClusterablePoint, error) {
	snapshot := d.Points()
	for i := range snapshot {
		snapshot[i].ClusterID = 0
	}

	n, err := cluster.Cluster(snapshot, eps, minPts, opts)
	if err != nil {
		return 0, nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		if err := d.db.ReplacePoints(d.ID, snapshot); err != nil {
			return 0, nil, fmt.Errorf("dataset: persisting cluster result for %q: %w", d.Name, err)
		}
		if err := d.db.InsertClusterRun(d.ID, eps, int(minPts), n, len(snapshot)); err != nil {
			return 0, nil, fmt.Errorf("dataset: recording cluster run for %q: %w", d.Name, err)
		}
	}

	d.points = snapshot
	d.Usage.ClusterRunCount++
	d.Usage.LastClusterAt = time.Now()
	d.Usage.LastClusterSize = n
	d.UpdatedAt = time.Now()

	return n, snapshot, nil
}

func generateDatasetID(name string) string {
	return fmt.Sprintf("dataset_%s_%s", name, uuid.NewString())
}

// DefaultQuota returns a generous default quota.
func DefaultQuota() Quota {
	return Quota{MaxPoints: 5_000_000}
}

// UnlimitedQuota returns a quota with no enforced limits.
func UnlimitedQuota() Quota {
	return Quota{MaxPoints: -1}
}
