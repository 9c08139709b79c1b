package dataset

import (
	"path/filepath"
	"testing"

	"github.com/lennartvoss/geocluster/pkg/cluster"
	"github.com/lennartvoss/geocluster/pkg/store"
)

func openTestStore(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geocluster.db")
	db, err := store.Open(path, false, false)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestManagerWithStorePersistsAcrossReload(t *testing.T) {
	db := openTestStore(t)

	m, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("NewManagerWithStore: %v", err)
	}

	ds, err := m.CreateDataset("demo", DefaultQuota())
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	if err := ds.AppendPoints([]cluster.ClusterablePoint{{X: 0, Y: 0}, {X: 1, Y: 1}}); err != nil {
		t.Fatalf("AppendPoints: %v", err)
	}

	reloaded, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("reload NewManagerWithStore: %v", err)
	}

	got, err := reloaded.GetDataset("demo")
	if err != nil {
		t.Fatalf("GetDataset after reload: %v", err)
	}
	if got.Usage.PointCount != 2 {
		t.Errorf("got PointCount %d, want 2", got.Usage.PointCount)
	}
	if len(got.Points()) != 2 {
		t.Errorf("got %d points, want 2", len(got.Points()))
	}
}

func TestManagerWithStoreDeletePersists(t *testing.T) {
	db := openTestStore(t)

	m, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("NewManagerWithStore: %v", err)
	}
	if _, err := m.CreateDataset("gone", DefaultQuota()); err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	if err := m.DeleteDataset("gone"); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}

	reloaded, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("reload NewManagerWithStore: %v", err)
	}
	if len(reloaded.ListDatasets()) != 0 {
		t.Errorf("expected no datasets after delete+reload, got %d", len(reloaded.ListDatasets()))
	}
}

func TestManagerWithStoreClusterRunPersists(t *testing.T) {
	db := openTestStore(t)

	m, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("NewManagerWithStore: %v", err)
	}
	ds, err := m.CreateDataset("run", UnlimitedQuota())
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	if err := ds.AppendPoints([]cluster.ClusterablePoint{
		{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 10, Y: 10},
	}); err != nil {
		t.Fatalf("AppendPoints: %v", err)
	}

	if _, _, err := ds.ClusterDataset(0.5, 2, cluster.Options{Seed: 1}); err != nil {
		t.Fatalf("ClusterDataset: %v", err)
	}

	runs, err := db.GetClusterRuns(ds.ID)
	if err != nil {
		t.Fatalf("GetClusterRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded cluster run, got %d", len(runs))
	}

	reloaded, err := NewManagerWithStore(db)
	if err != nil {
		t.Fatalf("reload NewManagerWithStore: %v", err)
	}
	got, err := reloaded.GetDataset("run")
	if err != nil {
		t.Fatalf("GetDataset after reload: %v", err)
	}
	for i, p := range got.Points() {
		if p.ClusterID == 0 {
			t.Errorf("point %d left unlabeled after reload", i)
		}
	}
}
