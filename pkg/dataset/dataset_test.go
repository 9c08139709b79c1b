package dataset

import (
	"testing"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()

	ds, err := m.CreateDataset("demo", DefaultQuota())
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if ds.Name != "demo" {
		t.Errorf("got name %q, want demo", ds.Name)
	}

	got, err := m.GetDataset("demo")
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if got.ID != ds.ID {
		t.Errorf("got ID %q, want %q", got.ID, ds.ID)
	}
}

func TestManagerCreateDuplicateRejected(t *testing.T) {
	m := NewManager()
	if _, err := m.CreateDataset("demo", DefaultQuota()); err != nil {
		t.Fatalf("first CreateDataset failed: %v", err)
	}
	if _, err := m.CreateDataset("demo", DefaultQuota()); err == nil {
		t.Error("expected error creating duplicate dataset")
	}
}

func TestManagerDeleteAndList(t *testing.T) {
	m := NewManager()
	m.CreateDataset("a", DefaultQuota())
	m.CreateDataset("b", DefaultQuota())

	if len(m.ListDatasets()) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(m.ListDatasets()))
	}

	if err := m.DeleteDataset("a"); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if len(m.ListDatasets()) != 1 {
		t.Fatalf("expected 1 dataset after delete, got %d", len(m.ListDatasets()))
	}
	if err := m.DeleteDataset("missing"); err == nil {
		t.Error("expected error deleting nonexistent dataset")
	}
}

func TestDatasetQuotaEnforced(t *testing.T) {
	ds, _ := NewManager().CreateDataset("tight", Quota{MaxPoints: 2})

	err := ds.AppendPoints([]cluster.ClusterablePoint{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		t.Fatalf("unexpected error within quota: %v", err)
	}

	err = ds.AppendPoints([]cluster.ClusterablePoint{{X: 2, Y: 2}})
	if err == nil {
		t.Error("expected quota error on third point")
	}
}

func TestDatasetUnlimitedQuota(t *testing.T) {
	ds, _ := NewManager().CreateDataset("loose", UnlimitedQuota())

	pts := make([]cluster.ClusterablePoint, 1000)
	if err := ds.AppendPoints(pts); err != nil {
		t.Fatalf("unexpected error with unlimited quota: %v", err)
	}
}

func TestDatasetClusterDataset(t *testing.T) {
	ds, _ := NewManager().CreateDataset("run", UnlimitedQuota())
	ds.AppendPoints([]cluster.ClusterablePoint{
		{X: 0, Y: 0}, {X: 0.1, Y: 0}, {X: 10, Y: 10},
	})

	n, labeled, err := ds.ClusterDataset(0.5, 2, cluster.Options{Seed: 1})
	if err != nil {
		t.Fatalf("ClusterDataset failed: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected at least one cluster, got %d", n)
	}
	for i, p := range labeled {
		if p.ClusterID == 0 {
			t.Errorf("point %d left unlabeled", i)
		}
	}
	if ds.Usage.ClusterRunCount != 1 {
		t.Errorf("expected ClusterRunCount 1, got %d", ds.Usage.ClusterRunCount)
	}

	// Running again must not fail on the already-labeled precondition:
	// ClusterDataset resets ids on its snapshot before each run.
	if _, _, err := ds.ClusterDataset(0.5, 2, cluster.Options{Seed: 2}); err != nil {
		t.Fatalf("second ClusterDataset run failed: %v", err)
	}
	if ds.Usage.ClusterRunCount != 2 {
		t.Errorf("expected ClusterRunCount 2, got %d", ds.Usage.ClusterRunCount)
	}
}
