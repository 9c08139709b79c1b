package store

import (
	"testing"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

func TestInsertAndGetDataset(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertDataset("ds_1", "demo", 1000); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}

	row, err := db.GetDatasetByName("demo")
	if err != nil {
		t.Fatalf("GetDatasetByName: %v", err)
	}
	if row == nil {
		t.Fatal("expected dataset row, got nil")
	}
	if row.ID != "ds_1" || row.Name != "demo" || row.MaxPoints != 1000 {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestGetDatasetByNameMissing(t *testing.T) {
	db := openTestDB(t)

	row, err := db.GetDatasetByName("nope")
	if err != nil {
		t.Fatalf("GetDatasetByName: %v", err)
	}
	if row != nil {
		t.Errorf("expected nil for missing dataset, got %+v", row)
	}
}

func TestReplacePointsAndLoad(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertDataset("ds_1", "demo", 1000); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}

	points := []cluster.ClusterablePoint{
		{X: 0, Y: 0, ClusterID: 1},
		{X: 1, Y: 1, ClusterID: 1},
		{X: 5, Y: 5, ClusterID: 2},
	}
	if err := db.ReplacePoints("ds_1", points); err != nil {
		t.Fatalf("ReplacePoints: %v", err)
	}

	loaded, err := db.LoadPoints("ds_1")
	if err != nil {
		t.Fatalf("LoadPoints: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 points, got %d", len(loaded))
	}

	// ReplacePoints must fully overwrite the previous set, not append.
	if err := db.ReplacePoints("ds_1", points[:1]); err != nil {
		t.Fatalf("second ReplacePoints: %v", err)
	}
	loaded, err = db.LoadPoints("ds_1")
	if err != nil {
		t.Fatalf("LoadPoints: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 point after replace, got %d", len(loaded))
	}
}

func TestDeleteDatasetCascadesPoints(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertDataset("ds_1", "demo", 1000); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}
	if err := db.ReplacePoints("ds_1", []cluster.ClusterablePoint{{X: 0, Y: 0}}); err != nil {
		t.Fatalf("ReplacePoints: %v", err)
	}

	if err := db.DeleteDataset("ds_1"); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}

	points, err := db.LoadPoints("ds_1")
	if err != nil {
		t.Fatalf("LoadPoints: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected points to be cascade-deleted, got %d", len(points))
	}
}

func TestClusterRunHistory(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertDataset("ds_1", "demo", 1000); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}

	if err := db.InsertClusterRun("ds_1", 0.5, 5, 3, 120); err != nil {
		t.Fatalf("InsertClusterRun: %v", err)
	}
	if err := db.InsertClusterRun("ds_1", 0.6, 4, 2, 120); err != nil {
		t.Fatalf("InsertClusterRun: %v", err)
	}

	runs, err := db.GetClusterRuns("ds_1")
	if err != nil {
		t.Fatalf("GetClusterRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}
