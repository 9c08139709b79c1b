package store

import (
	"database/sql"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

// DatasetRow mirrors a persisted dataset's identity and quota.
type DatasetRow struct {
	ID        string
	Name      string
	MaxPoints int64
	CreatedAt string
	UpdatedAt string
}

// ClusterRunRow records the parameters and outcome of one persisted
// cluster run.
type ClusterRunRow struct {
	ID           int64
	DatasetID    string
	Eps          float64
	MinPts       int
	ClusterCount uint64
	PointCount   int
	RanAt        string
}

// InsertDataset persists a new dataset row.
func (db *DB) InsertDataset(id, name string, maxPoints int64) error {
	_, err := db.conn.Exec(
		`INSERT INTO datasets (id, name, max_points) VALUES (?, ?, ?)`,
		id, name, maxPoints,
	)
	return err
}

// GetDatasetByName returns the persisted dataset row for name, or nil if
// none exists.
func (db *DB) GetDatasetByName(name string) (*DatasetRow, error) {
	row := db.conn.QueryRow(
		`SELECT id, name, max_points, created_at, updated_at FROM datasets WHERE name = ?`, name,
	)
	var d DatasetRow
	if err := row.Scan(&d.ID, &d.Name, &d.MaxPoints, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// ListDatasets returns every persisted dataset row.
func (db *DB) ListDatasets() ([]DatasetRow, error) {
	rows, err := db.conn.Query(`SELECT id, name, max_points, created_at, updated_at FROM datasets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetRow
	for rows.Next() {
		var d DatasetRow
		if err := rows.Scan(&d.ID, &d.Name, &d.MaxPoints, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset and, via ON DELETE CASCADE, its points
// and cluster run history.
func (db *DB) DeleteDataset(id string) error {
	_, err := db.conn.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	return err
}

// ReplacePoints atomically replaces every point row for a dataset,
// matching pkg/dataset's snapshot-then-overwrite semantics.
func (db *DB) ReplacePoints(datasetID string, points []cluster.ClusterablePoint) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM points WHERE dataset_id = ?`, datasetID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO points (dataset_id, x, y, cluster_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(datasetID, p.X, p.Y, p.ClusterID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE datasets SET updated_at = datetime('now') WHERE id = ?`, datasetID); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadPoints returns every persisted point for a dataset.
func (db *DB) LoadPoints(datasetID string) ([]cluster.ClusterablePoint, error) {
	rows, err := db.conn.Query(`SELECT x, y, cluster_id FROM points WHERE dataset_id = ?`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []cluster.ClusterablePoint
	for rows.Next() {
		var p cluster.ClusterablePoint
		if err := rows.Scan(&p.X, &p.Y, &p.ClusterID); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// InsertClusterRun records the outcome of a completed cluster run.
func (db *DB) InsertClusterRun(datasetID string, eps float64, minPts int, clusterCount uint64, pointCount int) error {
	_, err := db.conn.Exec(
		`INSERT INTO cluster_runs (dataset_id, eps, min_pts, cluster_count, point_count) VALUES (?, ?, ?, ?, ?)`,
		datasetID, eps, minPts, clusterCount, pointCount,
	)
	return err
}

// GetClusterRuns returns every recorded run for a dataset, most recent
// first.
func (db *DB) GetClusterRuns(datasetID string) ([]ClusterRunRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, dataset_id, eps, min_pts, cluster_count, point_count, ran_at
		FROM cluster_runs WHERE dataset_id = ? ORDER BY ran_at DESC`, datasetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClusterRunRow
	for rows.Next() {
		var r ClusterRunRow
		if err := rows.Scan(&r.ID, &r.DatasetID, &r.Eps, &r.MinPts, &r.ClusterCount, &r.PointCount, &r.RanAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
