package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lennartvoss/geocluster/pkg/cluster"
	"github.com/lennartvoss/geocluster/pkg/config"
	"github.com/lennartvoss/geocluster/pkg/dataset"
	"github.com/lennartvoss/geocluster/pkg/observability"
	"github.com/lennartvoss/geocluster/pkg/resultcache"
)

// Handler implements every HTTP endpoint, backed directly by the dataset
// manager and the clustering engine — there is no RPC hop in this service.
type Handler struct {
	datasets *dataset.Manager
	cache    *resultcache.LRUCache
	metrics  *observability.Metrics
	cfg      *config.Config
}

// NewHandler creates a REST API handler.
func NewHandler(datasets *dataset.Manager, cache *resultcache.LRUCache, metrics *observability.Metrics, cfg *config.Config) *Handler {
	return &Handler{datasets: datasets, cache: cache, metrics: metrics, cfg: cfg}
}

// HealthCheck handles GET /v1/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

type createDatasetRequest struct {
	Name      string `json:"name"`
	MaxPoints int64  `json:"max_points"`
}

// CreateDataset handles POST /v1/datasets
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	quota := dataset.DefaultQuota()
	if req.MaxPoints != 0 {
		quota.MaxPoints = req.MaxPoints
	}

	ds, err := h.datasets.CreateDataset(req.Name, quota)
	if err != nil {
		h.metrics.RecordError("CreateDataset", "conflict")
		writeError(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, ds, http.StatusCreated)
}

// DeleteDataset handles DELETE /v1/datasets/{name}
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.datasets.DeleteDataset(name); err != nil {
		h.metrics.RecordError("DeleteDataset", "not_found")
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type pointsRequest struct {
	Points [][2]float64 `json:"points"`
}

// AppendPoints handles POST /v1/datasets/{name}/points
func (h *Handler) AppendPoints(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, err := h.datasets.GetDataset(name)
	if err != nil {
		h.metrics.RecordError("AppendPoints", "not_found")
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	points := make([]cluster.ClusterablePoint, len(req.Points))
	for i, p := range req.Points {
		points[i] = cluster.ClusterablePoint{X: p[0], Y: p[1]}
	}

	if err := ds.AppendPoints(points); err != nil {
		h.metrics.RecordError("AppendPoints", "quota_exceeded")
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, map[string]int64{"point_count": ds.Usage.PointCount}, http.StatusOK)
}

type clusterRequest struct {
	Eps     float64 `json:"eps"`
	MinPts  uint    `json:"min_pts"`
	NoCache bool    `json:"no_cache"`
}

type clusterResponse struct {
	ClusterCount uint64                       `json:"cluster_count"`
	Points       []cluster.ClusterablePoint   `json:"points"`
	FromCache    bool                         `json:"from_cache"`
}

// ClusterDataset handles POST /v1/datasets/{name}/cluster
func (h *Handler) ClusterDataset(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, err := h.datasets.GetDataset(name)
	if err != nil {
		h.metrics.RecordError("ClusterDataset", "not_found")
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	req := clusterRequest{Eps: h.cfg.Cluster.DefaultEps, MinPts: uint(h.cfg.Cluster.DefaultMinPts)}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}

	key := resultcache.NewKey(ds.ID, ds.Usage.PointCount, req.Eps, req.MinPts)
	if !req.NoCache && h.cache != nil {
		if outcome, ok := h.cache.Get(key); ok {
			h.metrics.RecordCacheHit()
			writeJSON(w, clusterResponse{ClusterCount: outcome.ClusterCount, Points: outcome.Points, FromCache: true}, http.StatusOK)
			return
		}
		h.metrics.RecordCacheMiss()
	}

	start := time.Now()
	opts := cluster.Options{Seed: h.cfg.Cluster.Seed, StrictNoise: h.cfg.Cluster.StrictNoise}
	n, points, err := ds.ClusterDataset(req.Eps, req.MinPts, opts)
	if err != nil {
		h.metrics.RecordError("ClusterDataset", "invalid_argument")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.metrics.RecordClusterRun(time.Since(start), len(points), n)

	if h.cache != nil {
		h.cache.Put(key, resultcache.Outcome{ClusterCount: n, Points: points, ComputedAt: time.Now()})
	}

	writeJSON(w, clusterResponse{ClusterCount: n, Points: points}, http.StatusOK)
}

// DatasetStats handles GET /v1/datasets/{name}/stats
func (h *Handler) DatasetStats(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ds, err := h.datasets.GetDataset(name)
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, ds.Usage, http.StatusOK)
}

// ListDatasets handles GET /v1/datasets
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.datasets.ListDatasets(), http.StatusOK)
}

// routeDatasetSubpath dispatches /v1/datasets/{name}/{sub} requests.
func (h *Handler) routeDatasetSubpath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/datasets/")
	parts := strings.SplitN(path, "/", 2)

	name := parts[0]
	if name == "" {
		writeError(w, "Invalid URL format, expected /v1/datasets/{name}[/{sub}]", http.StatusBadRequest)
		return
	}

	if len(parts) == 1 {
		h.DeleteDataset(w, r, name)
		return
	}

	switch parts[1] {
	case "points":
		h.AppendPoints(w, r, name)
	case "cluster":
		h.ClusterDataset(w, r, name)
	case "stats":
		h.DatasetStats(w, r, name)
	default:
		http.NotFound(w, r)
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}
