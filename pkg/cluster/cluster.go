// Package cluster implements the density-based clustering engine: a DBSCAN
// variant extended with duplicate coalescing, hull-based frontier pruning,
// and a post-pass that folds noise into auxiliary clusters so that every
// input point ends labeled.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lennartvoss/geocluster/pkg/coalesce"
	"github.com/lennartvoss/geocluster/pkg/geo"
	"github.com/lennartvoss/geocluster/pkg/hull"
	"github.com/lennartvoss/geocluster/pkg/idgen"
	"github.com/lennartvoss/geocluster/pkg/kdtree"
)

// ErrInvalidArgument is returned for precondition violations caught before
// clustering runs: a non-positive eps, a minPts below 1, a non-finite
// coordinate, or a point that already carries a cluster id.
var ErrInvalidArgument = errors.New("cluster: invalid argument")

// ClusterablePoint is a 2-D point plus a mutable cluster identifier. The
// identifier is 0 while unlabeled. An id assigned during core traversal is
// never changed again; during noise relabeling a point may be restamped by
// a later noise center whose range also reaches it (last write wins).
type ClusterablePoint struct {
	X, Y      float64
	ClusterID uint64
}

// Coords implements coalesce.Member and kdtree.Item.
func (p *ClusterablePoint) Coords() geo.Point {
	return geo.Point{X: p.X, Y: p.Y}
}

type pointSet = coalesce.PointSet[*ClusterablePoint]

// Options configures a Cluster call beyond the required eps/minPts.
type Options struct {
	// Seed drives the k-d tree's construction shuffle. Zero means "derive
	// from the current wall-clock time".
	Seed int64

	// StrictNoise, when true, replaces the spatial relabeling of leftover
	// noise into secondary clusters with a single shared cluster id for
	// all of it, approximating classic DBSCAN's "noise stays noise"
	// semantics while still giving every point a strictly positive id.
	StrictNoise bool
}

// Cluster partitions points into densitybased clusters in place. Every
// points[i].ClusterID must be 0 on entry; eps must be positive; minPts
// must be at least 1; all coordinates must be finite. On success every
// point has a strictly positive ClusterID and the return value is the
// number of clusters formed (equivalently, the maximum id observed).
func Cluster(points []ClusterablePoint, eps float64, minPts uint, opts Options) (uint64, error) {
	if err := validate(points, eps, minPts); err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}

	eps2 := eps * eps
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ptrs := make([]*ClusterablePoint, len(points))
	for i := range points {
		ptrs[i] = &points[i]
	}

	groups := coalesce.Coalesce(ptrs)
	tree := kdtree.Build(groups, seed)

	gen := idgen.New()
	visited := make(map[*pointSet]bool, len(groups))
	var noise []*pointSet

	for _, p := range groups {
		if visited[p] {
			continue
		}
		visited[p] = true

		neighbors := tree.Within(p.Point, eps2)
		if weightedCount(neighbors) < int(minPts) {
			noise = append(noise, p)
			continue
		}

		cid := gen.Next()
		stamp(p, cid)
		expand(tree, p, neighbors, cid, eps2, minPts, visited)
	}

	relabelNoise(noise, eps2, minPts, seed+1, gen, opts.StrictNoise)

	return gen.Last(), nil
}

func validate(points []ClusterablePoint, eps float64, minPts uint) error {
	if eps <= 0 {
		return fmt.Errorf("%w: eps must be positive, got %v", ErrInvalidArgument, eps)
	}
	if minPts < 1 {
		return fmt.Errorf("%w: min_pts must be >= 1, got %d", ErrInvalidArgument, minPts)
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d has non-finite coordinates (%v, %v)", ErrInvalidArgument, i, p.X, p.Y)
		}
		if p.ClusterID != 0 {
			return fmt.Errorf("%w: point %d already has a cluster id (%d), precondition requires 0", ErrInvalidArgument, i, p.ClusterID)
		}
	}
	return nil
}

func weightedCount(group []*pointSet) int {
	total := 0
	for _, g := range group {
		total += len(g.Members)
	}
	return total
}

func stamp(p *pointSet, cid uint64) {
	for _, m := range p.Members {
		m.ClusterID = cid
	}
}

func labelOf(p *pointSet) uint64 {
	if len(p.Members) == 0 {
		return 0
	}
	return p.Members[0].ClusterID
}

// expand grows a newly-seeded cluster by walking its frontier, restricting
// which representatives may trigger further range queries to the convex
// hull of the frontier's own current membership.
func expand(
	tree *kdtree.Tree[*pointSet],
	seed *pointSet,
	seedNeighbors []*pointSet,
	cid uint64,
	eps2 float64,
	minPts uint,
	visited map[*pointSet]bool,
) {
	frontier := make(map[*pointSet]struct{}, len(seedNeighbors))
	for _, n := range seedNeighbors {
		if n != seed {
			frontier[n] = struct{}{}
		}
	}

	hullSet := hullOf(frontier)

	for len(frontier) > 0 {
		q := popArbitrary(frontier)

		if !visited[q] {
			visited[q] = true

			if _, onHull := hullSet[q]; onHull {
				qNeighbors := tree.Within(q.Point, eps2)
				if weightedCount(qNeighbors) >= int(minPts) {
					for _, m := range qNeighbors {
						frontier[m] = struct{}{}
					}
				}
				hullSet = hullOf(frontier)
			}
		}

		if labelOf(q) == 0 {
			stamp(q, cid)
		}
	}
}

func hullOf(frontier map[*pointSet]struct{}) map[*pointSet]struct{} {
	if len(frontier) == 0 {
		return nil
	}

	pts := make([]geo.Point, 0, len(frontier))
	byPoint := make(map[geo.Point]*pointSet, len(frontier))
	for q := range frontier {
		pts = append(pts, q.Point)
		byPoint[q.Point] = q
	}

	verts := hull.Hull(pts)
	out := make(map[*pointSet]struct{}, len(verts))
	for _, v := range verts {
		out[byPoint[v]] = struct{}{}
	}
	return out
}

func popArbitrary(frontier map[*pointSet]struct{}) *pointSet {
	for q := range frontier {
		delete(frontier, q)
		return q
	}
	return nil
}

// relabelNoise folds any representative still unlabeled after the core
// traversal into a secondary cluster, re-clustering the leftover noise
// among itself so every input point ends with a strictly positive id.
func relabelNoise(noise []*pointSet, eps2 float64, minPts uint, seed int64, gen *idgen.Generator, strict bool) {
	var remaining []*pointSet
	for _, p := range noise {
		if labelOf(p) == 0 {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		return
	}

	if strict {
		cid := gen.Next()
		for _, p := range remaining {
			stamp(p, cid)
		}
		return
	}

	subtree := kdtree.Build(remaining, seed)
	for _, q := range remaining {
		if labelOf(q) != 0 {
			// A previous noise center's range query already reached q, so
			// q itself never starts a query of its own. It can still be
			// relabeled as someone else's neighbor below: last write wins.
			continue
		}
		nn := subtree.Within(q.Point, eps2)
		cid := gen.Next()
		for _, n := range nn {
			stamp(n, cid)
		}
	}
}
