// Package kdtree implements a static, build-once 2-D k-d tree supporting
// range queries within a squared-distance bound. Dynamic insert/delete is
// unsupported by design; the tree is rebuilt whenever its contents change.
package kdtree

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/lennartvoss/geocluster/pkg/geo"
)

// ErrNotSupported is returned by Insert and Delete: the tree is static.
var ErrNotSupported = errors.New("kdtree: dynamic insert/delete not supported")

// Item is anything a tree can index: a stable 2-D coordinate.
type Item interface {
	Coords() geo.Point
}

type node[T Item] struct {
	item  T
	axis  int
	left  *node[T]
	right *node[T]
}

// Tree is a balanced, static 2-D k-d tree.
type Tree[T Item] struct {
	root *node[T]
	rect geo.Rect
	size int
}

// Size returns the number of items indexed by the tree.
func (t *Tree[T]) Size() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Build constructs a tree over items, deduplicating exact coordinate
// duplicates (keeping the first occurrence) and shuffling the survivors
// with a uniform random permutation seeded by seed before recursive median
// selection. The root splits on axis 1 (y); children alternate. An input
// that is empty after deduplication yields an empty, usable tree rather
// than an error.
func Build[T Item](items []T, seed int64) *Tree[T] {
	uniq := dedupe(items)
	shuffle(uniq, seed)

	if len(uniq) == 0 {
		return &Tree[T]{}
	}

	rect := geo.RectForPoint(uniq[0].Coords())
	for _, it := range uniq {
		rect = rect.EnlargeTo(it.Coords())
	}

	return &Tree[T]{
		root: build(uniq, 1),
		rect: rect,
		size: len(uniq),
	}
}

// BuildNow is Build seeded from the current wall-clock time, matching the
// original implementation's default behavior.
func BuildNow[T Item](items []T) *Tree[T] {
	return Build(items, time.Now().UnixNano())
}

func dedupe[T Item](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		dup := false
		c := it.Coords()
		for _, kept := range out {
			if geo.Equals(kept.Coords(), c) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return out
}

func shuffle[T Item](items []T, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for i := len(items) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

func build[T Item](items []T, axis int) *node[T] {
	if len(items) == 0 {
		return nil
	}

	mid := (len(items) - 1) / 2
	selectNth(items, axis, 0, len(items)-1, mid)

	return &node[T]{
		item:  items[mid],
		axis:  axis,
		left:  build(items[:mid], 1-axis),
		right: build(items[mid+1:], 1-axis),
	}
}

// selectNth partitions items[lo:hi+1] in place so that items[k] holds the
// k-th smallest element (by coordinate along axis) of that range, with
// ties on the pivot coordinate falling into the lower partition.
func selectNth[T Item](items []T, axis, lo, hi, k int) {
	for lo < hi {
		p := partition(items, axis, lo, hi)
		switch {
		case p == k:
			return
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

func partition[T Item](items []T, axis, lo, hi int) int {
	pivot := items[hi].Coords().Coord(axis)
	i := lo - 1
	for j := lo; j < hi; j++ {
		if items[j].Coords().Coord(axis) <= pivot {
			i++
			items[i], items[j] = items[j], items[i]
		}
	}
	i++
	items[i], items[hi] = items[hi], items[i]
	return i
}

// Within returns every indexed item at squared distance <= radius2 from
// query, in no guaranteed order.
func (t *Tree[T]) Within(query geo.Point, radius2 float64) []T {
	if t == nil || t.root == nil {
		return nil
	}
	var out []T
	within(t.root, query, t.rect, radius2, &out)
	return out
}

func within[T Item](n *node[T], query geo.Point, rect geo.Rect, radius2 float64, out *[]T) {
	if n == nil || rect.MinDist2To(query) > radius2 {
		return
	}

	if geo.Dist2(n.item.Coords(), query) <= radius2 {
		*out = append(*out, n.item)
	}

	if left, err := rect.SplitLower(n.item.Coords(), n.axis); err == nil {
		within(n.left, query, left, radius2, out)
	}
	if right, err := rect.SplitUpper(n.item.Coords(), n.axis); err == nil {
		within(n.right, query, right, radius2, out)
	}
}

// KNearestSorted is a convenience wrapper around Within that sorts the
// result by ascending squared distance from query.
func (t *Tree[T]) KNearestSorted(query geo.Point, radius2 float64) []T {
	out := t.Within(query, radius2)
	sort.Slice(out, func(i, j int) bool {
		return geo.Dist2(out[i].Coords(), query) < geo.Dist2(out[j].Coords(), query)
	})
	return out
}

// Insert is not supported by this static tree.
func (t *Tree[T]) Insert(T) error {
	return ErrNotSupported
}

// Delete is not supported by this static tree.
func (t *Tree[T]) Delete(T) error {
	return ErrNotSupported
}
