// Package render draws a clustered point set to a PNG scatter plot, one
// series per cluster id, using gonum's plotting library.
package render

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

// ScatterPNG writes a scatter plot of points to path, coloring each point
// by its ClusterID. Points with ClusterID 0 (unlabeled) are rendered in a
// fixed gray.
func ScatterPNG(path string, points []cluster.ClusterablePoint) error {
	p := plot.New()
	p.Title.Text = "Cluster assignment"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	byCluster := make(map[uint64]plotter.XYs)
	for _, pt := range points {
		byCluster[pt.ClusterID] = append(byCluster[pt.ClusterID], plotter.XY{X: pt.X, Y: pt.Y})
	}

	ids := make([]uint64, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	palette := colorPalette(len(ids))
	for i, id := range ids {
		scatter, err := plotter.NewScatter(byCluster[id])
		if err != nil {
			return fmt.Errorf("render: new scatter for cluster %d: %w", id, err)
		}
		scatter.Color = palette[i]
		scatter.Radius = vg.Points(2)

		p.Add(scatter)
		if id == 0 {
			p.Legend.Add("noise", scatter)
		} else {
			p.Legend.Add(fmt.Sprintf("cluster %d", id), scatter)

			cx, cy := centroid(byCluster[id])
			mark, err := plotter.NewScatter(plotter.XYs{{X: cx, Y: cy}})
			if err != nil {
				return fmt.Errorf("render: centroid marker for cluster %d: %w", id, err)
			}
			mark.Color = palette[i]
			mark.Shape = draw.CrossGlyph{}
			mark.Radius = vg.Points(5)
			p.Add(mark)
		}
	}

	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// centroid returns the mean x and y coordinate of a cluster's points,
// marking its center on the plot.
func centroid(points plotter.XYs) (float64, float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return stat.Mean(xs, nil), stat.Mean(ys, nil)
}

// colorPalette returns n colors cycling through a fixed ten-color base
// whose first entry is gray. ScatterPNG hands them out by position in the
// ascending id list, so gray goes to id 0 when unlabeled points are present
// and otherwise to the lowest cluster id; colors repeat after ten ids.
func colorPalette(n int) []color.Color {
	base := []color.RGBA{
		{R: 128, G: 128, B: 128, A: 255}, // gray, the first color handed out
		{R: 230, G: 25, B: 75, A: 255},
		{R: 60, G: 180, B: 75, A: 255},
		{R: 0, G: 130, B: 200, A: 255},
		{R: 245, G: 130, B: 48, A: 255},
		{R: 145, G: 30, B: 180, A: 255},
		{R: 70, G: 240, B: 240, A: 255},
		{R: 240, G: 50, B: 230, A: 255},
		{R: 210, G: 245, B: 60, A: 255},
		{R: 250, G: 190, B: 212, A: 255},
	}

	out := make([]color.Color, n)
	for i := 0; i < n; i++ {
		out[i] = base[i%len(base)]
	}
	return out
}
