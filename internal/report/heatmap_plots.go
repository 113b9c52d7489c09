package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/lora_analyzer_go/internal/chart"
)

const heatmapColors = 64

// heatGrid adapts HeatmapChart values to plotter.GridXYZ with unit cells.
type heatGrid struct {
	values [][]float64
}

func (g heatGrid) Dims() (c, r int) {
	return len(g.values[0]), len(g.values)
}

func (g heatGrid) Z(c, r int) float64 { return g.values[r][c] }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

// RenderHeatmap draws a grid of group means with each cell annotated by its
// value. The colour map is oriented so the better end is always bright.
func (r *PlotRenderer) RenderHeatmap(c chart.HeatmapChart) ([]byte, error) {
	if len(c.Values) == 0 || len(c.Values[0]) == 0 {
		return nil, errors.New("no heatmap data to plot")
	}
	for i, row := range c.Values {
		if len(row) != len(c.Columns) {
			return nil, fmt.Errorf("heatmap row %d has %d values for %d columns", i, len(row), len(c.Columns))
		}
	}
	if len(c.RowLabels) != len(c.Values) {
		return nil, fmt.Errorf("heatmap has %d row labels for %d rows", len(c.RowLabels), len(c.Values))
	}

	var cmap palette.ColorMap = moreland.ExtendedKindlmann()
	if !c.HigherIsBetter {
		cmap = palette.Reverse(cmap)
	}

	grid := heatGrid{values: c.Values}
	hm := plotter.NewHeatMap(grid, cmap.Palette(heatmapColors))
	if math.IsInf(hm.Min, 0) || math.IsInf(hm.Max, 0) {
		return nil, errors.New("heatmap has no finite values")
	}
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}
	hm.NaN = color.Gray{Y: 200}

	p := plot.New()
	p.Add(hm)

	labels := plotter.XYLabels{}
	for row, values := range c.Values {
		for col, v := range values {
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(col), Y: float64(row)})
			labels.Labels = append(labels.Labels, strconv.FormatFloat(v, 'g', 3, 64))
		}
	}
	cells, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap labels: %w", err)
	}
	mid := hm.Min + (hm.Max-hm.Min)/2
	for i := range cells.TextStyle {
		cells.TextStyle[i].XAlign = draw.XCenter
		cells.TextStyle[i].YAlign = draw.YCenter
		v := c.Values[i/len(c.Columns)][i%len(c.Columns)]
		if (v < mid) == c.HigherIsBetter {
			cells.TextStyle[i].Color = color.White
		}
	}
	p.Add(cells)

	xTicks := make([]plot.Tick, len(c.Columns))
	for i, n := range c.Columns {
		xTicks[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(n)}
	}
	yTicks := make([]plot.Tick, len(c.RowLabels))
	for i, name := range c.RowLabels {
		yTicks[i] = plot.Tick{Value: float64(i), Label: name}
	}

	applyAxes(p, c.Axes)
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.X.Min, p.X.Max = -0.5, float64(len(c.Columns))-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(len(c.RowLabels))-0.5

	return r.encode(p, c.Size)
}
