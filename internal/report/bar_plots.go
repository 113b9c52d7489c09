package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/lora_analyzer_go/internal/chart"
)

// errorBars pairs bar tops with their symmetric errors for plotter.NewYErrorBars.
type errorBars struct {
	plotter.XYs
	plotter.YErrors
}

// RenderBars draws a grouped bar chart with error bars. Bars are filled
// rectangles in data units so their width follows the X axis scale.
func (r *PlotRenderer) RenderBars(c chart.GroupedBarChart) ([]byte, error) {
	if len(c.Bars) == 0 {
		return nil, errors.New("no bars to plot")
	}
	width := c.BarWidth
	if width <= 0 {
		width = chart.DefaultBarWidth
	}

	p := plot.New()
	p.Add(plotter.NewGrid())

	errs := errorBars{
		XYs:     make(plotter.XYs, len(c.Bars)),
		YErrors: make(plotter.YErrors, len(c.Bars)),
	}
	for i, bar := range c.Bars {
		half := width / 2
		rect := plotter.XYs{
			{X: bar.X - half, Y: 0},
			{X: bar.X + half, Y: 0},
			{X: bar.X + half, Y: bar.Height},
			{X: bar.X - half, Y: bar.Height},
		}
		poly, err := plotter.NewPolygon(rect)
		if err != nil {
			return nil, fmt.Errorf("failed to create bar for %s: %w", bar.Group, err)
		}
		fill := barColor(bar.ColorKey)
		poly.Color = fill
		poly.LineStyle.Color = fill
		poly.LineStyle.Width = vg.Points(0.25)
		p.Add(poly)
		if bar.Label != "" {
			p.Legend.Add(bar.Label, poly)
		}

		errs.XYs[i] = plotter.XY{X: bar.X, Y: bar.Height}
		errs.YErrors[i].Low = bar.Err
		errs.YErrors[i].High = bar.Err
	}

	yerr, err := plotter.NewYErrorBars(errs)
	if err != nil {
		return nil, fmt.Errorf("failed to create error bars: %w", err)
	}
	yerr.LineStyle.Color = color.Black
	yerr.LineStyle.Width = vg.Points(0.5)
	yerr.CapWidth = vg.Points(4)
	p.Add(yerr)

	applyAxes(p, c.Axes)
	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(5)

	return r.encode(p, c.Size)
}
