package report

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/lora_analyzer_go/internal/chart"
)

// RenderLines draws one labelled polyline per series.
func (r *PlotRenderer) RenderLines(c chart.LineChart) ([]byte, error) {
	if len(c.Series) == 0 {
		return nil, errors.New("no series to plot")
	}

	p := plot.New()
	p.Add(plotter.NewGrid())

	linesPlotted := false
	for _, s := range c.Series {
		if len(s.X) != len(s.Y) {
			return nil, fmt.Errorf("series %q has %d x values and %d y values", s.Label, len(s.X), len(s.Y))
		}
		if len(s.X) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(s.X))
		for i := range pts {
			pts[i] = plotter.XY{X: s.X[i], Y: s.Y[i]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", s.Label, err)
		}
		line.Color = lineColor(s.ColorKey)
		line.LineStyle.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(s.Label, line)
		linesPlotted = true
	}
	if !linesPlotted {
		return nil, errors.New("every series is empty")
	}

	applyAxes(p, c.Axes)
	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(5)

	return r.encode(p, c.Size)
}
