package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/user/lora_analyzer_go/internal/chart"
)

const (
	DefaultDPI      = 400
	DefaultWidthIn  = 7.0
	DefaultHeightIn = 4.0
)

// Renderer turns chart descriptions into encoded images.
type Renderer interface {
	RenderBars(c chart.GroupedBarChart) ([]byte, error)
	RenderLines(c chart.LineChart) ([]byte, error)
	RenderHeatmap(c chart.HeatmapChart) ([]byte, error)
}

// PlotRenderer renders charts to PNG with gonum/plot.
type PlotRenderer struct {
	DPI      int
	WidthIn  float64 // used when a chart does not set its own size
	HeightIn float64
}

// NewPlotRenderer returns a renderer with the default figure size.
func NewPlotRenderer(dpi int) *PlotRenderer {
	return &PlotRenderer{DPI: dpi, WidthIn: DefaultWidthIn, HeightIn: DefaultHeightIn}
}

func (r *PlotRenderer) dimensions(size chart.Size) (vg.Length, vg.Length) {
	w, h := r.WidthIn, r.HeightIn
	if size.WidthIn > 0 {
		w = size.WidthIn
	}
	if size.HeightIn > 0 {
		h = size.HeightIn
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// encode draws p onto a raster canvas and returns the PNG bytes.
func (r *PlotRenderer) encode(p *plot.Plot, size chart.Size) ([]byte, error) {
	if r.DPI <= 0 {
		return nil, fmt.Errorf("invalid DPI %d", r.DPI)
	}
	w, h := r.dimensions(size)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid figure size %gx%g in", float64(w/vg.Inch), float64(h/vg.Inch))
	}

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.DPI))
	p.Draw(draw.New(c))

	buf := new(bytes.Buffer)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// applyAxes sets titles, fixed bounds and ticks. It must run after every
// plotter has been added, since adding a plotter widens the axis ranges.
func applyAxes(p *plot.Plot, a chart.Axes) {
	p.Title.Text = a.Title
	p.X.Label.Text = a.XLabel
	p.Y.Label.Text = a.YLabel
	if a.XMin != nil {
		p.X.Min = *a.XMin
	}
	if a.XMax != nil {
		p.X.Max = *a.XMax
	}
	if a.YMin != nil {
		p.Y.Min = *a.YMin
	}
	if a.YMax != nil {
		p.Y.Max = *a.YMax
	}
	if len(a.XTicks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(constantTicks(a.XTicks))
	}
}

// constantTicks labels each value with its shortest decimal form.
func constantTicks(values []float64) []plot.Tick {
	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: fmt.Sprintf("%g", v)}
	}
	return ticks
}
