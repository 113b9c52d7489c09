package chart

import (
	"fmt"

	"github.com/user/lora_analyzer_go/internal/analysis"
)

// DefaultBarWidth is the bar width in X data units.
const DefaultBarWidth = 0.5

// Axes describes titles, labels and fixed bounds of a chart. A nil bound
// leaves that side of the axis to the data range.
type Axes struct {
	Title  string    `json:"Title,omitempty"`
	XLabel string    `json:"XLabel,omitempty"`
	YLabel string    `json:"YLabel,omitempty"`
	XMin   *float64  `json:"XMin,omitempty"`
	XMax   *float64  `json:"XMax,omitempty"`
	YMin   *float64  `json:"YMin,omitempty"`
	YMax   *float64  `json:"YMax,omitempty"`
	XTicks []float64 `json:"XTicks,omitempty"`
}

// Bound returns a pointer to v for use as an Axes bound.
func Bound(v float64) *float64 {
	return &v
}

// Size is the figure size in inches. Zero values leave the renderer default.
type Size struct {
	WidthIn  float64 `json:"WidthIn,omitempty"`
	HeightIn float64 `json:"HeightIn,omitempty"`
}

// BarDescriptor is one bar of a grouped bar chart.
type BarDescriptor struct {
	Group    analysis.GroupKey
	X        float64 // centre, in data units
	Height   float64 // group mean
	Err      float64 // symmetric error, population std dev
	ColorKey int     // index into the bar palette
	Label    string  // legend label; set on the first bar of each configuration only
}

// GroupedBarChart is a renderer-agnostic grouped bar chart.
type GroupedBarChart struct {
	Axes     Axes
	Size     Size
	Bars     []BarDescriptor
	BarWidth float64
	Labels   []string // one per configuration, in bar order
}

// LineSeries is one labelled polyline.
type LineSeries struct {
	Label    string
	ColorKey int
	X        []float64
	Y        []float64
}

// LineChart is a renderer-agnostic line chart.
type LineChart struct {
	Axes   Axes
	Size   Size
	Series []LineSeries
}

// BarOptions carries the presentation settings of a grouped bar chart.
type BarOptions struct {
	Axes     Axes
	Size     Size
	BarWidth float64
}

// MissingGroupError reports a (configuration, nodes) pair the chart needs
// but the aggregated data does not hold.
type MissingGroupError struct {
	Key analysis.GroupKey
}

func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("chart: no aggregated data for %s", e.Key)
}
