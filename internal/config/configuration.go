package config

import (
	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
)

type ChartKind string

const (
	KindBatteryLife ChartKind = "battery_life"
	KindGroupedBar  ChartKind = "grouped_bar"
	KindIterations  ChartKind = "iterations"
	KindHeatmap     ChartKind = "heatmap"
)

// SeriesSelection picks one raw series for an iterations chart.
type SeriesSelection struct {
	Configuration string `json:"Configuration"`
	Nodes         int    `json:"Nodes"`
	Trial         int    `json:"Trial,omitempty"`
	Label         string `json:"Label,omitempty"`
}

// NodeRange is an evenly spaced node-count axis.
type NodeRange struct {
	From   float64 `json:"From"`
	To     float64 `json:"To"`
	Points int     `json:"Points"`
}

type ChartConfiguration struct {
	Name string    `json:"Name"` // output file stem
	Kind ChartKind `json:"Kind"`

	Metric         parser.Metric     `json:"Metric,omitempty"`
	Configurations []string          `json:"Configurations,omitempty"`
	NodeCounts     []int             `json:"NodeCounts,omitempty"` // overrides AnalyzerConfiguration.NodeCounts
	Series         []SeriesSelection `json:"Series,omitempty"`

	CodingRate string     `json:"CodingRate,omitempty"`
	NodeRange  *NodeRange `json:"NodeRange,omitempty"`

	Axes     chart.Axes `json:"Axes"`
	Size     chart.Size `json:"Size"`
	BarWidth float64    `json:"BarWidth,omitempty"`
}

type AnalyzerConfiguration struct {
	ResultsDir      string `json:"ResultsDir"`
	FilePattern     string `json:"FilePattern"`
	BaselinePattern string `json:"BaselinePattern"`
	Trials          int    `json:"Trials"`

	OutputDir  string `json:"OutputDir"`
	DPI        int    `json:"DPI"`
	SummaryCSV bool   `json:"SummaryCSV"`
	PDFReport  string `json:"PDFReport"` // file name inside OutputDir, empty disables

	BandwidthKHz             float64        `json:"BandwidthKHz"`
	PreambleSymbols          int            `json:"PreambleSymbols"`
	ReportingIntervalSeconds float64        `json:"ReportingIntervalSeconds"`
	Battery                  lora.Battery   `json:"Battery"`
	DutyCycle                lora.DutyCycle `json:"DutyCycle"`

	NodeCounts []int                `json:"NodeCounts"`
	Charts     []ChartConfiguration `json:"Charts"`
}

// ModelParams returns the airtime model settings.
func (c *AnalyzerConfiguration) ModelParams() lora.ModelParams {
	return lora.ModelParams{BandwidthKHz: c.BandwidthKHz, PreambleSymbols: c.PreambleSymbols}
}

// ChartNodeCounts returns the chart's own node counts, falling back to the
// analyzer-wide list.
func (c *AnalyzerConfiguration) ChartNodeCounts(ch ChartConfiguration) []int {
	if len(ch.NodeCounts) > 0 {
		return ch.NodeCounts
	}
	return c.NodeCounts
}

// ChartNames lists the configured charts in order.
func (c *AnalyzerConfiguration) ChartNames() []string {
	names := make([]string, len(c.Charts))
	for i, ch := range c.Charts {
		names[i] = ch.Name
	}
	return names
}
