package config

import (
	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
)

// DefaultNodeCounts are the network sizes the simulator was run with.
var DefaultNodeCounts = []int{1, 5, 10, 15, 20}

// BarConfigurations is the default bar order: the baseline followed by the
// CR 4/5 family.
func BarConfigurations() []string {
	ids := []string{parser.OptimalConfiguration}
	for _, cfg := range lora.Catalog().Family(lora.CR45) {
		ids = append(ids, cfg.ID)
	}
	return ids
}

// MetricBarChart is the grouped bar preset for one metric: nodes on X from
// -5 to 30, the metric's Y label and, for ratios and BER, fixed Y bounds.
func MetricBarChart(metric parser.Metric, size chart.Size) ChartConfiguration {
	axes := chart.Axes{XLabel: "NODES", XMin: chart.Bound(-5), XMax: chart.Bound(30)}
	switch metric {
	case parser.MetricPDR:
		axes.YLabel = "PDR"
		axes.YMin, axes.YMax = chart.Bound(0), chart.Bound(1)
	case parser.MetricPRR:
		axes.YLabel = "PRR"
		axes.YMin, axes.YMax = chart.Bound(0), chart.Bound(1)
	case parser.MetricBER:
		axes.YLabel = "BER"
		axes.YMin, axes.YMax = chart.Bound(0), chart.Bound(0.0003)
	case parser.MetricEnergy:
		axes.YLabel = "ENERGY (J)"
	}
	return ChartConfiguration{
		Name:           string(metric),
		Kind:           KindGroupedBar,
		Metric:         metric,
		Configurations: BarConfigurations(),
		Axes:           axes,
		Size:           size,
		BarWidth:       chart.DefaultBarWidth,
	}
}

func batteryLifeChart() ChartConfiguration {
	return ChartConfiguration{
		Name:       "battery_life",
		Kind:       KindBatteryLife,
		CodingRate: lora.CR45.String(),
		NodeRange:  &NodeRange{From: 1, To: 20, Points: 40},
		Axes: chart.Axes{
			Title:  "Battery life (T = 600 s, CR = 4/5)",
			XLabel: "Number of external nodes (N)",
			YLabel: "Battery life (Years)",
			XTicks: []float64{1, 5, 10, 15, 20},
		},
		Size: chart.Size{WidthIn: 6, HeightIn: 3},
	}
}

func energyIterationsChart() ChartConfiguration {
	series := []SeriesSelection{{Configuration: parser.OptimalConfiguration, Nodes: 1}}
	for _, sf := range []int{7, 9, 12} {
		for _, n := range []int{1, 10, 20} {
			series = append(series, SeriesSelection{Configuration: lora.ConfigurationID(lora.CR45, sf), Nodes: n})
		}
	}
	return ChartConfiguration{
		Name:   "Energy_iterations",
		Kind:   KindIterations,
		Metric: parser.MetricEnergy,
		Series: series,
		Axes: chart.Axes{
			XLabel: "Iterations",
			YLabel: "ENERGY (J)",
			XMin:   chart.Bound(0),
			XMax:   chart.Bound(5000),
			YMin:   chart.Bound(0),
			YMax:   chart.Bound(32500),
		},
		Size: chart.Size{WidthIn: 7, HeightIn: 5},
	}
}

// Default reproduces the published experiment: results read from "results",
// figures written to "figs" at 400 DPI, a 125 kHz channel with an 8 symbol
// preamble, a 10 minute reporting interval and an LSH 20 battery.
func Default() AnalyzerConfiguration {
	return AnalyzerConfiguration{
		ResultsDir:      "results",
		FilePattern:     parser.DefaultPattern,
		BaselinePattern: parser.DefaultBaselinePattern,

		OutputDir:  "figs",
		DPI:        400,
		SummaryCSV: true,
		PDFReport:  "report.pdf",

		BandwidthKHz:             lora.DefaultBandwidthKHz,
		PreambleSymbols:          lora.DefaultPreambleSymbols,
		ReportingIntervalSeconds: 600,
		Battery:                  lora.DefaultBattery,
		DutyCycle:                lora.DefaultDutyCycle,

		NodeCounts: append([]int(nil), DefaultNodeCounts...),
		Charts: []ChartConfiguration{
			batteryLifeChart(),
			MetricBarChart(parser.MetricPDR, chart.Size{WidthIn: 6, HeightIn: 4}),
			MetricBarChart(parser.MetricPRR, chart.Size{WidthIn: 7, HeightIn: 4}),
			MetricBarChart(parser.MetricBER, chart.Size{WidthIn: 6, HeightIn: 4}),
			MetricBarChart(parser.MetricEnergy, chart.Size{WidthIn: 7, HeightIn: 4}),
			energyIterationsChart(),
		},
	}
}
