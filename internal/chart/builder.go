package chart

import (
	"errors"
	"fmt"

	"github.com/user/lora_analyzer_go/internal/analysis"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
)

// HorizontalOffsets returns the centre offset of each of n bars packed side by
// side around a group position: (i - (n-1)/2) * barWidth.
func HorizontalOffsets(n int, barWidth float64) []float64 {
	offsets := make([]float64, n)
	mid := float64(n-1) / 2
	for i := range offsets {
		offsets[i] = (float64(i) - mid) * barWidth
	}
	return offsets
}

// BuildGroupedBarRequest lays out one bar per configuration at each node
// count. Bar i of the group for N nodes sits at N + offset(i) with the pooled
// mean as height and the population std dev as error. Only the bars of the
// first node count carry a legend label.
func BuildGroupedBarRequest(aggregated map[analysis.GroupKey]analysis.AggregatedGroup,
	configurationOrder []string, nodeCounts []int, labels []string, opts BarOptions) (GroupedBarChart, error) {

	if len(configurationOrder) == 0 {
		return GroupedBarChart{}, errors.New("chart: no configurations to plot")
	}
	if len(labels) != len(configurationOrder) {
		return GroupedBarChart{}, fmt.Errorf("chart: %d labels for %d configurations", len(labels), len(configurationOrder))
	}
	width := opts.BarWidth
	if width == 0 {
		width = DefaultBarWidth
	}
	if width < 0 {
		return GroupedBarChart{}, fmt.Errorf("chart: invalid bar width %g", width)
	}

	offsets := HorizontalOffsets(len(configurationOrder), width)
	bars := make([]BarDescriptor, 0, len(configurationOrder)*len(nodeCounts))
	for n, nodes := range nodeCounts {
		for i, cfg := range configurationOrder {
			gk := analysis.GroupKey{Configuration: cfg, Nodes: nodes}
			group, ok := aggregated[gk]
			if !ok {
				return GroupedBarChart{}, &MissingGroupError{Key: gk}
			}
			bar := BarDescriptor{
				Group:    gk,
				X:        float64(nodes) + offsets[i],
				Height:   group.Mean,
				Err:      group.StdDev,
				ColorKey: i,
			}
			if n == 0 {
				bar.Label = labels[i]
			}
			bars = append(bars, bar)
		}
	}

	return GroupedBarChart{
		Axes:     opts.Axes,
		Size:     opts.Size,
		Bars:     bars,
		BarWidth: width,
		Labels:   append([]string(nil), labels...),
	}, nil
}

// LifetimeOptions parameterizes the analytic battery-life curves.
type LifetimeOptions struct {
	EnergyBudgetJ   float64
	IntervalSeconds float64
	Params          lora.ModelParams
	Axes            Axes
	Size            Size
}

// BuildLifetimeRequest evaluates the lifetime model of every configuration at
// every node count and returns one line per configuration.
func BuildLifetimeRequest(configs []lora.TransmissionConfiguration, nodeCounts []float64, opts LifetimeOptions) (LineChart, error) {
	if len(configs) == 0 {
		return LineChart{}, errors.New("chart: no configurations to plot")
	}
	if len(nodeCounts) == 0 {
		return LineChart{}, errors.New("chart: no node counts to evaluate")
	}

	series := make([]LineSeries, 0, len(configs))
	for i, cfg := range configs {
		points, err := lora.CollectLifetimeCurve(cfg, nodeCounts, opts.EnergyBudgetJ, opts.IntervalSeconds, opts.Params)
		if err != nil {
			return LineChart{}, fmt.Errorf("lifetime curve for %s: %w", cfg.ID, err)
		}
		s := LineSeries{
			Label:    cfg.Label(),
			ColorKey: i,
			X:        make([]float64, len(points)),
			Y:        make([]float64, len(points)),
		}
		for j, pt := range points {
			s.X[j] = pt.Nodes
			s.Y[j] = pt.Years
		}
		series = append(series, s)
	}
	return LineChart{Axes: opts.Axes, Size: opts.Size, Series: series}, nil
}

// BuildIterationRequest turns raw per-event series into one line each. When
// labels is nil, SeriesLabel names each line.
func BuildIterationRequest(series []analysis.IterationSeries, labels []string, axes Axes, size Size) (LineChart, error) {
	if labels != nil && len(labels) != len(series) {
		return LineChart{}, fmt.Errorf("chart: %d labels for %d series", len(labels), len(series))
	}

	lines := make([]LineSeries, len(series))
	for i, s := range series {
		label := SeriesLabel(s.Key)
		if labels != nil {
			label = labels[i]
		}
		lines[i] = LineSeries{Label: label, ColorKey: i, X: s.X, Y: s.Y}
	}
	return LineChart{Axes: axes, Size: size, Series: lines}, nil
}

// ConfigurationLabel is the legend label of a configuration ID: "OPTIMAL" for
// the baseline, "SF=7" for a catalog entry, the ID itself otherwise.
func ConfigurationLabel(id string) string {
	if id == parser.OptimalConfiguration {
		return id
	}
	if cfg, ok := lora.Catalog().ByID(id); ok {
		return cfg.Label()
	}
	return id
}

// ConfigurationLabels maps ConfigurationLabel over ids.
func ConfigurationLabels(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = ConfigurationLabel(id)
	}
	return out
}

// SeriesLabel names a single series, e.g. "SF=7 N=10". The baseline is
// shared across node counts and is labelled "OPTIMAL".
func SeriesLabel(key parser.SeriesKey) string {
	if key.Configuration == parser.OptimalConfiguration {
		return key.Configuration
	}
	return fmt.Sprintf("%s N=%d", ConfigurationLabel(key.Configuration), key.Nodes)
}
