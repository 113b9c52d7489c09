package chart

import (
	"errors"
	"fmt"

	"github.com/user/lora_analyzer_go/internal/analysis"
)

// HeatmapChart is a configuration by network-size grid of group means.
type HeatmapChart struct {
	Axes           Axes
	Size           Size
	RowLabels      []string    // configurations, bottom to top
	Columns        []int       // node counts, left to right
	Values         [][]float64 // Values[row][col]
	HigherIsBetter bool
}

// BuildHeatmapRequest arranges the group means of every configuration at
// every node count into a grid.
func BuildHeatmapRequest(aggregated map[analysis.GroupKey]analysis.AggregatedGroup,
	configurationOrder []string, nodeCounts []int, labels []string, higherIsBetter bool, axes Axes, size Size) (HeatmapChart, error) {

	if len(configurationOrder) == 0 || len(nodeCounts) == 0 {
		return HeatmapChart{}, errors.New("chart: empty heatmap grid")
	}
	if len(labels) != len(configurationOrder) {
		return HeatmapChart{}, fmt.Errorf("chart: %d labels for %d configurations", len(labels), len(configurationOrder))
	}

	values := make([][]float64, len(configurationOrder))
	for r, cfg := range configurationOrder {
		values[r] = make([]float64, len(nodeCounts))
		for c, nodes := range nodeCounts {
			gk := analysis.GroupKey{Configuration: cfg, Nodes: nodes}
			group, ok := aggregated[gk]
			if !ok {
				return HeatmapChart{}, &MissingGroupError{Key: gk}
			}
			values[r][c] = group.Mean
		}
	}

	return HeatmapChart{
		Axes:           axes,
		Size:           size,
		RowLabels:      append([]string(nil), labels...),
		Columns:        append([]int(nil), nodeCounts...),
		Values:         values,
		HigherIsBetter: higherIsBetter,
	}, nil
}
