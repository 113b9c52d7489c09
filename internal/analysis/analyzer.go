package analysis

import (
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/user/lora_analyzer_go/internal/parser"
)

// Aggregate pools every trial of each (configuration, nodes) pair into one
// population and computes its mean and population standard deviation.
//
// Every element of every trial counts as one sample; per-trial means are not
// averaged. Groups listed in required must be present in seriesByKey.
func Aggregate(seriesByKey map[parser.SeriesKey]parser.ExperimentSeries, required ...GroupKey) (map[GroupKey]AggregatedGroup, error) {
	// Sort so pooled values, and therefore sums, do not depend on map order.
	keys := make([]parser.SeriesKey, 0, len(seriesByKey))
	for k := range seriesByKey {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, parser.CompareKeys)

	pooled := make(map[GroupKey][]float64)
	for _, k := range keys {
		gk := GroupKey{Configuration: k.Configuration, Nodes: k.Nodes}
		pooled[gk] = append(pooled[gk], seriesByKey[k]...)
	}

	for _, gk := range required {
		if _, ok := pooled[gk]; !ok {
			return nil, &EmptyGroupError{Key: gk}
		}
	}

	groups := make(map[GroupKey]AggregatedGroup, len(pooled))
	for _, gk := range GroupKeysOf(pooled) {
		values := pooled[gk]
		if len(values) == 0 {
			return nil, &EmptyGroupError{Key: gk}
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		groups[gk] = AggregatedGroup{
			Key:         gk,
			Mean:        mean,
			StdDev:      std,
			SampleCount: len(values),
			Values:      values,
		}
	}
	return groups, nil
}

// AggregateIterationSeries returns the requested series unchanged, each
// paired with its index range [0, len).
func AggregateIterationSeries(seriesByKey map[parser.SeriesKey]parser.ExperimentSeries, keys ...parser.SeriesKey) ([]IterationSeries, error) {
	out := make([]IterationSeries, 0, len(keys))
	for _, k := range keys {
		series, ok := seriesByKey[k]
		if !ok {
			return nil, &MissingSeriesError{Key: k}
		}
		x := make([]float64, len(series))
		for i := range x {
			x[i] = float64(i)
		}
		out = append(out, IterationSeries{
			Key: k,
			X:   x,
			Y:   slices.Clone([]float64(series)),
		})
	}
	return out, nil
}

// GroupKeysOf lists the keys of a group map ordered by configuration then nodes.
func GroupKeysOf[V any](m map[GroupKey]V) []GroupKey {
	keys := make([]GroupKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b GroupKey) int {
		if c := strings.Compare(a.Configuration, b.Configuration); c != 0 {
			return c
		}
		return a.Nodes - b.Nodes
	})
	return keys
}
