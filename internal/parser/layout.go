package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/user/lora_analyzer_go/internal/lora"
)

const (
	DefaultPattern         = "{metric}_{nodes}_{config}.txt"
	DefaultBaselinePattern = "{metric}_opt.txt"
)

// SeriesLoader reads one result file.
type SeriesLoader func(path string) (ExperimentSeries, error)

// ResultsLayout maps series keys onto result files written by the simulator.
//
// Pattern placeholders: {metric}, {nodes}, {config} (1-based catalog
// ordinal, the simulator's action number) and {trial}. When Pattern has no
// {trial} placeholder each (configuration, nodes) pair has a single trial 0.
type ResultsLayout struct {
	Dir             string
	Pattern         string
	BaselinePattern string
	Trials          int // trials per pair, used only with {trial}
	Load            SeriesLoader
}

// NewResultsLayout returns the layout used by the simulator's results directory.
func NewResultsLayout(dir string) *ResultsLayout {
	return &ResultsLayout{
		Dir:             dir,
		Pattern:         DefaultPattern,
		BaselinePattern: DefaultBaselinePattern,
		Trials:          1,
		Load:            LoadSeries,
	}
}

// HasTrials reports whether the file pattern carries a trial index.
func (l *ResultsLayout) HasTrials() bool {
	return strings.Contains(l.Pattern, "{trial}")
}

// TrialIndices lists the trial numbers of each (configuration, nodes) pair.
func (l *ResultsLayout) TrialIndices() []int {
	if !l.HasTrials() {
		return []int{0}
	}
	trials := make([]int, 0, l.Trials)
	for i := 1; i <= l.Trials; i++ {
		trials = append(trials, i)
	}
	return trials
}

// Path resolves the file holding the series for key.
func (l *ResultsLayout) Path(metric Metric, key SeriesKey) (string, error) {
	if key.Configuration == OptimalConfiguration {
		name := strings.NewReplacer("{metric}", string(metric)).Replace(l.BaselinePattern)
		return filepath.Join(l.Dir, name), nil
	}

	ordinal := lora.Catalog().Ordinal(key.Configuration)
	if ordinal < 0 {
		return "", fmt.Errorf("unknown configuration %q", key.Configuration)
	}
	name := strings.NewReplacer(
		"{metric}", string(metric),
		"{nodes}", strconv.Itoa(key.Nodes),
		"{config}", strconv.Itoa(ordinal+1),
		"{trial}", strconv.Itoa(key.Trial),
	).Replace(l.Pattern)
	return filepath.Join(l.Dir, name), nil
}

// Keys expands configurations x node counts x trials in a stable order.
func (l *ResultsLayout) Keys(configurations []string, nodeCounts []int) []SeriesKey {
	keys := make([]SeriesKey, 0, len(configurations)*len(nodeCounts))
	for _, nodes := range nodeCounts {
		for _, id := range configurations {
			if id == OptimalConfiguration {
				keys = append(keys, SeriesKey{Configuration: id, Nodes: nodes})
				continue
			}
			for _, trial := range l.TrialIndices() {
				keys = append(keys, SeriesKey{Configuration: id, Nodes: nodes, Trial: trial})
			}
		}
	}
	return keys
}

// LoadKeys reads the series of every key. A file shared by several keys, like
// the baseline, is read once.
func (l *ResultsLayout) LoadKeys(metric Metric, keys []SeriesKey) (*ResultSet, error) {
	load := l.Load
	if load == nil {
		load = LoadSeries
	}

	set := NewResultSet(metric)
	cache := make(map[string]ExperimentSeries)
	for _, key := range keys {
		path, err := l.Path(metric, key)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", key, err)
		}
		series, ok := cache[path]
		if !ok {
			series, err = load(path)
			if err != nil {
				return nil, err
			}
			cache[path] = series
		}
		set.Series[key] = series
		set.Paths[key] = path
	}

	for _, dup := range DuplicateSeries(set) {
		set.Warnings = append(set.Warnings, fmt.Sprintf("Warning: %s (%s) and %s (%s) hold identical values; check the result file names.",
			dup[0], set.Paths[dup[0]], dup[1], set.Paths[dup[1]]))
	}
	return set, nil
}

// LoadResultSet loads one metric for every configuration at every node count.
func (l *ResultsLayout) LoadResultSet(metric Metric, configurations []string, nodeCounts []int) (*ResultSet, error) {
	return l.LoadKeys(metric, l.Keys(configurations, nodeCounts))
}

// DuplicateSeries finds pairs of keys that come from different files but hold
// identical values, which usually means one file was copied over another.
func DuplicateSeries(set *ResultSet) [][2]SeriesKey {
	keys := make([]SeriesKey, 0, len(set.Series))
	for k := range set.Series {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareKeys)

	var dups [][2]SeriesKey
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			a, b := keys[i], keys[j]
			if set.Paths[a] == set.Paths[b] {
				continue
			}
			if len(set.Series[a]) > 0 && slices.Equal(set.Series[a], set.Series[b]) {
				dups = append(dups, [2]SeriesKey{a, b})
			}
		}
	}
	return dups
}

// CompareKeys orders keys by configuration, node count, then trial.
func CompareKeys(a, b SeriesKey) int {
	if c := strings.Compare(a.Configuration, b.Configuration); c != 0 {
		return c
	}
	if a.Nodes != b.Nodes {
		return a.Nodes - b.Nodes
	}
	return a.Trial - b.Trial
}
