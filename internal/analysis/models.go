package analysis

import (
	"fmt"

	"github.com/user/lora_analyzer_go/internal/parser"
)

// GroupKey identifies all trials of one configuration at one network size.
type GroupKey struct {
	Configuration string
	Nodes         int
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s N=%d", k.Configuration, k.Nodes)
}

// AggregatedGroup holds the pooled statistics for one GroupKey.
type AggregatedGroup struct {
	Key         GroupKey
	Mean        float64
	StdDev      float64   // population standard deviation
	SampleCount int
	Values      []float64 // pooled values, trials in ascending order
}

// IterationSeries is one raw series plotted against its event index.
type IterationSeries struct {
	Key parser.SeriesKey
	X   []float64 // 0 .. len-1
	Y   []float64
}

// EmptyGroupError reports a group with no pooled values.
type EmptyGroupError struct {
	Key GroupKey
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("analysis: no samples for %s", e.Key)
}

// MissingSeriesError reports a requested series that was not supplied.
type MissingSeriesError struct {
	Key parser.SeriesKey
}

func (e *MissingSeriesError) Error() string {
	return fmt.Sprintf("analysis: no series for %s", e.Key)
}
