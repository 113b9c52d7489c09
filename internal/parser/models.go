package parser

import "fmt"

// Metric names a per-event outcome recorded by the simulator.
type Metric string

const (
	MetricPDR    Metric = "pdr"    // packet delivery ratio
	MetricPRR    Metric = "prr"    // packet reception ratio
	MetricBER    Metric = "ber"    // bit error rate
	MetricEnergy Metric = "energy" // cumulative energy, J
)

// Metrics lists every metric in presentation order.
var Metrics = []Metric{MetricPDR, MetricPRR, MetricBER, MetricEnergy}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricPDR, MetricPRR, MetricBER, MetricEnergy:
		return true
	}
	return false
}

// HigherIsBetter reports whether larger values of m are preferable.
func (m Metric) HigherIsBetter() bool {
	return m == MetricPDR || m == MetricPRR
}

// Title is the human readable metric name.
func (m Metric) Title() string {
	switch m {
	case MetricPDR:
		return "Packet delivery ratio"
	case MetricPRR:
		return "Packet reception ratio"
	case MetricBER:
		return "Bit error rate"
	case MetricEnergy:
		return "Energy"
	}
	return string(m)
}

// OptimalConfiguration is the synthetic baseline produced by the learned
// policy. It has one result file per metric, shared by every node count.
const OptimalConfiguration = "OPTIMAL"

// ExperimentSeries is a raw per-event sequence for one key.
type ExperimentSeries []float64

// SeriesKey identifies one trial of one configuration at one network size.
type SeriesKey struct {
	Configuration string
	Nodes         int
	Trial         int
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s N=%d trial=%d", k.Configuration, k.Nodes, k.Trial)
}

// ResultSet holds every series loaded for one metric.
type ResultSet struct {
	Metric   Metric
	Series   map[SeriesKey]ExperimentSeries
	Paths    map[SeriesKey]string
	Warnings []string // non-fatal observations collected while loading
}

// NewResultSet helper
func NewResultSet(metric Metric) *ResultSet {
	return &ResultSet{
		Metric:   metric,
		Series:   make(map[SeriesKey]ExperimentSeries),
		Paths:    make(map[SeriesKey]string),
		Warnings: make([]string, 0),
	}
}

// ParseError reports a field that is not a number.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s line %d: invalid value %q: %v", e.Path, e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
