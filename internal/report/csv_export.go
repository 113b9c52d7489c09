package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/user/lora_analyzer_go/internal/analysis"
	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/parser"
)

// SummaryRow is one aggregated group in the summary export.
type SummaryRow struct {
	Metric        string  `csv:"metric"`
	Configuration string  `csv:"configuration"`
	Label         string  `csv:"label"`
	Nodes         int     `csv:"nodes"`
	Mean          float64 `csv:"mean"`
	StdDev        float64 `csv:"std_dev"`
	Samples       int     `csv:"samples"`
	Rank          int     `csv:"rank"`
}

// BuildSummaryRows flattens aggregated groups into rows ordered by
// configuration then nodes, ranking configurations within each node count.
func BuildSummaryRows(metric parser.Metric, groups map[analysis.GroupKey]analysis.AggregatedGroup, higherIsBetter bool) []SummaryRow {
	ranks := make(map[analysis.GroupKey]int, len(groups))
	for _, ranked := range analysis.RankByNodes(groups, higherIsBetter) {
		for _, r := range ranked {
			ranks[analysis.GroupKey{Configuration: r.Configuration, Nodes: r.Nodes}] = r.Rank
		}
	}

	rows := make([]SummaryRow, 0, len(groups))
	for _, gk := range analysis.GroupKeysOf(groups) {
		g := groups[gk]
		rows = append(rows, SummaryRow{
			Metric:        string(metric),
			Configuration: gk.Configuration,
			Label:         chart.ConfigurationLabel(gk.Configuration),
			Nodes:         gk.Nodes,
			Mean:          g.Mean,
			StdDev:        g.StdDev,
			Samples:       g.SampleCount,
			Rank:          ranks[gk],
		})
	}
	return rows
}

// WriteSummaryCSV writes rows with a header line.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write summary csv: %w", err)
	}
	return nil
}

// WriteSummaryCSVFile creates path and writes rows to it.
func WriteSummaryCSVFile(path string, rows []SummaryRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteSummaryCSV(f, rows)
}
