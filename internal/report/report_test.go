package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lora_analyzer_go/internal/analysis"
	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testRenderer() *PlotRenderer {
	return &PlotRenderer{DPI: 30, WidthIn: 4, HeightIn: 3}
}

func testGroups() map[analysis.GroupKey]analysis.AggregatedGroup {
	out := make(map[analysis.GroupKey]analysis.AggregatedGroup)
	for i, cfg := range []string{parser.OptimalConfiguration, "SF7/CR4-5", "SF8/CR4-5"} {
		for _, n := range []int{1, 5} {
			gk := analysis.GroupKey{Configuration: cfg, Nodes: n}
			out[gk] = analysis.AggregatedGroup{Key: gk, Mean: 0.9 - 0.1*float64(i) - 0.01*float64(n), StdDev: 0.02, SampleCount: 4}
		}
	}
	return out
}

func barChart(t *testing.T) chart.GroupedBarChart {
	cfgs := []string{parser.OptimalConfiguration, "SF7/CR4-5", "SF8/CR4-5"}
	c, err := chart.BuildGroupedBarRequest(testGroups(), cfgs, []int{1, 5}, chart.ConfigurationLabels(cfgs), chart.BarOptions{
		Axes: chart.Axes{XLabel: "NODES", YLabel: "PDR", XMin: chart.Bound(-5), XMax: chart.Bound(30), YMin: chart.Bound(0), YMax: chart.Bound(1)},
	})
	require.NoError(t, err)
	return c
}

func TestRenderBars(t *testing.T) {
	img, err := testRenderer().RenderBars(barChart(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	_, err = testRenderer().RenderBars(chart.GroupedBarChart{})
	assert.Error(t, err)
}

func TestRenderLines(t *testing.T) {
	c, err := chart.BuildLifetimeRequest(lora.Catalog().Family(lora.CR45), lora.Linspace(1, 20, 40), chart.LifetimeOptions{
		EnergyBudgetJ:   lora.DefaultBattery.EnergyBudgetJoules(),
		IntervalSeconds: 600,
		Params:          lora.DefaultModelParams(),
		Axes:            chart.Axes{Title: "Battery life", XTicks: []float64{1, 5, 10, 15, 20}},
		Size:            chart.Size{WidthIn: 6, HeightIn: 3},
	})
	require.NoError(t, err)

	img, err := testRenderer().RenderLines(c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestRenderLinesRejectsBadSeries(t *testing.T) {
	_, err := testRenderer().RenderLines(chart.LineChart{})
	assert.Error(t, err)

	_, err = testRenderer().RenderLines(chart.LineChart{Series: []chart.LineSeries{{Label: "a", X: []float64{1, 2}, Y: []float64{1}}}})
	assert.Error(t, err)

	_, err = testRenderer().RenderLines(chart.LineChart{Series: []chart.LineSeries{{Label: "empty"}}})
	assert.Error(t, err)
}

func TestRenderHeatmap(t *testing.T) {
	cfgs := []string{parser.OptimalConfiguration, "SF7/CR4-5", "SF8/CR4-5"}
	c, err := chart.BuildHeatmapRequest(testGroups(), cfgs, []int{1, 5}, chart.ConfigurationLabels(cfgs), true, chart.Axes{Title: "PDR"}, chart.Size{})
	require.NoError(t, err)

	img, err := testRenderer().RenderHeatmap(c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	c.HigherIsBetter = false
	img, err = testRenderer().RenderHeatmap(c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	c.RowLabels = c.RowLabels[:1]
	_, err = testRenderer().RenderHeatmap(c)
	assert.Error(t, err)
}

func TestRenderInvalidDPI(t *testing.T) {
	r := &PlotRenderer{DPI: 0, WidthIn: 4, HeightIn: 3}
	_, err := r.RenderBars(barChart(t))
	assert.Error(t, err)
}

func TestBarColor(t *testing.T) {
	c := barColor(0)
	_, _, _, a := c.RGBA()
	assert.NotZero(t, a)
	assert.Equal(t, barColor(1), barColor(1+len(BarPalette)))
}

func TestSummaryCSV(t *testing.T) {
	rows := BuildSummaryRows(parser.MetricPDR, testGroups(), true)
	require.Len(t, rows, 6)
	assert.Equal(t, parser.OptimalConfiguration, rows[0].Configuration)
	assert.Equal(t, "OPTIMAL", rows[0].Label)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "SF8/CR4-5", rows[5].Configuration)
	assert.Equal(t, "SF=8", rows[5].Label)
	assert.Equal(t, 3, rows[5].Rank)

	buf := new(bytes.Buffer)
	require.NoError(t, WriteSummaryCSV(buf, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "metric,configuration,label,nodes,mean,std_dev,samples,rank", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "pdr,OPTIMAL,OPTIMAL,1,"))

	path := filepath.Join(t.TempDir(), "pdr_summary.csv")
	require.NoError(t, WriteSummaryCSVFile(path, rows))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}

func TestBuildPDFReport(t *testing.T) {
	img, err := testRenderer().RenderBars(barChart(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	err = BuildPDFReport(path, ReportInput{
		RunID:           "test-run",
		GeneratedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		ResultsDir:      "results",
		Battery:         lora.DefaultBattery,
		IntervalSeconds: 600,
		Airtime: []AirtimeRow{
			{Configuration: "SF7/CR4-5", AirtimeMs: 70.87, EnergyJ: 6.55, LifetimeYears: 5.67, WithinDutyCycle: true},
			{Configuration: "SF12/CR4-5", AirtimeMs: 1810, EnergyJ: 167, LifetimeYears: 0.2, WithinDutyCycle: false},
		},
		Summaries: []MetricSummary{
			{Title: "PDR", Rows: BuildSummaryRows(parser.MetricPDR, testGroups(), true)},
			{Title: "Energy"},
		},
		Charts: []ChartImage{
			{Key: "pdr", Title: "Packet delivery ratio", Caption: "PDR by network size", PNG: img, WidthIn: 4, HeightIn: 3},
			{Key: "missing", Title: "Missing chart"},
		},
		Warnings: []string{"ber_5_5.txt and ber_10_5.txt hold identical values"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestBuildPDFReportBadPath(t *testing.T) {
	err := BuildPDFReport(filepath.Join(t.TempDir(), "missing", "report.pdf"), ReportInput{Battery: lora.DefaultBattery})
	assert.Error(t, err)
}
