package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/parser"
)

var fakePNG = []byte("png")

type fakeRenderer struct {
	bars     []chart.GroupedBarChart
	lines    []chart.LineChart
	heatmaps []chart.HeatmapChart
}

func (f *fakeRenderer) RenderBars(c chart.GroupedBarChart) ([]byte, error) {
	f.bars = append(f.bars, c)
	return fakePNG, nil
}

func (f *fakeRenderer) RenderLines(c chart.LineChart) ([]byte, error) {
	f.lines = append(f.lines, c)
	return fakePNG, nil
}

func (f *fakeRenderer) RenderHeatmap(c chart.HeatmapChart) ([]byte, error) {
	f.heatmaps = append(f.heatmaps, c)
	return fakePNG, nil
}

func writeResult(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func testConfiguration(t *testing.T, charts ...config.ChartConfiguration) config.AnalyzerConfiguration {
	t.Helper()
	cfg := config.Default()
	cfg.ResultsDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "figs")
	cfg.NodeCounts = []int{1, 5}
	cfg.Charts = charts
	return cfg
}

func pdrChart(kind config.ChartKind) config.ChartConfiguration {
	ch := config.MetricBarChart(parser.MetricPDR, chart.Size{WidthIn: 6, HeightIn: 4})
	ch.Kind = kind
	ch.Configurations = []string{parser.OptimalConfiguration, "SF7/CR4-5"}
	return ch
}

func TestBuildRequests(t *testing.T) {
	cfg := config.Default()
	cfg.Charts[2].NodeCounts = []int{10}
	reqs := BuildRequests(&cfg)

	require.Len(t, reqs, 6)
	assert.Equal(t, "battery_life", reqs[0].Name())
	assert.Equal(t, config.KindBatteryLife, reqs[0].Kind())
	assert.Equal(t, cfg.NodeCounts, reqs[1].NodeCounts)
	assert.Equal(t, []int{10}, reqs[2].NodeCounts)
}

func TestRunGroupedBar(t *testing.T) {
	cfg := testConfiguration(t, pdrChart(config.KindGroupedBar))
	writeResult(t, cfg.ResultsDir, "pdr_opt.txt", "1,1\n")
	writeResult(t, cfg.ResultsDir, "pdr_1_1.txt", "0.5,0.7\n")
	writeResult(t, cfg.ResultsDir, "pdr_5_1.txt", "0.4\n")

	fake := &fakeRenderer{}
	d := NewDispatcher(cfg, fake, "run-1")
	run, err := d.Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)

	assert.Equal(t, 0, run.Failed)
	require.Len(t, run.Succeeded(), 1)
	res := run.Results[0]
	assert.Equal(t, filepath.Join(cfg.OutputDir, "pdr.png"), res.Path)
	written, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, fakePNG, written)

	require.Len(t, fake.bars, 1)
	assert.Len(t, fake.bars[0].Bars, 4)
	assert.Equal(t, "PDR", fake.bars[0].Axes.YLabel)

	require.Len(t, res.Summary, 4)
	assert.Equal(t, "OPTIMAL", res.Summary[0].Configuration)
	sf7 := res.Summary[2]
	assert.Equal(t, "SF7/CR4-5", sf7.Configuration)
	assert.Equal(t, 1, sf7.Nodes)
	assert.InDelta(t, 0.6, sf7.Mean, 1e-12)
	assert.Equal(t, 2, sf7.Samples)
	assert.Equal(t, 2, sf7.Rank)
	assert.Empty(t, run.Warnings())
}

func TestRunHeatmapDefaults(t *testing.T) {
	ch := pdrChart(config.KindHeatmap)
	ch.Name = "pdr_heatmap"
	ch.Axes = chart.Axes{}
	cfg := testConfiguration(t, ch)
	writeResult(t, cfg.ResultsDir, "pdr_opt.txt", "1\n")
	writeResult(t, cfg.ResultsDir, "pdr_1_1.txt", "0.5\n")
	writeResult(t, cfg.ResultsDir, "pdr_5_1.txt", "0.4\n")

	fake := &fakeRenderer{}
	run, err := NewDispatcher(cfg, fake, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Failed)

	require.Len(t, fake.heatmaps, 1)
	hm := fake.heatmaps[0]
	assert.Equal(t, "NODES", hm.Axes.XLabel)
	assert.Equal(t, "Packet delivery ratio", hm.Axes.Title)
	assert.True(t, hm.HigherIsBetter)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "pdr_heatmap.png"))
}

func TestRunContinuesAfterFailure(t *testing.T) {
	prr := pdrChart(config.KindGroupedBar)
	prr.Name, prr.Metric = "prr", parser.MetricPRR
	cfg := testConfiguration(t, prr, pdrChart(config.KindGroupedBar))
	writeResult(t, cfg.ResultsDir, "pdr_opt.txt", "1\n")
	writeResult(t, cfg.ResultsDir, "pdr_1_1.txt", "0.5\n")
	writeResult(t, cfg.ResultsDir, "pdr_5_1.txt", "0.4\n")

	run, err := NewDispatcher(cfg, &fakeRenderer{}, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)

	assert.Equal(t, 1, run.Failed)
	require.Len(t, run.Results, 2)
	assert.ErrorIs(t, run.Results[0].Err, os.ErrNotExist)
	assert.Empty(t, run.Results[0].Path)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "prr.png"))
	assert.NoError(t, run.Results[1].Err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "pdr.png"))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	cfg := testConfiguration(t, pdrChart(config.KindGroupedBar))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := NewDispatcher(cfg, &fakeRenderer{}, "run-1").Run(ctx, BuildRequests(&cfg))
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, run)
	assert.Empty(t, run.Results)
}

func TestRunBatteryLife(t *testing.T) {
	cfg := testConfiguration(t, config.Default().Charts[0])
	fake := &fakeRenderer{}
	run, err := NewDispatcher(cfg, fake, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Failed)

	require.Len(t, fake.lines, 1)
	lines := fake.lines[0]
	require.Len(t, lines.Series, 6)
	assert.Equal(t, "SF=7", lines.Series[0].Label)
	assert.Len(t, lines.Series[0].X, 40)
	assert.Equal(t, "Battery life (Years)", lines.Axes.YLabel)
	assert.Empty(t, run.Results[0].Summary)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "battery_life.png"))
}

func TestRunBatteryLifeBadCodingRate(t *testing.T) {
	ch := config.Default().Charts[0]
	ch.CodingRate = "4/6"
	cfg := testConfiguration(t, ch)
	run, err := NewDispatcher(cfg, &fakeRenderer{}, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)
	assert.Equal(t, 1, run.Failed)
}

func TestRunIterationsWithTrials(t *testing.T) {
	ch := config.ChartConfiguration{
		Name:   "energy_iterations",
		Kind:   config.KindIterations,
		Metric: parser.MetricEnergy,
		Series: []config.SeriesSelection{
			{Configuration: "SF7/CR4-5", Nodes: 10},
			{Configuration: "SF7/CR4-5", Nodes: 10, Trial: 2, Label: "second"},
			{Configuration: parser.OptimalConfiguration, Nodes: 1},
		},
	}
	cfg := testConfiguration(t, ch)
	cfg.FilePattern = "{metric}_{nodes}_{config}_{trial}.txt"
	cfg.Trials = 2
	writeResult(t, cfg.ResultsDir, "energy_10_1_1.txt", "1,2,3\n")
	writeResult(t, cfg.ResultsDir, "energy_10_1_2.txt", "2,3\n")
	writeResult(t, cfg.ResultsDir, "energy_opt.txt", "5\n")

	fake := &fakeRenderer{}
	run, err := NewDispatcher(cfg, fake, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)
	require.Equal(t, 0, run.Failed, "%v", run.Results[0].Err)

	require.Len(t, fake.lines, 1)
	series := fake.lines[0].Series
	require.Len(t, series, 3)
	assert.Equal(t, "SF=7 N=10", series[0].Label)
	assert.Equal(t, []float64{1, 2, 3}, series[0].Y)
	assert.Equal(t, []float64{0, 1, 2}, series[0].X)
	assert.Equal(t, "second", series[1].Label)
	assert.Equal(t, []float64{2, 3}, series[1].Y)
	assert.Equal(t, "OPTIMAL", series[2].Label)
	assert.Equal(t, []float64{5}, series[2].Y)
}

func TestSeriesKey(t *testing.T) {
	cfg := testConfiguration(t)
	d := NewDispatcher(cfg, &fakeRenderer{}, "run-1")
	sel := config.SeriesSelection{Configuration: "SF9/CR4-5", Nodes: 5, Trial: 3}
	assert.Equal(t, parser.SeriesKey{Configuration: "SF9/CR4-5", Nodes: 5}, d.seriesKey(sel))

	d.Layout.Pattern = "{metric}_{nodes}_{config}_{trial}.txt"
	assert.Equal(t, parser.SeriesKey{Configuration: "SF9/CR4-5", Nodes: 5, Trial: 3}, d.seriesKey(sel))
	sel.Trial = 0
	assert.Equal(t, 1, d.seriesKey(sel).Trial)
	assert.Equal(t, 0, d.seriesKey(config.SeriesSelection{Configuration: parser.OptimalConfiguration, Nodes: 5, Trial: 2}).Trial)
}

func TestRunWarnsOnDuplicateSeries(t *testing.T) {
	cfg := testConfiguration(t, pdrChart(config.KindGroupedBar))
	writeResult(t, cfg.ResultsDir, "pdr_opt.txt", "1\n")
	writeResult(t, cfg.ResultsDir, "pdr_1_1.txt", "0.5,0.6\n")
	writeResult(t, cfg.ResultsDir, "pdr_5_1.txt", "0.5,0.6\n")

	run, err := NewDispatcher(cfg, &fakeRenderer{}, "run-1").Run(context.Background(), BuildRequests(&cfg))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Failed)

	warnings := run.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "identical")
	assert.Contains(t, warnings[0], "pdr_5_1.txt")
}
