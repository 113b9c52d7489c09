package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/analysis"
	"github.com/user/lora_analyzer_go/internal/chart"
	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
	"github.com/user/lora_analyzer_go/internal/report"
)

// Dispatcher runs chart requests one after another: load, aggregate, build,
// render, write.
type Dispatcher struct {
	Config   config.AnalyzerConfiguration
	Layout   *parser.ResultsLayout
	Renderer report.Renderer
	RunID    string
}

// NewDispatcher wires the results layout and renderer described by cfg.
func NewDispatcher(cfg config.AnalyzerConfiguration, renderer report.Renderer, runID string) *Dispatcher {
	layout := parser.NewResultsLayout(cfg.ResultsDir)
	layout.Pattern = cfg.FilePattern
	layout.BaselinePattern = cfg.BaselinePattern
	if cfg.Trials > 0 {
		layout.Trials = cfg.Trials
	}
	return &Dispatcher{Config: cfg, Layout: layout, Renderer: renderer, RunID: runID}
}

func (d *Dispatcher) logger(req Request) *log.Entry {
	return log.WithFields(log.Fields{"run": d.RunID, "chart": req.Name(), "kind": req.Kind()})
}

// Run dispatches every request. A failing chart is logged and counted and the
// run moves on; cancellation of ctx stops the run between charts.
func (d *Dispatcher) Run(ctx context.Context, requests []Request) (*RunReport, error) {
	if err := os.MkdirAll(d.Config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	run := &RunReport{RunID: d.RunID, Results: make([]Result, 0, len(requests))}
	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			log.WithField("run", d.RunID).Warnf("Stopping after %d of %d charts: %v", i, len(requests), err)
			return run, err
		}

		res := d.Dispatch(ctx, req)
		for _, w := range res.Warnings {
			d.logger(req).Warn(w)
		}
		if res.Err != nil {
			run.Failed++
			d.logger(req).WithError(res.Err).Error("Chart failed")
		} else {
			d.logger(req).WithField("path", res.Path).Info("Chart written")
		}
		run.Results = append(run.Results, res)
	}
	return run, nil
}

// Dispatch produces a single chart and writes it as <OutputDir>/<Name>.png.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	res := Result{Request: req}
	d.logger(req).Debug("Building chart")

	var err error
	switch req.Kind() {
	case config.KindBatteryLife:
		res.Image, err = d.batteryLife(req)
	case config.KindGroupedBar:
		err = d.groupedBar(req, &res)
	case config.KindHeatmap:
		err = d.heatmap(req, &res)
	case config.KindIterations:
		err = d.iterations(req, &res)
	default:
		err = fmt.Errorf("unknown chart kind %q", req.Kind())
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		res.Err = fmt.Errorf("chart %s: %w", req.Name(), err)
		res.Image = nil
		return res
	}

	path := filepath.Join(d.Config.OutputDir, req.Name()+".png")
	if err := os.WriteFile(path, res.Image, 0o644); err != nil {
		res.Err = fmt.Errorf("chart %s: write %s: %w", req.Name(), path, err)
		return res
	}
	res.Path = path
	return res
}

func (d *Dispatcher) batteryLife(req Request) ([]byte, error) {
	ch := req.Chart
	cr, err := lora.ParseCodingRate(ch.CodingRate)
	if err != nil {
		return nil, err
	}
	if ch.NodeRange == nil {
		return nil, errors.New("no node range")
	}

	c, err := chart.BuildLifetimeRequest(lora.Catalog().Family(cr),
		lora.Linspace(ch.NodeRange.From, ch.NodeRange.To, ch.NodeRange.Points),
		chart.LifetimeOptions{
			EnergyBudgetJ:   d.Config.Battery.EnergyBudgetJoules(),
			IntervalSeconds: d.Config.ReportingIntervalSeconds,
			Params:          d.Config.ModelParams(),
			Axes:            ch.Axes,
			Size:            ch.Size,
		})
	if err != nil {
		return nil, err
	}
	return d.Renderer.RenderLines(c)
}

// aggregate loads one metric for the request's configurations and node counts
// and pools the trials of every group.
func (d *Dispatcher) aggregate(req Request, res *Result) (map[analysis.GroupKey]analysis.AggregatedGroup, error) {
	ch := req.Chart
	set, err := d.Layout.LoadResultSet(ch.Metric, ch.Configurations, req.NodeCounts)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, set.Warnings...)

	required := make([]analysis.GroupKey, 0, len(ch.Configurations)*len(req.NodeCounts))
	for _, nodes := range req.NodeCounts {
		for _, id := range ch.Configurations {
			required = append(required, analysis.GroupKey{Configuration: id, Nodes: nodes})
		}
	}
	groups, err := analysis.Aggregate(set.Series, required...)
	if err != nil {
		return nil, err
	}
	res.Groups = groups
	res.Summary = report.BuildSummaryRows(ch.Metric, groups, ch.Metric.HigherIsBetter())
	return groups, nil
}

func (d *Dispatcher) groupedBar(req Request, res *Result) error {
	groups, err := d.aggregate(req, res)
	if err != nil {
		return err
	}
	ch := req.Chart
	c, err := chart.BuildGroupedBarRequest(groups, ch.Configurations, req.NodeCounts,
		chart.ConfigurationLabels(ch.Configurations),
		chart.BarOptions{Axes: ch.Axes, Size: ch.Size, BarWidth: ch.BarWidth})
	if err != nil {
		return err
	}
	res.Image, err = d.Renderer.RenderBars(c)
	return err
}

func (d *Dispatcher) heatmap(req Request, res *Result) error {
	groups, err := d.aggregate(req, res)
	if err != nil {
		return err
	}
	ch := req.Chart
	axes := ch.Axes
	if axes.XLabel == "" {
		axes.XLabel = "NODES"
	}
	if axes.Title == "" {
		axes.Title = ch.Metric.Title()
	}
	c, err := chart.BuildHeatmapRequest(groups, ch.Configurations, req.NodeCounts,
		chart.ConfigurationLabels(ch.Configurations), ch.Metric.HigherIsBetter(), axes, ch.Size)
	if err != nil {
		return err
	}
	res.Image, err = d.Renderer.RenderHeatmap(c)
	return err
}

func (d *Dispatcher) iterations(req Request, res *Result) error {
	ch := req.Chart
	keys := make([]parser.SeriesKey, len(ch.Series))
	custom := false
	for i, sel := range ch.Series {
		keys[i] = d.seriesKey(sel)
		custom = custom || sel.Label != ""
	}
	var labels []string
	if custom {
		labels = make([]string, len(keys))
		for i, sel := range ch.Series {
			labels[i] = sel.Label
			if labels[i] == "" {
				labels[i] = chart.SeriesLabel(keys[i])
			}
		}
	}

	set, err := d.Layout.LoadKeys(ch.Metric, keys)
	if err != nil {
		return err
	}
	res.Warnings = append(res.Warnings, set.Warnings...)

	series, err := analysis.AggregateIterationSeries(set.Series, keys...)
	if err != nil {
		return err
	}
	c, err := chart.BuildIterationRequest(series, labels, ch.Axes, ch.Size)
	if err != nil {
		return err
	}
	res.Image, err = d.Renderer.RenderLines(c)
	return err
}

// seriesKey maps a selection onto the layout's keys: the baseline and
// trial-less layouts use trial 0, otherwise an unset trial means the first.
func (d *Dispatcher) seriesKey(sel config.SeriesSelection) parser.SeriesKey {
	key := parser.SeriesKey{Configuration: sel.Configuration, Nodes: sel.Nodes}
	if sel.Configuration == parser.OptimalConfiguration || !d.Layout.HasTrials() {
		return key
	}
	key.Trial = max(sel.Trial, 1)
	return key
}
