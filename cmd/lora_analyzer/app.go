package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/pipeline"
	"github.com/user/lora_analyzer_go/internal/report"
)

// App runs one analysis: charts, summaries and the PDF report.
type App struct {
	ctx      context.Context
	cfg      config.AnalyzerConfiguration
	renderer report.Renderer
	runID    string
}

// NewApp creates an App with a fresh run ID.
func NewApp(cfg config.AnalyzerConfiguration) *App {
	return &App{
		ctx:      context.Background(),
		cfg:      cfg,
		renderer: report.NewPlotRenderer(cfg.DPI),
		runID:    uuid.NewString(),
	}
}

// Startup binds the context that cancels the run.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) sendStatus(message string) {
	log.WithField("run", a.runID).Info(message)
}

// GenerateReport renders every configured chart and writes the summaries and
// the PDF report next to them. Chart failures do not stop the run; they are
// returned joined once everything else has been written.
func (a *App) GenerateReport() (*pipeline.RunReport, error) {
	requests := pipeline.BuildRequests(&a.cfg)
	a.sendStatus(fmt.Sprintf("Request: results=[%s], output=[%s], charts=%d", a.cfg.ResultsDir, a.cfg.OutputDir, len(requests)))

	dispatcher := pipeline.NewDispatcher(a.cfg, a.renderer, a.runID)
	run, err := dispatcher.Run(a.ctx, requests)
	if err != nil {
		return run, err
	}
	a.sendStatus(fmt.Sprintf("Charts complete: %d written, %d failed.", len(run.Succeeded()), run.Failed))

	if a.cfg.SummaryCSV {
		paths, err := pipeline.WriteSummaries(a.cfg.OutputDir, run)
		if err != nil {
			return run, err
		}
		a.sendStatus(fmt.Sprintf("Wrote %d summary files.", len(paths)))
	}

	if a.cfg.PDFReport != "" {
		airtime, err := pipeline.AirtimeTable(&a.cfg)
		if err != nil {
			return run, fmt.Errorf("airtime table: %w", err)
		}
		path := a.reportPath()
		a.sendStatus(fmt.Sprintf("Generating PDF: %s...", path))
		in := pipeline.BuildReportInput(&a.cfg, run, airtime, time.Now())
		if err := report.BuildPDFReport(path, in); err != nil {
			return run, err
		}
		a.sendStatus(fmt.Sprintf("PDF report successfully generated: %s", path))
	}

	var errs []error
	for _, res := range run.Results {
		errs = append(errs, res.Err)
	}
	return run, errors.Join(errs...)
}

// reportPath resolves a relative PDFReport against the output directory.
func (a *App) reportPath() string {
	if filepath.IsAbs(a.cfg.PDFReport) {
		return a.cfg.PDFReport
	}
	return filepath.Join(a.cfg.OutputDir, a.cfg.PDFReport)
}
