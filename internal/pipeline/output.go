package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/report"
)

// WriteSummaries writes <outputDir>/<chart>_summary.csv for every successful
// chart that aggregated a metric and returns the written paths.
func WriteSummaries(outputDir string, run *RunReport) ([]string, error) {
	var paths []string
	for _, res := range run.Succeeded() {
		if len(res.Summary) == 0 {
			continue
		}
		path := filepath.Join(outputDir, res.Request.Name()+"_summary.csv")
		if err := report.WriteSummaryCSVFile(path, res.Summary); err != nil {
			return paths, err
		}
		log.WithFields(log.Fields{"run": run.RunID, "path": path}).Debug("Summary written")
		paths = append(paths, path)
	}
	return paths, nil
}

// BuildReportInput gathers a run's charts, summaries and warnings together
// with the analytic airtime table for the PDF report.
func BuildReportInput(cfg *config.AnalyzerConfiguration, run *RunReport, airtime []report.AirtimeRow, generatedAt time.Time) report.ReportInput {
	in := report.ReportInput{
		RunID:           run.RunID,
		GeneratedAt:     generatedAt,
		ResultsDir:      cfg.ResultsDir,
		Battery:         cfg.Battery,
		IntervalSeconds: cfg.ReportingIntervalSeconds,
		Airtime:         airtime,
		Warnings:        run.Warnings(),
	}
	for _, res := range run.Results {
		if res.Err != nil {
			in.Warnings = append(in.Warnings, res.Err.Error())
		}
	}

	for _, res := range run.Succeeded() {
		ch := res.Request.Chart
		title := ch.Axes.Title
		if title == "" {
			title = ch.Name
		}
		in.Charts = append(in.Charts, report.ChartImage{
			Key:      ch.Name,
			Title:    title,
			Caption:  filepath.Base(res.Path),
			PNG:      res.Image,
			WidthIn:  ch.Size.WidthIn,
			HeightIn: ch.Size.HeightIn,
		})
		if len(res.Summary) > 0 {
			in.Summaries = append(in.Summaries, report.MetricSummary{
				Title: fmt.Sprintf("%s (%s)", res.Metric().Title(), ch.Name),
				Rows:  res.Summary,
			})
		}
	}
	return in
}
