package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/lora_analyzer_go/internal/config"
)

func testApp(t *testing.T, charts ...string) (*App, config.AnalyzerConfiguration) {
	t.Helper()
	cfg := config.Default()
	cfg.ResultsDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "figs")
	cfg.DPI = 30
	require.NoError(t, cfg.SelectCharts(charts))
	return NewApp(cfg), cfg
}

func TestGenerateReport(t *testing.T) {
	app, cfg := testApp(t, "battery_life", "pdr")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ResultsDir, "pdr_opt.txt"), []byte("1,1\n"), 0o644))
	for k := 1; k <= 6; k++ {
		for _, n := range cfg.NodeCounts {
			name := filepath.Join(cfg.ResultsDir, fmt.Sprintf("pdr_%d_%d.txt", n, k))
			content := fmt.Sprintf("0.%02d%02d\n", k, n)
			require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
		}
	}

	run, err := app.GenerateReport()
	require.NoError(t, err)
	assert.Equal(t, 0, run.Failed)
	assert.NotEmpty(t, app.runID)

	for _, name := range []string{"battery_life.png", "pdr.png"} {
		png, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), name)
	}
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "pdr_summary.csv"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "battery_life_summary.csv"))

	pdf, err := os.ReadFile(filepath.Join(cfg.OutputDir, "report.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestGenerateReportChartFailure(t *testing.T) {
	app, cfg := testApp(t, "battery_life", "ber")
	app.cfg.PDFReport = ""

	run, err := app.GenerateReport()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Failed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "battery_life.png"))
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "report.pdf"))
}

func TestGenerateReportCancelled(t *testing.T) {
	app, _ := testApp(t, "battery_life")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app.Startup(ctx)

	_, err := app.GenerateReport()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportPath(t *testing.T) {
	app, cfg := testApp(t)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "report.pdf"), app.reportPath())
	app.cfg.PDFReport = "/tmp/out.pdf"
	assert.Equal(t, "/tmp/out.pdf", app.reportPath())
}
