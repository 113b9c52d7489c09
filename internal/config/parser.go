package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/parser"
)

// ReadConfigurationFile reads a JSON configuration over Default(). Fields
// absent from the file keep their default; a Charts list replaces the default
// charts entirely.
func ReadConfigurationFile(path string) (AnalyzerConfiguration, error) {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		return AnalyzerConfiguration{}, fmt.Errorf("read configuration: %w", err)
	}

	config := Default()
	defaultCharts := config.Charts
	// Decoding into the default slice would merge file charts into default ones.
	config.Charts = nil
	if err := json.Unmarshal(byteValue, &config); err != nil {
		return AnalyzerConfiguration{}, fmt.Errorf("parse configuration %s: %w", path, err)
	}
	if config.Charts == nil {
		config.Charts = defaultCharts
	}
	if err := config.Validate(); err != nil {
		return AnalyzerConfiguration{}, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	log.WithFields(log.Fields{"path": path, "charts": len(config.Charts)}).Debug("Configuration loaded")
	return config, nil
}

// Validate reports every problem found, joined.
func (c *AnalyzerConfiguration) Validate() error {
	var errs []error
	if c.ResultsDir == "" {
		errs = append(errs, errors.New("ResultsDir is empty"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("OutputDir is empty"))
	}
	if c.FilePattern == "" || c.BaselinePattern == "" {
		errs = append(errs, errors.New("FilePattern and BaselinePattern are required"))
	}
	if c.Trials < 0 {
		errs = append(errs, fmt.Errorf("Trials must not be negative, got %d", c.Trials))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("DPI must be positive, got %d", c.DPI))
	}
	if !(c.BandwidthKHz > 0) {
		errs = append(errs, fmt.Errorf("BandwidthKHz must be positive, got %g", c.BandwidthKHz))
	}
	if c.PreambleSymbols < 0 {
		errs = append(errs, fmt.Errorf("PreambleSymbols must not be negative, got %d", c.PreambleSymbols))
	}
	if !(c.ReportingIntervalSeconds > 0) {
		errs = append(errs, fmt.Errorf("ReportingIntervalSeconds must be positive, got %g", c.ReportingIntervalSeconds))
	}
	if err := c.Battery.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(c.DutyCycle.Fraction > 0 && c.DutyCycle.Fraction <= 1) || !(c.DutyCycle.QuantumSeconds > 0) {
		errs = append(errs, fmt.Errorf("invalid duty cycle %+v", c.DutyCycle))
	}
	if err := validateNodeCounts(c.NodeCounts); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool, len(c.Charts))
	for _, ch := range c.Charts {
		if seen[ch.Name] {
			errs = append(errs, fmt.Errorf("duplicate chart name %q", ch.Name))
		}
		seen[ch.Name] = true
		if err := ch.validate(); err != nil {
			errs = append(errs, fmt.Errorf("chart %q: %w", ch.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (ch *ChartConfiguration) validate() error {
	if ch.Name == "" {
		return errors.New("missing Name")
	}
	switch ch.Kind {
	case KindBatteryLife:
		if _, err := lora.ParseCodingRate(ch.CodingRate); err != nil {
			return err
		}
		if ch.NodeRange == nil || ch.NodeRange.Points <= 0 || ch.NodeRange.From > ch.NodeRange.To || ch.NodeRange.From < 0 {
			return fmt.Errorf("invalid NodeRange %+v", ch.NodeRange)
		}
	case KindGroupedBar, KindHeatmap:
		if !ch.Metric.Valid() {
			return fmt.Errorf("unknown metric %q", ch.Metric)
		}
		if len(ch.Configurations) == 0 {
			return errors.New("no Configurations")
		}
		for _, id := range ch.Configurations {
			if err := validateConfigurationID(id); err != nil {
				return err
			}
		}
		if len(ch.NodeCounts) > 0 {
			if err := validateNodeCounts(ch.NodeCounts); err != nil {
				return err
			}
		}
		if ch.BarWidth < 0 {
			return fmt.Errorf("BarWidth must not be negative, got %g", ch.BarWidth)
		}
	case KindIterations:
		if !ch.Metric.Valid() {
			return fmt.Errorf("unknown metric %q", ch.Metric)
		}
		if len(ch.Series) == 0 {
			return errors.New("no Series")
		}
		for _, s := range ch.Series {
			if err := validateConfigurationID(s.Configuration); err != nil {
				return err
			}
			if s.Nodes <= 0 || s.Trial < 0 {
				return fmt.Errorf("invalid series selection %+v", s)
			}
		}
	default:
		return fmt.Errorf("unknown chart kind %q", ch.Kind)
	}
	if ch.Size.WidthIn < 0 || ch.Size.HeightIn < 0 {
		return fmt.Errorf("invalid Size %+v", ch.Size)
	}
	return nil
}

func validateConfigurationID(id string) error {
	if id == parser.OptimalConfiguration {
		return nil
	}
	if _, ok := lora.Catalog().ByID(id); !ok {
		return fmt.Errorf("unknown configuration %q", id)
	}
	return nil
}

func validateNodeCounts(counts []int) error {
	if len(counts) == 0 {
		return errors.New("NodeCounts is empty")
	}
	for _, n := range counts {
		if n <= 0 {
			return fmt.Errorf("node count must be positive, got %d", n)
		}
	}
	return nil
}

// SelectCharts keeps only the named charts, in the order given. An empty
// selection keeps every chart.
func (c *AnalyzerConfiguration) SelectCharts(names []string) error {
	if len(names) == 0 {
		return nil
	}
	selected := make([]ChartConfiguration, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(c.Charts, func(ch ChartConfiguration) bool { return ch.Name == name })
		if i < 0 {
			return fmt.Errorf("unknown chart %q, available: %v", name, c.ChartNames())
		}
		selected = append(selected, c.Charts[i])
	}
	c.Charts = selected
	return nil
}
