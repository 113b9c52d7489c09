package pipeline

import (
	"fmt"

	"github.com/user/lora_analyzer_go/internal/config"
	"github.com/user/lora_analyzer_go/internal/lora"
	"github.com/user/lora_analyzer_go/internal/report"
)

// AirtimeTable evaluates the analytic model for one node's packet under every
// catalog configuration and checks it against the duty-cycle budget of one
// reporting interval.
func AirtimeTable(cfg *config.AnalyzerConfiguration) ([]report.AirtimeRow, error) {
	params := cfg.ModelParams()
	budget := cfg.Battery.EnergyBudgetJoules()

	rows := make([]report.AirtimeRow, 0, lora.Catalog().Len())
	for tc := range lora.Catalog().All() {
		est, err := lora.EstimateAirtime(tc, 1, params.BandwidthKHz, params.PreambleSymbols)
		if err != nil {
			return nil, fmt.Errorf("airtime for %s: %w", tc.ID, err)
		}
		years, err := lora.EstimateLifetimeYears(tc, budget, cfg.ReportingIntervalSeconds, 1, params)
		if err != nil {
			return nil, fmt.Errorf("lifetime for %s: %w", tc.ID, err)
		}
		rows = append(rows, report.AirtimeRow{
			Configuration:   tc.ID,
			AirtimeMs:       est.Airtime,
			EnergyJ:         est.EnergyPerPacket,
			LifetimeYears:   years,
			WithinDutyCycle: cfg.DutyCycle.Permits(est, cfg.ReportingIntervalSeconds),
		})
	}
	return rows, nil
}
