package lora

import (
	"iter"
	"math"
)

const (
	// PacketSizeBits is the application payload of one report (26 bytes).
	PacketSizeBits = 26 * 8
	// DefaultPreambleSymbols is the LoRaWAN default preamble length.
	DefaultPreambleSymbols = 8
	// DefaultBandwidthKHz is the EU868 channel bandwidth.
	DefaultBandwidthKHz = 125.0
	// TransmitPowerJoulesPerSecond is the radio draw at Pt = 13 dBm.
	TransmitPowerJoulesPerSecond = 0.0924
)

// AirtimeEstimate is the on-air timing of one transmission. Durations are in
// milliseconds because the bandwidth is expressed in kHz.
type AirtimeEstimate struct {
	Preamble        float64
	PayloadSymbols  float64
	Payload         float64
	Airtime         float64
	EnergyPerPacket float64
}

// ModelParams holds the radio parameters that are not part of a configuration.
type ModelParams struct {
	BandwidthKHz    float64
	PreambleSymbols int
}

// DefaultModelParams returns 125 kHz with an 8 symbol preamble.
func DefaultModelParams() ModelParams {
	return ModelParams{
		BandwidthKHz:    DefaultBandwidthKHz,
		PreambleSymbols: DefaultPreambleSymbols,
	}
}

// EstimateAirtime computes the transmission time and energy of a payload of
// packetCount reports sent with cfg.
//
// The payload symbol count follows the LoRa airtime expression with the
// header enabled and low data rate optimisation off, keeping the coding rate
// as the multiplicative (CR + 4) factor and without rounding up:
//
//	8 + max(((8*PL - 4*SF + 44 - 20) / (4*(SF-2))) * (CR + 4), 0)
func EstimateAirtime(cfg TransmissionConfiguration, packetCount, bandwidthKHz float64, preambleSymbols int) (AirtimeEstimate, error) {
	sf := cfg.SpreadingFactor
	switch {
	case bandwidthKHz <= 0 || math.IsNaN(bandwidthKHz):
		return AirtimeEstimate{}, &DomainError{Param: "bandwidth", Value: bandwidthKHz, Reason: "must be positive"}
	case sf <= 2:
		return AirtimeEstimate{}, &DomainError{Param: "spreading factor", Value: float64(sf), Reason: "must be greater than 2"}
	case packetCount < 0 || math.IsNaN(packetCount):
		return AirtimeEstimate{}, &DomainError{Param: "packet count", Value: packetCount, Reason: "must be non-negative"}
	case preambleSymbols < 0:
		return AirtimeEstimate{}, &DomainError{Param: "preamble symbols", Value: float64(preambleSymbols), Reason: "must be non-negative"}
	}

	payload := packetCount * PacketSizeBits / 8 // bytes
	symbolTime := math.Pow(2, float64(sf))
	fsf := float64(sf)

	preamble := (4.25 + float64(preambleSymbols)) * symbolTime / bandwidthKHz
	symbols := 8 + math.Max(((8*payload-4*fsf+44-20)/(4*(fsf-2)))*(cfg.CodingRate.Value()+4), 0)
	payloadTime := symbols * symbolTime / bandwidthKHz
	airtime := preamble + payloadTime

	return AirtimeEstimate{
		Preamble:        preamble,
		PayloadSymbols:  symbols,
		Payload:         payloadTime,
		Airtime:         airtime,
		EnergyPerPacket: TransmitPowerJoulesPerSecond * airtime,
	}, nil
}

// EstimateLifetimeYears projects how long a battery holding totalEnergyBudgetJ
// lasts when one transmission of packetCount reports is sent every
// reportingIntervalSeconds.
func EstimateLifetimeYears(cfg TransmissionConfiguration, totalEnergyBudgetJ, reportingIntervalSeconds, packetCount float64, params ModelParams) (float64, error) {
	if totalEnergyBudgetJ <= 0 || math.IsNaN(totalEnergyBudgetJ) {
		return 0, &DomainError{Param: "energy budget", Value: totalEnergyBudgetJ, Reason: "must be positive"}
	}
	if reportingIntervalSeconds <= 0 || math.IsNaN(reportingIntervalSeconds) {
		return 0, &DomainError{Param: "reporting interval", Value: reportingIntervalSeconds, Reason: "must be positive"}
	}

	est, err := EstimateAirtime(cfg, packetCount, params.BandwidthKHz, params.PreambleSymbols)
	if err != nil {
		return 0, err
	}
	if est.EnergyPerPacket <= 0 {
		return 0, &DomainError{Param: "energy per packet", Value: est.EnergyPerPacket, Reason: "must be positive"}
	}
	return totalEnergyBudgetJ * reportingIntervalSeconds / (est.EnergyPerPacket * 60 * 24 * 365), nil
}

// LifetimePoint is one sample of a battery lifetime curve.
type LifetimePoint struct {
	Nodes float64
	Years float64
}

// LifetimeCurve yields (nodeCount, years) for each node count, using the node
// count as the packet count. Iteration stops at the first error, which is
// reported through errp when it is non-nil.
func LifetimeCurve(cfg TransmissionConfiguration, nodeCounts []float64, budgetJ, intervalSeconds float64, params ModelParams, errp *error) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for _, n := range nodeCounts {
			years, err := EstimateLifetimeYears(cfg, budgetJ, intervalSeconds, n, params)
			if err != nil {
				if errp != nil {
					*errp = err
				}
				return
			}
			if !yield(n, years) {
				return
			}
		}
	}
}

// CollectLifetimeCurve materializes LifetimeCurve.
func CollectLifetimeCurve(cfg TransmissionConfiguration, nodeCounts []float64, budgetJ, intervalSeconds float64, params ModelParams) ([]LifetimePoint, error) {
	var err error
	points := make([]LifetimePoint, 0, len(nodeCounts))
	for n, years := range LifetimeCurve(cfg, nodeCounts, budgetJ, intervalSeconds, params, &err) {
		points = append(points, LifetimePoint{Nodes: n, Years: years})
	}
	if err != nil {
		return nil, err
	}
	return points, nil
}
