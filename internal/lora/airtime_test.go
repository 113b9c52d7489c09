package lora

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, idx int) TransmissionConfiguration {
	t.Helper()
	cfg, err := Catalog().Get(idx)
	require.NoError(t, err)
	return cfg
}

func TestEstimateAirtimeReference(t *testing.T) {
	sf7 := mustGet(t, 0)

	est, err := EstimateAirtime(sf7, 1, 125, 8)
	require.NoError(t, err)

	assert.InDelta(t, 12.544, est.Preamble, 1e-12)
	assert.InDelta(t, 56.96, est.PayloadSymbols, 1e-9)
	assert.InDelta(t, 58.32704, est.Payload, 1e-9)
	assert.InDelta(t, 70.87104, est.Airtime, 1e-9)
	assert.InDelta(t, 6.548484096, est.EnergyPerPacket, 1e-9)
}

func TestEstimateAirtimeClampsSymbols(t *testing.T) {
	// An empty SF7 payload drives the bracketed term negative.
	est, err := EstimateAirtime(mustGet(t, 0), 0, 125, 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, est.PayloadSymbols)

	est, err = EstimateAirtime(mustGet(t, 11), 0, 125, 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, est.PayloadSymbols)
}

func TestEstimateAirtimePositiveAndMonotone(t *testing.T) {
	counts := []float64{0, 0.25, 0.5, 1, 2, 5, 10, 15, 20, 40}
	for cfg := range Catalog().All() {
		prev := 0.0
		for _, n := range counts {
			est, err := EstimateAirtime(cfg, n, DefaultBandwidthKHz, DefaultPreambleSymbols)
			require.NoError(t, err)
			assert.Positive(t, est.Airtime, cfg.ID)
			assert.Positive(t, est.EnergyPerPacket, cfg.ID)
			assert.GreaterOrEqual(t, est.Airtime, prev, "%s n=%g", cfg.ID, n)
			assert.InDelta(t, TransmitPowerJoulesPerSecond*est.Airtime, est.EnergyPerPacket, 1e-12)
			prev = est.Airtime
		}
	}
}

func TestEstimateAirtimeHigherSFTakesLonger(t *testing.T) {
	family := Catalog().Family(CR45)
	prev := 0.0
	for _, cfg := range family {
		est, err := EstimateAirtime(cfg, 1, 125, 8)
		require.NoError(t, err)
		assert.Greater(t, est.Airtime, prev, cfg.ID)
		prev = est.Airtime
	}
}

func TestEstimateAirtimeDomainErrors(t *testing.T) {
	sf7 := mustGet(t, 0)
	bad := sf7
	bad.SpreadingFactor = 2

	cases := []struct {
		name      string
		cfg       TransmissionConfiguration
		count     float64
		bandwidth float64
		preamble  int
		param     string
	}{
		{"zero bandwidth", sf7, 1, 0, 8, "bandwidth"},
		{"negative bandwidth", sf7, 1, -125, 8, "bandwidth"},
		{"spreading factor two", bad, 1, 125, 8, "spreading factor"},
		{"negative packets", sf7, -1, 125, 8, "packet count"},
		{"nan packets", sf7, math.NaN(), 125, 8, "packet count"},
		{"negative preamble", sf7, 1, 125, -1, "preamble symbols"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EstimateAirtime(tc.cfg, tc.count, tc.bandwidth, tc.preamble)
			var domainErr *DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tc.param, domainErr.Param)
		})
	}
}

func TestEstimateLifetimeYears(t *testing.T) {
	budget := DefaultBattery.EnergyBudgetJoules()
	assert.InDelta(t, 32508.0, budget, 1e-9)

	years, err := EstimateLifetimeYears(mustGet(t, 0), budget, 600, 1, DefaultModelParams())
	require.NoError(t, err)
	assert.InDelta(t, 5.666897635708312, years, 1e-9)

	_, err = EstimateLifetimeYears(mustGet(t, 0), 0, 600, 1, DefaultModelParams())
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))

	_, err = EstimateLifetimeYears(mustGet(t, 0), budget, 600, 1, ModelParams{BandwidthKHz: 0, PreambleSymbols: 8})
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "bandwidth", domainErr.Param)
}

func TestLifetimeNonIncreasingInPackets(t *testing.T) {
	budget := DefaultBattery.EnergyBudgetJoules()
	nodes := Linspace(1, 20, 40)
	for cfg := range Catalog().All() {
		points, err := CollectLifetimeCurve(cfg, nodes, budget, 600, DefaultModelParams())
		require.NoError(t, err)
		require.Len(t, points, len(nodes))
		for i := 1; i < len(points); i++ {
			assert.LessOrEqual(t, points[i].Years, points[i-1].Years, cfg.ID)
			assert.Positive(t, points[i].Years)
		}
	}
}

func TestLifetimeCurveIsLazyAndRestartable(t *testing.T) {
	cfg := mustGet(t, 2)
	nodes := []float64{1, 5, 10}
	curve := LifetimeCurve(cfg, nodes, 1000, 600, DefaultModelParams(), nil)

	var first, second []float64
	for n := range curve {
		first = append(first, n)
		break
	}
	for n := range curve {
		second = append(second, n)
	}
	assert.Equal(t, []float64{1}, first)
	assert.Equal(t, nodes, second)
}

func TestLifetimeCurveReportsError(t *testing.T) {
	var err error
	var got int
	for range LifetimeCurve(mustGet(t, 0), []float64{1, -1, 5}, 1000, 600, DefaultModelParams(), &err) {
		got++
	}
	assert.Equal(t, 1, got)
	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))

	_, err = CollectLifetimeCurve(mustGet(t, 0), []float64{-2}, 1000, 600, DefaultModelParams())
	assert.Error(t, err)
}

func TestDeterminism(t *testing.T) {
	cfg := mustGet(t, 9)
	a, err := EstimateAirtime(cfg, 7.5, 125, 8)
	require.NoError(t, err)
	b, err := EstimateAirtime(cfg, 7.5, 125, 8)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(a.Airtime), math.Float64bits(b.Airtime))
	assert.Equal(t, math.Float64bits(a.EnergyPerPacket), math.Float64bits(b.EnergyPerPacket))
}

func TestDutyCycle(t *testing.T) {
	d := DefaultDutyCycle
	assert.InDelta(t, 3600*0.01/0.051, d.QuotaPerHour(), 1e-9)
	assert.InDelta(t, 600*0.01/0.051, d.QuotaPerInterval(600), 1e-9)
	assert.InDelta(t, 6000, d.AllowedAirtimeMs(600), 1e-9)

	est, err := EstimateAirtime(mustGet(t, 0), 1, 125, 8)
	require.NoError(t, err)
	assert.True(t, d.Permits(est, 600))
	assert.False(t, d.Permits(est, 1))
}

func TestLinspace(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))

	n := Linspace(1, 20, 40)
	require.Len(t, n, 40)
	assert.Equal(t, 1.0, n[0])
	assert.InDelta(t, 20.0, n[39], 1e-12)
}

func TestBatteryValidate(t *testing.T) {
	assert.NoError(t, DefaultBattery.Validate())
	assert.Error(t, Battery{CapacityAh: 0, Voltage: 3.6, CutOffVoltage: 2.2}.Validate())
	assert.Error(t, Battery{CapacityAh: 1, Voltage: 2.0, CutOffVoltage: 2.2}.Validate())
}
