package lora

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Battery describes the cell powering an end device.
type Battery struct {
	CapacityAh    float64 `json:"CapacityAh"`
	Voltage       float64 `json:"Voltage"`
	CutOffVoltage float64 `json:"CutOffVoltage"`
}

// DefaultBattery is a Saft LSH 20 sized for a 5 year outdoor air quality
// sensor reporting every 10 minutes.
var DefaultBattery = Battery{
	CapacityAh:    6.45,
	Voltage:       3.6,
	CutOffVoltage: 2.2,
}

// EnergyBudgetJoules is the usable energy between nominal and cut-off voltage.
func (b Battery) EnergyBudgetJoules() float64 {
	return b.CapacityAh * (b.Voltage - b.CutOffVoltage) * 3600
}

// Validate rejects batteries without usable energy.
func (b Battery) Validate() error {
	if b.CapacityAh <= 0 {
		return fmt.Errorf("battery capacity must be positive, got %g Ah", b.CapacityAh)
	}
	if b.Voltage <= b.CutOffVoltage {
		return fmt.Errorf("battery voltage %g V must exceed cut-off voltage %g V", b.Voltage, b.CutOffVoltage)
	}
	return nil
}

// Linspace returns n evenly spaced values over [lo, hi], both ends included.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
