package lora

// DutyCycle is a regulatory transmit budget expressed in fixed airtime quanta.
type DutyCycle struct {
	Fraction       float64 `json:"Fraction"`       // share of time the radio may transmit
	QuantumSeconds float64 `json:"QuantumSeconds"` // airtime of one transmission slot
}

// DefaultDutyCycle is the EU868 1% limit with 51 ms slots.
var DefaultDutyCycle = DutyCycle{
	Fraction:       1.0 / 100,
	QuantumSeconds: 0.051,
}

// QuotaPerHour is the number of slots available in one hour.
func (d DutyCycle) QuotaPerHour() float64 {
	return 3600 * d.Fraction / d.QuantumSeconds
}

// QuotaPerInterval is the number of slots available in one reporting interval.
func (d DutyCycle) QuotaPerInterval(intervalSeconds float64) float64 {
	return intervalSeconds * d.Fraction / d.QuantumSeconds
}

// AllowedAirtimeMs is the transmit time permitted per reporting interval.
func (d DutyCycle) AllowedAirtimeMs(intervalSeconds float64) float64 {
	return intervalSeconds * d.Fraction * 1000
}

// Permits reports whether one transmission per interval stays within the budget.
func (d DutyCycle) Permits(est AirtimeEstimate, intervalSeconds float64) bool {
	return est.Airtime <= d.AllowedAirtimeMs(intervalSeconds)
}
