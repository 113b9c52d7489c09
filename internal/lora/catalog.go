package lora

import (
	"fmt"
	"iter"
	"strings"
)

// CodingRate is the LoRa forward error correction ratio 4/Denominator.
type CodingRate struct {
	Numerator   int
	Denominator int
}

var (
	CR45 = CodingRate{Numerator: 4, Denominator: 5}
	CR47 = CodingRate{Numerator: 4, Denominator: 7}
)

// Value returns the ratio as used by the airtime formula (0.8 for 4/5).
func (cr CodingRate) Value() float64 {
	return float64(cr.Numerator) / float64(cr.Denominator)
}

func (cr CodingRate) String() string {
	return fmt.Sprintf("%d/%d", cr.Numerator, cr.Denominator)
}

// ParseCodingRate parses "4/5" or "4-5" into a supported coding rate.
func ParseCodingRate(s string) (CodingRate, error) {
	switch strings.ReplaceAll(strings.TrimSpace(s), "-", "/") {
	case CR45.String():
		return CR45, nil
	case CR47.String():
		return CR47, nil
	}
	return CodingRate{}, fmt.Errorf("lora: unsupported coding rate %q", s)
}

// TransmissionConfiguration is one admissible (coding rate, spreading factor) pair.
type TransmissionConfiguration struct {
	ID              string
	CodingRate      CodingRate
	SpreadingFactor int
	Alpha           float64 // path-loss intercept
	Beta            float64 // path-loss slope
	TXR             float64 // nominal transmission rate, bit/s
	SNR             float64 // required signal-to-noise ratio (linear)
}

// Label is the short legend label used on charts, e.g. "SF=7".
func (c TransmissionConfiguration) Label() string {
	return fmt.Sprintf("SF=%d", c.SpreadingFactor)
}

// NumConfigurations is the size of the catalog.
const NumConfigurations = 12

// ConfigurationCatalog is an immutable, ordinal-indexed table of configurations.
type ConfigurationCatalog struct {
	entries [NumConfigurations]TransmissionConfiguration
}

func newConfiguration(cr CodingRate, sf int, alpha, beta, txr, snr float64) TransmissionConfiguration {
	return TransmissionConfiguration{
		ID:              ConfigurationID(cr, sf),
		CodingRate:      cr,
		SpreadingFactor: sf,
		Alpha:           alpha,
		Beta:            beta,
		TXR:             txr,
		SNR:             snr,
	}
}

// ConfigurationID builds the canonical identifier, e.g. "SF7/CR4-5".
func ConfigurationID(cr CodingRate, sf int) string {
	return fmt.Sprintf("SF%d/CR%d-%d", sf, cr.Numerator, cr.Denominator)
}

var catalog = &ConfigurationCatalog{entries: [NumConfigurations]TransmissionConfiguration{
	newConfiguration(CR45, 7, -30.2580, 0.2857, 3410, 0.0001778279),
	newConfiguration(CR45, 8, -77.1002, 0.2993, 1841, 0.0000999999),
	newConfiguration(CR45, 9, -244.6424, 0.3223, 1015, 0.0000562341),
	newConfiguration(CR45, 10, -725.9556, 0.3340, 507, 0.0000316227),
	newConfiguration(CR45, 11, -2109.8064, 0.3407, 253, 0.0000177827),
	newConfiguration(CR45, 12, -4452.3653, 0.2217, 127, 0.0000099999),
	newConfiguration(CR47, 7, -105.1966, 0.3746, 2663, 0.0001778279),
	newConfiguration(CR47, 8, -289.8133, 0.3756, 1466, 0.0000999999),
	newConfiguration(CR47, 9, -1114.3312, 0.3969, 816, 0.0000562341),
	newConfiguration(CR47, 10, -4285.4440, 0.4116, 408, 0.0000316227),
	newConfiguration(CR47, 11, -20771.6945, 0.4332, 204, 0.0000177827),
	newConfiguration(CR47, 12, -98658.1166, 0.4485, 102, 0.0000099999),
}}

// Catalog returns the process-wide configuration catalog. It is read-only and
// safe for concurrent use.
func Catalog() *ConfigurationCatalog {
	return catalog
}

// Len returns the number of configurations.
func (c *ConfigurationCatalog) Len() int {
	return len(c.entries)
}

// Get returns the configuration at the 0-based canonical ordinal.
func (c *ConfigurationCatalog) Get(index int) (TransmissionConfiguration, error) {
	if index < 0 || index >= len(c.entries) {
		return TransmissionConfiguration{}, &IndexError{Index: index, Len: len(c.entries)}
	}
	return c.entries[index], nil
}

// All yields every configuration in canonical order: CR 4/5 SF7..SF12, then
// CR 4/7 SF7..SF12. The sequence can be ranged over any number of times.
func (c *ConfigurationCatalog) All() iter.Seq[TransmissionConfiguration] {
	return func(yield func(TransmissionConfiguration) bool) {
		for _, cfg := range c.entries {
			if !yield(cfg) {
				return
			}
		}
	}
}

// ByID looks a configuration up by its identifier.
func (c *ConfigurationCatalog) ByID(id string) (TransmissionConfiguration, bool) {
	for _, cfg := range c.entries {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return TransmissionConfiguration{}, false
}

// Ordinal returns the canonical index of the configuration with the given id,
// or -1 when it is not in the catalog.
func (c *ConfigurationCatalog) Ordinal(id string) int {
	for i, cfg := range c.entries {
		if cfg.ID == id {
			return i
		}
	}
	return -1
}

// Family returns the configurations sharing a coding rate, ordered by SF.
func (c *ConfigurationCatalog) Family(cr CodingRate) []TransmissionConfiguration {
	family := make([]TransmissionConfiguration, 0, len(c.entries)/2)
	for cfg := range c.All() {
		if cfg.CodingRate == cr {
			family = append(family, cfg)
		}
	}
	return family
}
