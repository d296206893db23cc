package waveform

import "github.com/kbukum/fluency/validation"

// Config tunes the selection region.
type Config struct {
	// MinRegionLength is the shortest region, in seconds, the user may drag to.
	MinRegionLength float64 `yaml:"min_region_length" mapstructure:"min_region_length" json:"min_region_length" validate:"gte=0"`
	// RegionStartEpsilon is where the region begins after a load, in seconds.
	RegionStartEpsilon float64 `yaml:"region_start_epsilon" mapstructure:"region_start_epsilon" json:"region_start_epsilon" validate:"gte=0"`
}

// ApplyDefaults sets both values to 0.1s when unset.
func (c *Config) ApplyDefaults() {
	if c.MinRegionLength == 0 {
		c.MinRegionLength = 0.1
	}
	if c.RegionStartEpsilon == 0 {
		c.RegionStartEpsilon = 0.1
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
