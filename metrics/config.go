package metrics

import (
	"errors"
	"fmt"
)

// Config tunes the metric calculators
type Config struct {
	// Plane is the plane shoulder and hip rotation is measured in
	Plane Plane `yaml:"plane"`
	// BodyMass in kilograms scales the power index
	BodyMass float64 `yaml:"body_mass"`
	// IdealGain is the club to pelvis peak velocity ratio treated as a
	// complete transfer of energy
	IdealGain float64 `yaml:"ideal_gain"`
	// BalanceMargin expands the base of support in normalized units
	BalanceMargin float64 `yaml:"balance_margin"`
	// ConsistencySwings is the number of completed swings compared
	ConsistencySwings int `yaml:"consistency_swings"`
	// ConsistencyTolerance is the coefficient of variation that scores 0
	ConsistencyTolerance float64 `yaml:"consistency_tolerance"`
	// TrendRecent is the number of latest consistency scores compared to
	// the older ones
	TrendRecent int `yaml:"trend_recent"`
	// TrendBand is the score difference treated as no change
	TrendBand float64 `yaml:"trend_band"`
	// TargetSeparation is the peak separation in degrees scoring full marks
	// in the composite
	TargetSeparation float64 `yaml:"target_separation"`
	// TargetTempo is the ideal backswing to downswing ratio
	TargetTempo float64 `yaml:"target_tempo"`
}

// DefaultConfig returns the default metric configuration
func DefaultConfig() Config {
	return Config{
		Plane:                PlaneTransverse,
		BodyMass:             75,
		IdealGain:            4,
		BalanceMargin:        0.02,
		ConsistencySwings:    5,
		ConsistencyTolerance: 0.25,
		TrendRecent:          3,
		TrendBand:            0.05,
		TargetSeparation:     45,
		TargetTempo:          3,
	}
}

// Validate checks the configuration is usable
func (c Config) Validate() error {

	if c.BodyMass <= 0 {
		return fmt.Errorf("body mass must be positive, got %v", c.BodyMass)
	}

	if c.IdealGain <= 0 {
		return fmt.Errorf("ideal gain must be positive, got %v", c.IdealGain)
	}

	if c.TargetSeparation <= 0 || c.TargetTempo <= 0 {
		return errors.New("composite targets must be positive")
	}

	if c.BalanceMargin < 0 {
		return fmt.Errorf("balance margin must not be negative, got %v", c.BalanceMargin)
	}

	if c.ConsistencySwings < 2 {
		return fmt.Errorf("consistency needs at least 2 swings, got %d", c.ConsistencySwings)
	}

	if c.ConsistencyTolerance <= 0 || c.TrendRecent < 1 {
		return errors.New("consistency tolerance and trend window must be positive")
	}

	return nil
}
