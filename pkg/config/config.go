package config

import (
	"errors"
	"fmt"

	"lintang/searoute/pkg/util"
)

const (
	// degrees per grid step
	DefaultGridResolution = 0.25
	// ~16 knots
	DefaultVesselSpeedKmph  = 30.0
	DefaultGoalThresholdKm  = 20.0
	DefaultMaxExpansions    = 2_000_000
	// weather bucket decimals, used by the weather grid builder and the server's calm fallback
	DefaultWeatherPrecision = 1

	// decimals kept on lattice coordinates. A finer grid resolution would not survive the rounding.
	LatticeDecimals = 6

	// approximate km per degree used by the refinement tolerances
	KmPerDegree = 111.0
)

var ErrInvalidConfig = errors.New("config: invalid planner configuration")

// PlannerConfig runtime knobs of the route planner. Zero values are replaced by the defaults
// in WithDefaults.
type PlannerConfig struct {
	GridResolution  float64
	VesselSpeedKmph float64
	GoalThresholdKm float64
	MaxExpansions   int
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		GridResolution:  DefaultGridResolution,
		VesselSpeedKmph: DefaultVesselSpeedKmph,
		GoalThresholdKm: DefaultGoalThresholdKm,
		MaxExpansions:   DefaultMaxExpansions,
	}
}

func (c PlannerConfig) WithDefaults() PlannerConfig {
	d := DefaultPlannerConfig()
	if c.GridResolution == 0 {
		c.GridResolution = d.GridResolution
	}
	if c.VesselSpeedKmph == 0 {
		c.VesselSpeedKmph = d.VesselSpeedKmph
	}
	if c.GoalThresholdKm == 0 {
		c.GoalThresholdKm = d.GoalThresholdKm
	}
	if c.MaxExpansions == 0 {
		c.MaxExpansions = d.MaxExpansions
	}
	return c
}

func (c PlannerConfig) Validate() error {
	if c.GridResolution <= 0 {
		return fmt.Errorf("%w: grid resolution must be positive, got %v", ErrInvalidConfig, c.GridResolution)
	}
	if util.CountDecimalPlacesF64(c.GridResolution) > LatticeDecimals {
		return fmt.Errorf("%w: grid resolution %v has more than %d decimals", ErrInvalidConfig, c.GridResolution, LatticeDecimals)
	}
	if c.VesselSpeedKmph < 1 {
		return fmt.Errorf("%w: vessel speed must be at least 1 km/h, got %v", ErrInvalidConfig, c.VesselSpeedKmph)
	}
	if c.GoalThresholdKm < 0 {
		return fmt.Errorf("%w: goal threshold must not be negative", ErrInvalidConfig)
	}
	if c.MaxExpansions < 1 {
		return fmt.Errorf("%w: expansion cap must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// GridKm grid step length in km, used to scale refinement tolerances.
func (c PlannerConfig) GridKm() float64 {
	return c.GridResolution * KmPerDegree
}
