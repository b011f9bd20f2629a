package costmodel

import (
	"math"

	"lintang/searoute/pkg/geo"
)

const MinSpeedKmph = 1.0

// SpeedModel vessel speed degradation under sea state and storm risk.
type SpeedModel struct{}

func NewSpeedModel() SpeedModel {
	return SpeedModel{}
}

// EffectiveSpeed km/h after wave-height, wave-direction and storm penalties. waveDir and
// shipHeading are optional; the directional penalty applies only when both are set.
func (SpeedModel) EffectiveSpeed(baseSpeedKmph, waveHeight float64, waveDir, shipHeading *float64, stormRisk float64) float64 {
	speed := baseSpeedKmph

	switch {
	case waveHeight < 1.0:
	case waveHeight < 2.5:
		speed *= 0.9
	case waveHeight < 4.0:
		speed *= 0.75
	default:
		speed *= 0.6
	}

	if waveDir != nil && shipHeading != nil {
		rel := geo.AngleDiff(*waveDir, *shipHeading)
		if rel < 45 {
			speed *= 0.85
		} else if rel < 90 {
			speed *= 0.93
		}
	}

	switch {
	case stormRisk > 0.9:
		speed *= 0.1
	case stormRisk > 0.5:
		speed *= 0.4
	case stormRisk > 0.2:
		speed *= 0.7
	}

	speed *= math.Max(1.0-0.4*stormRisk, 0.1)

	return math.Max(speed, MinSpeedKmph)
}
