package costmodel

import (
	"math"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/weather"
)

// Mode selects the storm penalty policy of TimeCost.
type Mode int

const (
	// ModeSearch soft storm penalty used while expanding the A* frontier.
	ModeSearch Mode = iota
	// ModeFinal harsh storm penalty used once to report the ETA of the chosen route. Not
	// admissible, never used to guide the search.
	ModeFinal
)

func (m Mode) String() string {
	if m == ModeFinal {
		return "final"
	}
	return "search"
}

type Weather interface {
	Sample(c datastructure.Coordinate) weather.Sample
}

// CostModel edge traversal time in hours for a vessel with base speed VesselSpeedKmph.
type CostModel struct {
	weather         Weather
	speed           SpeedModel
	VesselSpeedKmph float64
}

func NewCostModel(w Weather, vesselSpeedKmph float64) *CostModel {
	return &CostModel{weather: w, speed: NewSpeedModel(), VesselSpeedKmph: vesselSpeedKmph}
}

// TimeCost hours to sail from a to b, using the conditions at a. Heading is not known
// during routing so no directional penalty is applied.
func (cm *CostModel) TimeCost(a, b datastructure.Coordinate, mode Mode) float64 {
	dist := a.DistanceKm(b)
	sample := cm.weather.Sample(a)
	storm := sample.StormRisk

	speed := cm.speed.EffectiveSpeed(cm.VesselSpeedKmph, sample.WaveHeight, sample.WaveDirection, nil, storm)
	t := dist / speed

	switch mode {
	case ModeSearch:
		if storm > 0.3 {
			t *= 1 + storm*1.5
		}
	case ModeFinal:
		if storm > 0.3 {
			t *= 1 + math.Pow(storm, 3)*100
		}
		if storm > 0.1 {
			t *= 1 + storm*2
		}
	}
	return t
}

func (cm *CostModel) SearchCost(a, b datastructure.Coordinate) float64 {
	return cm.TimeCost(a, b, ModeSearch)
}

func (cm *CostModel) FinalCost(a, b datastructure.Coordinate) float64 {
	return cm.TimeCost(a, b, ModeFinal)
}

// Heuristic optimistic hours from n to goal at full, unpenalised speed. Every penalty only
// lowers speed or raises time, so this never overestimates the search-mode cost.
func (cm *CostModel) Heuristic(n, goal datastructure.Coordinate) float64 {
	return n.DistanceKm(goal) / cm.VesselSpeedKmph
}

// PathCost sum of TimeCost over consecutive points of path.
func (cm *CostModel) PathCost(path []datastructure.Coordinate, mode Mode) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += cm.TimeCost(path[i], path[i+1], mode)
	}
	return total
}
