package refine

import (
	"math"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/geo"
)

const (
	SimplifyToleranceFactor = 0.6
	DensifyStepFactor       = 0.25
	MaxShiftFactor          = 0.35
	// turns sharper than this (degrees) are candidates for smoothing
	DefaultAngleThreshold = 25.0
)

// DouglasPeucker drop points whose deviation from the chord of their segment is at most
// epsilonKm. Paths with fewer than 3 points are returned unchanged.
func DouglasPeucker(points []datastructure.Coordinate, epsilonKm float64) []datastructure.Coordinate {
	if len(points) < 3 {
		return points
	}

	first, last := points[0].Location(), points[len(points)-1].Location()
	maxDist := 0.0
	index := 0
	for i := 1; i < len(points)-1; i++ {
		d := geo.PerpendicularDistance(points[i].Location(), first, last)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist > epsilonKm {
		left := DouglasPeucker(points[:index+1], epsilonKm)
		right := DouglasPeucker(points[index:], epsilonKm)
		out := make([]datastructure.Coordinate, 0, len(left)+len(right)-1)
		out = append(out, left[:len(left)-1]...)
		return append(out, right...)
	}
	return []datastructure.Coordinate{points[0], points[len(points)-1]}
}

// Densify insert evenly spaced points on every segment longer than stepKm. Existing points
// are kept as they are.
func Densify(points []datastructure.Coordinate, stepKm float64) []datastructure.Coordinate {
	if len(points) == 0 {
		return points
	}
	dense := []datastructure.Coordinate{points[0]}
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		dist := a.DistanceKm(b)
		if dist <= stepKm {
			dense = append(dense, b)
			continue
		}

		steps := int(math.Floor(dist / stepKm))
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps+1)
			lat, lon := geo.Interpolate(a.Lat, a.Lon, b.Lat, b.Lon, t)
			dense = append(dense, datastructure.NewCoordinate(lat, lon))
		}
		dense = append(dense, b)
	}
	return dense
}

// SmoothPath soften sharp turns by moving a vertex to the centroid of itself and its two
// neighbours. A move is only accepted when it stays within maxShiftKm of the original
// point, so the path never drifts far from water the search validated. Endpoints and
// length are preserved.
func SmoothPath(points []datastructure.Coordinate, maxShiftKm, angleThreshold float64) []datastructure.Coordinate {
	if len(points) < 3 {
		return points
	}

	smoothed := make([]datastructure.Coordinate, 0, len(points))
	smoothed = append(smoothed, points[0])
	for i := 1; i < len(points)-1; i++ {
		prev, curr, next := points[i-1], points[i], points[i+1]

		turn := geo.TurnAngle(prev.Lat, prev.Lon, curr.Lat, curr.Lon, next.Lat, next.Lon)
		if turn < angleThreshold {
			smoothed = append(smoothed, curr)
			continue
		}

		candidate := datastructure.NewCoordinate(
			(prev.Lat+curr.Lat+next.Lat)/3,
			(prev.Lon+curr.Lon+next.Lon)/3,
		)
		if curr.DistanceKm(candidate) <= maxShiftKm {
			smoothed = append(smoothed, candidate)
		} else {
			smoothed = append(smoothed, curr)
		}
	}
	return append(smoothed, points[len(points)-1])
}

// Pipeline tolerances of the three refinement stages, all derived from the grid step.
type Pipeline struct {
	EpsilonKm      float64
	StepKm         float64
	MaxShiftKm     float64
	AngleThreshold float64
}

func NewPipeline(gridKm float64) Pipeline {
	return Pipeline{
		EpsilonKm:      SimplifyToleranceFactor * gridKm,
		StepKm:         DensifyStepFactor * gridKm,
		MaxShiftKm:     MaxShiftFactor * gridKm,
		AngleThreshold: DefaultAngleThreshold,
	}
}

// Refine simplify, densify then smooth a raw search path.
func (p Pipeline) Refine(raw []datastructure.Coordinate) []datastructure.Coordinate {
	if len(raw) == 0 {
		return []datastructure.Coordinate{}
	}
	simplified := DouglasPeucker(raw, p.EpsilonKm)
	dense := Densify(simplified, p.StepKm)
	return SmoothPath(dense, p.MaxShiftKm, p.AngleThreshold)
}
