package grid

import (
	"math"

	"lintang/searoute/pkg/config"
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/util"
)

// LatticePrecision decimal places kept on lattice coordinates so that map keys built from
// different arithmetic paths compare equal.
const LatticePrecision = config.LatticeDecimals

func snapAxis(v, res float64) float64 {
	return util.RoundFloat(math.Round(v/res)*res, LatticePrecision)
}

// SnapToGrid round each axis of c to the nearest multiple of res.
func SnapToGrid(c datastructure.Coordinate, res float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(snapAxis(c.Lat, res), snapAxis(c.Lon, res))
}

// Neighbors 8 lattice points around c (Moore neighbourhood), always in the same order.
func Neighbors(c datastructure.Coordinate, res float64) []datastructure.Coordinate {
	neighbors := make([]datastructure.Coordinate, 0, 8)
	for _, dlat := range [3]float64{-res, 0, res} {
		for _, dlon := range [3]float64{-res, 0, res} {
			if dlat == 0 && dlon == 0 {
				continue
			}
			neighbors = append(neighbors, datastructure.NewCoordinate(
				snapAxis(c.Lat+dlat, res),
				snapAxis(c.Lon+dlon, res),
			))
		}
	}
	return neighbors
}

// NeighborFunc returns the traversable successors of a node.
type NeighborFunc func(c datastructure.Coordinate) []datastructure.Coordinate

// OceanNeighbors neighbours of a node that are members of the navigable set.
func OceanNeighbors(set *NavigableSet, res float64) NeighborFunc {
	return func(c datastructure.Coordinate) []datastructure.Coordinate {
		all := Neighbors(c, res)
		ocean := all[:0]
		for _, n := range all {
			if set.Contains(n) {
				ocean = append(ocean, n)
			}
		}
		return ocean
	}
}
