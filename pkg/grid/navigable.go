package grid

import (
	"math"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/util"

	"github.com/dhconnelly/rtreego"
	"golang.org/x/exp/slices"
)

const (
	rtreeTol = 1e-9
	// seed candidates pulled from the rtree. They only bound the search box, every member
	// inside the box is re-ranked exactly.
	nearestCandidates = 8
)

type navNode struct {
	location rtreego.Point
	idx      int
}

func (n *navNode) Bounds() rtreego.Rect {
	return n.location.ToRect(rtreeTol)
}

// NavigableSet immutable set of lattice-aligned ocean nodes. Safe for concurrent reads.
type NavigableSet struct {
	nodes   []datastructure.Coordinate // sorted by lat, lon
	members map[datastructure.Coordinate]struct{}
	rt      *rtreego.Rtree
}

func normalize(c datastructure.Coordinate) datastructure.Coordinate {
	return datastructure.NewCoordinate(util.RoundFloat(c.Lat, LatticePrecision), util.RoundFloat(c.Lon, LatticePrecision))
}

// NewNavigableSet build the set and its spatial index. Duplicates are dropped.
func NewNavigableSet(nodes []datastructure.Coordinate) *NavigableSet {
	members := make(map[datastructure.Coordinate]struct{}, len(nodes))
	sorted := make([]datastructure.Coordinate, 0, len(nodes))
	for _, n := range nodes {
		n = normalize(n)
		if _, ok := members[n]; ok {
			continue
		}
		members[n] = struct{}{}
		sorted = append(sorted, n)
	}

	slices.SortFunc(sorted, func(a, b datastructure.Coordinate) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})

	rt := rtreego.NewTree(2, 25, 50)
	for i, n := range sorted {
		rt.Insert(&navNode{location: rtreego.Point{n.Lat, n.Lon}, idx: i})
	}

	return &NavigableSet{
		nodes:   sorted,
		members: members,
		rt:      rt,
	}
}

func (s *NavigableSet) Contains(c datastructure.Coordinate) bool {
	_, ok := s.members[c]
	return ok
}

func (s *NavigableSet) Len() int {
	return len(s.nodes)
}

// Nodes copy of the members sorted by latitude then longitude.
func (s *NavigableSet) Nodes() []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func squaredDist(a, b datastructure.Coordinate) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return dLat*dLat + dLon*dLon
}

// Nearest member minimising squared coordinate distance to p. Ties go to the member that
// comes first in (lat, lon) order.
func (s *NavigableSet) Nearest(p datastructure.Coordinate) (datastructure.Coordinate, error) {
	if len(s.nodes) == 0 {
		return datastructure.Coordinate{}, ErrNoNavigableNodes
	}

	q := rtreego.Point{p.Lat, p.Lon}
	seed := -1
	seedDist := 0.0
	for _, cand := range s.rt.NearestNeighbors(nearestCandidates, q) {
		if cand == nil {
			continue
		}
		idx := cand.(*navNode).idx
		if d := squaredDist(s.nodes[idx], p); seed == -1 || d < seedDist {
			seed = idx
			seedDist = d
		}
	}
	if seed == -1 {
		return s.nearestLinear(p), nil
	}

	// the rtree orders by padded bounds, so equidistant members can be cut from the seed.
	// Any member at the best exact distance lies inside this box.
	half := math.Sqrt(seedDist) + 1e-6
	box, err := rtreego.NewRectFromPoints(rtreego.Point{p.Lat - half, p.Lon - half},
		rtreego.Point{p.Lat + half, p.Lon + half})
	if err != nil {
		return s.nearestLinear(p), nil
	}

	best := seed
	bestDist := seedDist
	for _, hit := range s.rt.SearchIntersect(box) {
		idx := hit.(*navNode).idx
		d := squaredDist(s.nodes[idx], p)
		if d < bestDist || (d == bestDist && idx < best) {
			best = idx
			bestDist = d
		}
	}
	return s.nodes[best], nil
}

// nearestLinear full scan in sorted order.
func (s *NavigableSet) nearestLinear(p datastructure.Coordinate) datastructure.Coordinate {
	best := s.nodes[0]
	bestDist := squaredDist(best, p)
	for _, n := range s.nodes[1:] {
		if d := squaredDist(n, p); d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// SnapToNavigable snap p onto the lattice and then onto the nearest navigable node.
func (s *NavigableSet) SnapToNavigable(p datastructure.Coordinate, res float64) (datastructure.Coordinate, error) {
	return s.Nearest(SnapToGrid(p, res))
}
