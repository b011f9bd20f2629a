package routingalgorithm

import (
	"fmt"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/util"
)

type CostFunc func(a, b datastructure.Coordinate) float64

type HeuristicFunc func(n, goal datastructure.Coordinate) float64

type Options struct {
	MaxExpansions   int
	GoalThresholdKm float64
	// Progress, when set, is called every ProgressEvery finalized nodes.
	Progress      func(expansions int)
	ProgressEvery int
}

type RouteAlgorithm struct {
	opts Options
}

func NewRouteAlgorithm(opts Options) *RouteAlgorithm {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 1000
	}
	return &RouteAlgorithm{opts: opts}
}

type SearchResult struct {
	Path       []datastructure.Coordinate
	Cost       float64
	Expansions int
}

// AStar best-first search from start until a finalized node lies within GoalThresholdKm of
// goal. Stale frontier duplicates are discarded lazily when popped. Every call owns its
// own search state, so one RouteAlgorithm can serve concurrent callers.
// https://www.redblobgames.com/pathfinding/a-star/implementation.html
func (rt *RouteAlgorithm) AStar(start, goal datastructure.Coordinate, neighbors grid.NeighborFunc,
	cost CostFunc, heuristic HeuristicFunc) (SearchResult, error) {

	frontier := NewMinHeap[datastructure.Coordinate]()
	frontier.Insert(0, start)

	gScore := map[datastructure.Coordinate]float64{start: 0}
	cameFrom := make(map[datastructure.Coordinate]datastructure.Coordinate)
	closed := make(map[datastructure.Coordinate]struct{})

	expansions := 0
	for frontier.Size() > 0 {
		node, _ := frontier.ExtractMin()
		current := node.Item

		if _, ok := closed[current]; ok {
			continue
		}
		closed[current] = struct{}{}
		expansions++

		if rt.opts.Progress != nil && expansions%rt.opts.ProgressEvery == 0 {
			rt.opts.Progress(expansions)
		}

		if expansions >= rt.opts.MaxExpansions {
			return SearchResult{Expansions: expansions},
				fmt.Errorf("%w (%d nodes)", ErrExpansionLimitExceeded, rt.opts.MaxExpansions)
		}

		if current.DistanceKm(goal) <= rt.opts.GoalThresholdKm {
			return SearchResult{
				Path:       reconstructPath(cameFrom, start, current),
				Cost:       gScore[current],
				Expansions: expansions,
			}, nil
		}

		for _, neighbor := range neighbors(current) {
			if _, ok := closed[neighbor]; ok {
				continue
			}
			tentative := gScore[current] + cost(current, neighbor)
			if g, ok := gScore[neighbor]; !ok || tentative < g {
				gScore[neighbor] = tentative
				cameFrom[neighbor] = current
				frontier.Insert(tentative+heuristic(neighbor, goal), neighbor)
			}
		}
	}

	return SearchResult{Expansions: expansions}, ErrNoPathFound
}

func reconstructPath(cameFrom map[datastructure.Coordinate]datastructure.Coordinate,
	start, current datastructure.Coordinate) []datastructure.Coordinate {
	path := []datastructure.Coordinate{current}
	for current != start {
		current = cameFrom[current]
		path = append(path, current)
	}
	util.ReverseG(path)
	return path
}
