package service

import (
	"context"
	"log"

	"lintang/searoute/pkg/datastructure"
)

type RoutePlanner interface {
	ComputeRoute(ctx context.Context, start, goal datastructure.Coordinate, smooth bool) (datastructure.RouteResult, error)
}

type NavigationService struct {
	planner RoutePlanner
}

func NewNavigationService(planner RoutePlanner) *NavigationService {
	return &NavigationService{planner: planner}
}

// SeaRoute route between two points and log a one line summary of the result.
func (uc *NavigationService) SeaRoute(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64,
	smooth bool) (datastructure.RouteResult, error) {
	route, err := uc.planner.ComputeRoute(ctx,
		datastructure.NewCoordinate(srcLat, srcLon),
		datastructure.NewCoordinate(dstLat, dstLon),
		smooth)
	if err != nil {
		return datastructure.RouteResult{}, err
	}

	canalName := "none"
	if len(route.CanalJumps) > 0 {
		canalName = route.CanalJumps[0].Canal
	}
	log.Printf("sea route %v -> %v: %d raw / %d smooth waypoints, %.2f h, canal %s, %d expansions",
		route.Start, route.Goal, route.Stats.NumWaypointsRaw, route.Stats.NumWaypointsRefined,
		route.Stats.TravelTimeHours, canalName, route.Stats.Expansions)
	return route, nil
}
