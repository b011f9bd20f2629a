package planner

import (
	"context"
	"errors"

	"lintang/searoute/pkg/canal"
	"lintang/searoute/pkg/config"
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/engine/costmodel"
	"lintang/searoute/pkg/engine/routingalgorithm"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/refine"
	"lintang/searoute/pkg/server"
	"lintang/searoute/pkg/util"
)

const HighRiskThreshold = 0.5

type Option func(*RoutePlanner)

// WithSearchProgress report the expansion count of running searches every `every` nodes.
func WithSearchProgress(every int, fn func(expansions int)) Option {
	return func(p *RoutePlanner) {
		p.searchOpts.Progress = fn
		p.searchOpts.ProgressEvery = every
	}
}

// RoutePlanner snap, pick a canal, search and refine. Navigable set, weather and
// registry are only read, so one planner serves concurrent requests.
type RoutePlanner struct {
	nodes      *grid.NavigableSet
	weather    costmodel.Weather
	canals     canal.Registry
	cfg        config.PlannerConfig
	cost       *costmodel.CostModel
	searchOpts routingalgorithm.Options
	refiner    refine.Pipeline
}

func NewRoutePlanner(nodes *grid.NavigableSet, w costmodel.Weather, canals canal.Registry,
	cfg config.PlannerConfig, opts ...Option) (*RoutePlanner, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &RoutePlanner{
		nodes:   nodes,
		weather: w,
		canals:  canals,
		cfg:     cfg,
		cost:    costmodel.NewCostModel(w, cfg.VesselSpeedKmph),
		searchOpts: routingalgorithm.Options{
			MaxExpansions:   cfg.MaxExpansions,
			GoalThresholdKm: cfg.GoalThresholdKm,
		},
		refiner: refine.NewPipeline(cfg.GridKm()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *RoutePlanner) Config() config.PlannerConfig {
	return p.cfg
}

// ComputeRoute fastest route from start to goal. With smooth=false the refined path
// is the raw search path. ctx is checked before every search leg.
func (p *RoutePlanner) ComputeRoute(ctx context.Context, start, goal datastructure.Coordinate,
	smooth bool) (datastructure.RouteResult, error) {
	res := p.cfg.GridResolution

	s, err := p.nodes.SnapToNavigable(start, res)
	if err != nil {
		return datastructure.RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "cannot snap start (%v, %v)", start.Lat, start.Lon)
	}
	g, err := p.nodes.SnapToNavigable(goal, res)
	if err != nil {
		return datastructure.RouteResult{}, server.WrapErrorf(err, server.ErrNotFound, "cannot snap goal (%v, %v)", goal.Lat, goal.Lon)
	}

	var (
		rawPath    []datastructure.Coordinate
		jumps      = []datastructure.CanalJump{}
		expansions int
	)

	if transit, ok := p.canals.Match(s, g); ok {
		var jump datastructure.CanalJump
		rawPath, jump, expansions, err = p.routeViaCanal(ctx, s, g, transit)
		if err != nil {
			return datastructure.RouteResult{}, err
		}
		jumps = append(jumps, jump)
	} else {
		leg, err := p.search(ctx, s, g)
		if err != nil {
			return datastructure.RouteResult{}, err
		}
		rawPath = leg.Path
		expansions = leg.Expansions
	}

	refined := rawPath
	if smooth {
		refined = p.refiner.Refine(rawPath)
	}

	return datastructure.RouteResult{
		Start:       s,
		Goal:        g,
		RawPath:     rawPath,
		RefinedPath: refined,
		CanalJumps:  jumps,
		Stats:       p.routeStats(rawPath, refined, jumps, expansions),
	}, nil
}

// routeViaCanal two searches joined by the canal bridge:
// leg1[:-1] + [entry, exit] + leg2[1:].
func (p *RoutePlanner) routeViaCanal(ctx context.Context, start, goal datastructure.Coordinate,
	transit canal.Transit) ([]datastructure.Coordinate, datastructure.CanalJump, int, error) {
	res := p.cfg.GridResolution
	var jump datastructure.CanalJump

	entry, err := p.nodes.SnapToNavigable(transit.Entry.Coordinate, res)
	if err != nil {
		return nil, jump, 0, server.WrapErrorf(err, server.ErrNotFound, "cannot snap %s anchor %s", transit.Canal.Name, transit.Entry.Name)
	}
	exit, err := p.nodes.SnapToNavigable(transit.Exit.Coordinate, res)
	if err != nil {
		return nil, jump, 0, server.WrapErrorf(err, server.ErrNotFound, "cannot snap %s anchor %s", transit.Canal.Name, transit.Exit.Name)
	}

	leg1, err := p.search(ctx, start, entry)
	if err != nil {
		return nil, jump, 0, err
	}
	leg2, err := p.search(ctx, exit, goal)
	if err != nil {
		return nil, jump, 0, err
	}

	path := make([]datastructure.Coordinate, 0, len(leg1.Path)+len(leg2.Path)+1)
	path = append(path, leg1.Path[:len(leg1.Path)-1]...)
	path = append(path, entry, exit)
	path = append(path, leg2.Path[1:]...)

	jump = datastructure.CanalJump{
		From:         entry,
		To:           exit,
		Canal:        transit.Canal.Name,
		PenaltyHours: transit.Canal.PenaltyHours,
	}
	return path, jump, leg1.Expansions + leg2.Expansions, nil
}

func (p *RoutePlanner) search(ctx context.Context, start, goal datastructure.Coordinate) (routingalgorithm.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return routingalgorithm.SearchResult{}, server.WrapErrorf(err, server.ErrInternalServerError, "route request cancelled")
	}

	rt := routingalgorithm.NewRouteAlgorithm(p.searchOpts)
	leg, err := rt.AStar(start, goal, grid.OceanNeighbors(p.nodes, p.cfg.GridResolution),
		p.cost.SearchCost, p.cost.Heuristic)
	switch {
	case errors.Is(err, routingalgorithm.ErrExpansionLimitExceeded):
		return leg, server.WrapErrorf(err, server.ErrUnprocessable, "search from (%v, %v) gave up", start.Lat, start.Lon)
	case errors.Is(err, routingalgorithm.ErrNoPathFound):
		return leg, server.WrapErrorf(err, server.ErrNotFound, "no sea route from (%v, %v) to (%v, %v)", start.Lat, start.Lon, goal.Lat, goal.Lon)
	case err != nil:
		return leg, server.WrapErrorf(err, server.ErrInternalServerError, "search failed")
	}
	return leg, nil
}

// routeStats final-mode travel time over the refined path plus canal penalties, and
// storm exposure sampled at every refined waypoint.
func (p *RoutePlanner) routeStats(raw, refined []datastructure.Coordinate, jumps []datastructure.CanalJump,
	expansions int) datastructure.RouteStats {
	total := p.cost.PathCost(refined, costmodel.ModeFinal)
	for _, j := range jumps {
		total += j.PenaltyHours
	}

	maxRisk, sumRisk := 0.0, 0.0
	highRisk := 0
	for _, c := range refined {
		risk := p.weather.Sample(c).StormRisk
		if risk > maxRisk {
			maxRisk = risk
		}
		sumRisk += risk
		if risk > HighRiskThreshold {
			highRisk++
		}
	}
	avgRisk := 0.0
	if len(refined) > 0 {
		avgRisk = sumRisk / float64(len(refined))
	}

	return datastructure.RouteStats{
		TravelTimeHours:     util.RoundFloat(total, 2),
		NumWaypointsRaw:     len(raw),
		NumWaypointsRefined: len(refined),
		MaxStormRisk:        util.RoundFloat(maxRisk, 2),
		AvgStormRisk:        util.RoundFloat(avgRisk, 2),
		HighRiskWaypoints:   highRisk,
		Expansions:          expansions,
	}
}
