package planner_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"lintang/searoute/pkg/canal"
	"lintang/searoute/pkg/config"
	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/engine/costmodel"
	"lintang/searoute/pkg/engine/routingalgorithm"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/planner"
	"lintang/searoute/pkg/server"
	"lintang/searoute/pkg/util"
	"lintang/searoute/pkg/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(lat, lon float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(lat, lon)
}

// box every lattice point of [latMin, latMax] x [lonMin, lonMax].
func box(latMin, latMax, lonMin, lonMax, res float64) []datastructure.Coordinate {
	nodes := []datastructure.Coordinate{}
	nLat := int(math.Round((latMax - latMin) / res))
	nLon := int(math.Round((lonMax - lonMin) / res))
	for i := 0; i <= nLat; i++ {
		for j := 0; j <= nLon; j++ {
			nodes = append(nodes, grid.SnapToGrid(c(latMin+float64(i)*res, lonMin+float64(j)*res), res))
		}
	}
	return nodes
}

func newPlanner(t *testing.T, nodes []datastructure.Coordinate, w costmodel.Weather, cfg config.PlannerConfig) *planner.RoutePlanner {
	t.Helper()
	if w == nil {
		w = weather.NewWeatherField(nil, config.DefaultWeatherPrecision)
	}
	p, err := planner.NewRoutePlanner(grid.NewNavigableSet(nodes), w, canal.DefaultRegistry(), cfg)
	require.NoError(t, err)
	return p
}

func assertAdjacent(t *testing.T, path []datastructure.Coordinate, res float64) {
	t.Helper()
	for i := 0; i+1 < len(path); i++ {
		dLat := math.Abs(path[i+1].Lat - path[i].Lat)
		dLon := math.Abs(path[i+1].Lon - path[i].Lon)
		assert.LessOrEqual(t, dLat, res+1e-9, "step %d", i)
		assert.LessOrEqual(t, dLon, res+1e-9, "step %d", i)
	}
}

func serverCode(t *testing.T, err error) error {
	t.Helper()
	var serr *server.Error
	require.True(t, errors.As(err, &serr), "want a *server.Error, got %T", err)
	return serr.Code()
}

func TestComputeRoutePanama(t *testing.T) {
	res := 0.5
	cfg := config.PlannerConfig{GridResolution: res}
	p := newPlanner(t, box(5, 42, -120, -72, res), nil, cfg)

	los, nyc := c(34.0522, -118.2437), c(40.7128, -74.0060)
	route, err := p.ComputeRoute(context.Background(), los, nyc, true)
	require.NoError(t, err)

	assert.Equal(t, c(34, -118), route.Start)
	assert.Equal(t, c(40.5, -74), route.Goal)

	require.Len(t, route.CanalJumps, 1)
	jump := route.CanalJumps[0]
	assert.Equal(t, "panama", jump.Canal)
	assert.Equal(t, 10.0, jump.PenaltyHours)
	assert.Equal(t, c(9, -79.5), jump.From, "pacific anchor snapped")
	assert.Equal(t, c(9.5, -80), jump.To, "atlantic anchor snapped")

	raw := route.RawPath
	assert.Equal(t, route.Start, raw[0])
	assert.Equal(t, route.Goal, raw[len(raw)-1])
	bridged := false
	for i := 0; i+1 < len(raw); i++ {
		if raw[i] == jump.From && raw[i+1] == jump.To {
			bridged = true
		}
	}
	assert.True(t, bridged, "raw path should cross the bridge")

	assert.Equal(t, len(raw), route.Stats.NumWaypointsRaw)
	assert.Equal(t, len(route.RefinedPath), route.Stats.NumWaypointsRefined)
	assert.Greater(t, route.Stats.TravelTimeHours, jump.PenaltyHours)
	assert.Greater(t, route.Stats.Expansions, 0)
	assert.Equal(t, route.Start, route.RefinedPath[0])
	assert.Equal(t, route.Goal, route.RefinedPath[len(route.RefinedPath)-1])
}

func TestComputeRouteSuez(t *testing.T) {
	res := 0.25
	// red sea and the gulf of suez joined to the eastern mediterranean only through the canal
	nodes := append(box(20, 30, 32.5, 40, res), box(31.25, 35, 26, 34.5, res)...)
	p := newPlanner(t, nodes, nil, config.PlannerConfig{GridResolution: res})

	jeddah, crete := c(21.5, 39.0), c(34.0, 27.0)
	route, err := p.ComputeRoute(context.Background(), jeddah, crete, false)
	require.NoError(t, err)

	require.Len(t, route.CanalJumps, 1)
	jump := route.CanalJumps[0]
	assert.Equal(t, "suez", jump.Canal)
	assert.Equal(t, c(30, 32.5), jump.From)
	assert.Equal(t, c(31.25, 32.25), jump.To)
	assert.Equal(t, route.RawPath, route.RefinedPath)
	assert.GreaterOrEqual(t, route.Stats.TravelTimeHours, 12.0)
}

func TestComputeRouteOpenOcean(t *testing.T) {
	res := 1.0
	p := newPlanner(t, box(-40, -25, 155, 175, res), nil, config.PlannerConfig{GridResolution: res})

	route, err := p.ComputeRoute(context.Background(), c(-30, 160), c(-35, 170), true)
	require.NoError(t, err)

	assert.Empty(t, route.CanalJumps)
	assert.NotNil(t, route.CanalJumps)
	assert.Equal(t, c(-30, 160), route.RawPath[0])
	assert.Equal(t, c(-35, 170), route.RawPath[len(route.RawPath)-1])
	assertAdjacent(t, route.RawPath, res)

	set := grid.NewNavigableSet(box(-40, -25, 155, 175, res))
	for _, n := range route.RawPath {
		assert.True(t, set.Contains(n))
	}
	// ten columns to cover, five of them diagonally
	assert.Len(t, route.RawPath, 11)
}

func TestComputeRouteUnreachable(t *testing.T) {
	nodes := []datastructure.Coordinate{c(0, 0), c(0, 1), c(10, 10), c(10, 11)}
	p := newPlanner(t, nodes, nil, config.PlannerConfig{GridResolution: 1})

	_, err := p.ComputeRoute(context.Background(), c(0, 0), c(10, 10), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, routingalgorithm.ErrNoPathFound)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))
}

func TestComputeRouteExpansionCap(t *testing.T) {
	res := 1.0
	p := newPlanner(t, box(-40, -25, 155, 175, res), nil, config.PlannerConfig{GridResolution: res, MaxExpansions: 1})

	_, err := p.ComputeRoute(context.Background(), c(-30, 160), c(-35, 170), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, routingalgorithm.ErrExpansionLimitExceeded)
	assert.Equal(t, server.ErrUnprocessable, serverCode(t, err))
}

func TestComputeRouteNoNodes(t *testing.T) {
	p := newPlanner(t, nil, nil, config.DefaultPlannerConfig())

	_, err := p.ComputeRoute(context.Background(), c(0, 0), c(1, 1), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, grid.ErrNoNavigableNodes)
	assert.Equal(t, server.ErrNotFound, serverCode(t, err))
}

func TestComputeRouteCancelled(t *testing.T) {
	p := newPlanner(t, box(0, 5, 0, 5, 1), nil, config.PlannerConfig{GridResolution: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ComputeRoute(ctx, c(0, 0), c(5, 5), true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeRouteStormStats(t *testing.T) {
	// a single-row corridor forces the route through the storm
	nodes := box(0, 0, 0, 10, 1)
	storm := map[weather.BucketKey]weather.Sample{
		weather.NewBucketKey(0, 5, 1): {WaveHeight: 5, StormRisk: 0.8},
		weather.NewBucketKey(0, 6, 1): {WaveHeight: 3, StormRisk: 0.3},
	}
	field := weather.NewWeatherField(storm, 1)
	p := newPlanner(t, nodes, field, config.PlannerConfig{GridResolution: 1})

	route, err := p.ComputeRoute(context.Background(), c(0, 0), c(0, 10), false)
	require.NoError(t, err)
	require.Len(t, route.RefinedPath, 11)

	cm := costmodel.NewCostModel(field, config.DefaultVesselSpeedKmph)
	assert.Equal(t, util.RoundFloat(cm.PathCost(route.RefinedPath, costmodel.ModeFinal), 2), route.Stats.TravelTimeHours)
	assert.Greater(t, route.Stats.TravelTimeHours, util.RoundFloat(cm.PathCost(route.RefinedPath, costmodel.ModeSearch), 2))
	assert.Equal(t, 0.8, route.Stats.MaxStormRisk)
	assert.Equal(t, util.RoundFloat(1.1/11, 2), route.Stats.AvgStormRisk)
	assert.Equal(t, 1, route.Stats.HighRiskWaypoints)
}

func TestComputeRouteDeterministic(t *testing.T) {
	res := 0.5
	nodes := box(-10, 10, 100, 130, res)
	storm := map[weather.BucketKey]weather.Sample{}
	for lat := -2.0; lat <= 2; lat += 0.5 {
		for lon := 110.0; lon <= 115; lon += 0.5 {
			storm[weather.NewBucketKey(lat, lon, 1)] = weather.Sample{WaveHeight: 4.5, StormRisk: 0.7}
		}
	}
	field := weather.NewWeatherField(storm, 1)

	first := newPlanner(t, nodes, field, config.PlannerConfig{GridResolution: res})
	second := newPlanner(t, nodes, field, config.PlannerConfig{GridResolution: res})

	a, err := first.ComputeRoute(context.Background(), c(-8, 102), c(8, 128), true)
	require.NoError(t, err)
	b, err := second.ComputeRoute(context.Background(), c(-8, 102), c(8, 128), true)
	require.NoError(t, err)

	assert.Equal(t, a.RawPath, b.RawPath)
	assert.Equal(t, a.RefinedPath, b.RefinedPath)
	assert.Equal(t, a.Stats, b.Stats)
}

func TestNewRoutePlannerInvalidConfig(t *testing.T) {
	_, err := planner.NewRoutePlanner(grid.NewNavigableSet(nil), weather.NewWeatherField(nil, 1),
		canal.DefaultRegistry(), config.PlannerConfig{VesselSpeedKmph: 0.5})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSearchProgress(t *testing.T) {
	res := 1.0
	nodes := box(-40, -25, 155, 175, res)
	calls := 0
	p, err := planner.NewRoutePlanner(grid.NewNavigableSet(nodes), weather.NewWeatherField(nil, 1),
		canal.DefaultRegistry(), config.PlannerConfig{GridResolution: res},
		planner.WithSearchProgress(1, func(int) { calls++ }))
	require.NoError(t, err)

	route, err := p.ComputeRoute(context.Background(), c(-30, 160), c(-35, 170), true)
	require.NoError(t, err)
	assert.Equal(t, route.Stats.Expansions, calls)
}
