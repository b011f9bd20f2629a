package costmodel_test

import (
	"math/rand"
	"testing"

	"lintang/searoute/pkg/datastructure"
	"lintang/searoute/pkg/engine/costmodel"
	"lintang/searoute/pkg/grid"
	"lintang/searoute/pkg/weather"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestEffectiveSpeed(t *testing.T) {
	sm := costmodel.NewSpeedModel()
	cases := []struct {
		name    string
		base    float64
		wave    float64
		dir     *float64
		heading *float64
		storm   float64
		want    float64
	}{
		{"calm sea", 30, 0.5, nil, nil, 0, 30},
		{"moderate waves", 30, 2.0, nil, nil, 0, 27},
		{"rough waves", 30, 3.0, nil, nil, 0, 22.5},
		{"high waves", 30, 5.0, nil, nil, 0, 18},
		{"head sea", 30, 0.5, ptr(10), ptr(30), 0, 25.5},
		{"quartering sea", 30, 0.5, ptr(100), ptr(30), 0, 27.9},
		{"beam sea ignored", 30, 0.5, ptr(120), ptr(30), 0, 30},
		{"direction without heading ignored", 30, 0.5, ptr(10), nil, 0, 30},
		{"wrap around north", 30, 0.5, ptr(350), ptr(10), 0, 25.5},
		{"moderate storm", 30, 0.5, nil, nil, 0.3, 30 * 0.7 * 0.88},
		{"severe storm", 30, 0.5, nil, nil, 0.6, 30 * 0.4 * 0.76},
		{"extreme storm", 30, 0.5, nil, nil, 0.95, 30 * 0.1 * 0.62},
		{"light storm only dampened", 30, 0.5, nil, nil, 0.2, 30 * 0.92},
		{"floor", 5, 5.0, nil, nil, 0.95, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sm.EffectiveSpeed(tc.base, tc.wave, tc.dir, tc.heading, tc.storm)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

type mapWeather map[datastructure.Coordinate]weather.Sample

func (m mapWeather) Sample(c datastructure.Coordinate) weather.Sample {
	if s, ok := m[c]; ok {
		return s
	}
	return weather.DefaultSample()
}

func TestTimeCost(t *testing.T) {
	a := datastructure.NewCoordinate(0, 0)
	b := datastructure.NewCoordinate(0, 1)
	dist := a.DistanceKm(b)

	t.Run("default weather", func(t *testing.T) {
		cm := costmodel.NewCostModel(mapWeather{}, 30)
		assert.InDelta(t, dist/27, cm.TimeCost(a, b, costmodel.ModeSearch), 1e-9)
		assert.InDelta(t, dist/27, cm.TimeCost(a, b, costmodel.ModeFinal), 1e-9)
	})

	t.Run("storm above 0.3 uses different penalties per mode", func(t *testing.T) {
		cm := costmodel.NewCostModel(mapWeather{a: {WaveHeight: 2.0, StormRisk: 0.4}}, 30)
		base := dist / (27 * 0.7 * 0.84)
		assert.InDelta(t, base*1.6, cm.SearchCost(a, b), 1e-9)
		assert.InDelta(t, base*7.4*1.8, cm.FinalCost(a, b), 1e-9)
	})

	t.Run("light storm only penalised in final mode", func(t *testing.T) {
		cm := costmodel.NewCostModel(mapWeather{a: {WaveHeight: 0.5, StormRisk: 0.2}}, 30)
		base := dist / (30 * 0.92)
		assert.InDelta(t, base, cm.SearchCost(a, b), 1e-9)
		assert.InDelta(t, base*1.4, cm.FinalCost(a, b), 1e-9)
	})

	t.Run("conditions are taken at the origin", func(t *testing.T) {
		cm := costmodel.NewCostModel(mapWeather{b: {WaveHeight: 6, StormRisk: 0.99}}, 30)
		assert.InDelta(t, dist/27, cm.SearchCost(a, b), 1e-9)
		assert.Greater(t, cm.SearchCost(b, a), dist/27)
	})

	t.Run("path cost", func(t *testing.T) {
		cm := costmodel.NewCostModel(mapWeather{}, 30)
		c := datastructure.NewCoordinate(0, 2)
		assert.InDelta(t, cm.SearchCost(a, b)+cm.SearchCost(b, c),
			cm.PathCost([]datastructure.Coordinate{a, b, c}, costmodel.ModeSearch), 1e-9)
		assert.Equal(t, 0.0, cm.PathCost([]datastructure.Coordinate{a}, costmodel.ModeFinal))
	})
}

func TestHeuristicAdmissible(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	w := mapWeather{}
	res := 0.5
	for i := 0; i < 300; i++ {
		c := grid.SnapToGrid(datastructure.NewCoordinate(rnd.Float64()*20, rnd.Float64()*20), res)
		w[c] = weather.Sample{WaveHeight: rnd.Float64() * 6, StormRisk: rnd.Float64()}
	}
	cm := costmodel.NewCostModel(w, 30)

	for c := range w {
		for _, n := range grid.Neighbors(c, res) {
			assert.LessOrEqual(t, cm.Heuristic(c, n), cm.SearchCost(c, n)+1e-12)
		}
		goal := datastructure.NewCoordinate(10, 10)
		for _, n := range grid.Neighbors(c, res) {
			// consistency: h(c) <= cost(c,n) + h(n)
			assert.LessOrEqual(t, cm.Heuristic(c, goal), cm.SearchCost(c, n)+cm.Heuristic(n, goal)+1e-9)
		}
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "search", costmodel.ModeSearch.String())
	assert.Equal(t, "final", costmodel.ModeFinal.String())
}
