package canal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lintang/searoute/pkg/datastructure"

	"github.com/golang/geo/s2"
)

var ErrInvalidRegistry = errors.New("canal: invalid canal registry")

type Anchor struct {
	Name       string
	Coordinate datastructure.Coordinate
}

// Canal bidirectional bridge between two anchors. A route may use it when both endpoints lie
// in Basin and one endpoint is on SideA's region while the other is on SideB's.
type Canal struct {
	Name         string
	PenaltyHours float64
	Basin        Region
	SideA        Anchor
	SideB        Anchor
	RegionA      Region
	RegionB      Region
}

// Transit entry/exit anchors for a canal crossing in travel direction.
type Transit struct {
	Canal *Canal
	Entry Anchor
	Exit  Anchor
}

// Eligible reports whether start -> goal should cross c, and in which direction.
func (c *Canal) Eligible(start, goal datastructure.Coordinate) (Transit, bool) {
	if !c.Basin.Contains(start) || !c.Basin.Contains(goal) {
		return Transit{}, false
	}
	if c.RegionA.Contains(start) && c.RegionB.Contains(goal) {
		return Transit{Canal: c, Entry: c.SideA, Exit: c.SideB}, true
	}
	if c.RegionB.Contains(start) && c.RegionA.Contains(goal) {
		return Transit{Canal: c, Entry: c.SideB, Exit: c.SideA}, true
	}
	return Transit{}, false
}

type Registry []Canal

// Match first canal in registry order that start -> goal is eligible for. At most one canal
// is used per route.
func (r Registry) Match(start, goal datastructure.Coordinate) (Transit, bool) {
	for i := range r {
		if t, ok := r[i].Eligible(start, goal); ok {
			return t, true
		}
	}
	return Transit{}, false
}

func (r Registry) Get(name string) (*Canal, bool) {
	for i := range r {
		if r[i].Name == name {
			return &r[i], true
		}
	}
	return nil, false
}

func DefaultRegistry() Registry {
	return Registry{
		{
			Name:         "panama",
			PenaltyHours: 10.0,
			Basin:        NewRegion("americas", -60.0, 70.0, -170.0, -30.0),
			SideA:        Anchor{Name: "pacific", Coordinate: datastructure.NewCoordinate(8.95, -79.55)},
			SideB:        Anchor{Name: "atlantic", Coordinate: datastructure.NewCoordinate(9.35, -79.90)},
			RegionA:      NewStrictRegion("pacific", -90, 90, -180, -100.0),
			RegionB:      NewStrictRegion("atlantic", -90, 90, -80.0, 180),
		},
		{
			Name:         "suez",
			PenaltyHours: 12.0,
			Basin:        NewRegion("afro-eurasia", -40.0, 70.0, -20.0, 120.0),
			SideA:        Anchor{Name: "south", Coordinate: datastructure.NewCoordinate(29.90, 32.55)},
			SideB:        Anchor{Name: "north", Coordinate: datastructure.NewCoordinate(31.25, 32.35)},
			RegionA:      NewRegion("red-sea", 12.0, 30.0, 32.0, 44.0),
			RegionB:      NewRegion("mediterranean", 30.0, 46.0, -6.0, 36.0),
		},
	}
}

type boxConfig struct {
	Name   string     `json:"name"`
	Lat    [2]float64 `json:"lat"`
	Lon    [2]float64 `json:"lon"`
	Strict bool       `json:"strict"`
}

func (b boxConfig) region() Region {
	if b.Strict {
		return NewStrictRegion(b.Name, b.Lat[0], b.Lat[1], b.Lon[0], b.Lon[1])
	}
	return NewRegion(b.Name, b.Lat[0], b.Lat[1], b.Lon[0], b.Lon[1])
}

type anchorConfig struct {
	Name string     `json:"name"`
	Lat  float64    `json:"lat"`
	Lon  float64    `json:"lon"`
	Side *boxConfig `json:"region"`
}

type canalConfig struct {
	Name         string          `json:"name"`
	PenaltyHours float64         `json:"penalty_hours"`
	Basin        boxConfig       `json:"basin"`
	Sides        [2]anchorConfig `json:"sides"`
}

// LoadRegistry reads a registry from json so canals and regions can be changed without
// touching the router.
func LoadRegistry(r io.Reader) (Registry, error) {
	var cfg []canalConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
	}

	reg := make(Registry, 0, len(cfg))
	for _, cc := range cfg {
		if cc.Name == "" || cc.PenaltyHours < 0 {
			return nil, fmt.Errorf("%w: canal needs a name and a non negative penalty", ErrInvalidRegistry)
		}
		for _, s := range cc.Sides {
			if s.Side == nil {
				return nil, fmt.Errorf("%w: canal %s side %q has no region", ErrInvalidRegistry, cc.Name, s.Name)
			}
			if !s2.LatLngFromDegrees(s.Lat, s.Lon).IsValid() {
				return nil, fmt.Errorf("%w: canal %s anchor %q out of range", ErrInvalidRegistry, cc.Name, s.Name)
			}
		}
		reg = append(reg, Canal{
			Name:         cc.Name,
			PenaltyHours: cc.PenaltyHours,
			Basin:        cc.Basin.region(),
			SideA:        Anchor{Name: cc.Sides[0].Name, Coordinate: datastructure.NewCoordinate(cc.Sides[0].Lat, cc.Sides[0].Lon)},
			SideB:        Anchor{Name: cc.Sides[1].Name, Coordinate: datastructure.NewCoordinate(cc.Sides[1].Lat, cc.Sides[1].Lon)},
			RegionA:      cc.Sides[0].Side.region(),
			RegionB:      cc.Sides[1].Side.region(),
		})
	}
	return reg, nil
}
