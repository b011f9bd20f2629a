package datastructure

import (
	"github.com/twpayne/go-polyline"
)

// CanalJump bridge edge used by a route. From/To are the navigable nodes the canal
// anchors snapped to.
type CanalJump struct {
	From         Coordinate `json:"from"`
	To           Coordinate `json:"to"`
	Canal        string     `json:"canal"`
	PenaltyHours float64    `json:"penalty_hours"`
}

type RouteStats struct {
	TravelTimeHours     float64 `json:"travel_time_hours"`
	NumWaypointsRaw     int     `json:"num_waypoints_raw"`
	NumWaypointsRefined int     `json:"num_waypoints_smooth"`
	MaxStormRisk        float64 `json:"max_storm_risk"`
	AvgStormRisk        float64 `json:"avg_storm_risk"`
	HighRiskWaypoints   int     `json:"high_risk_waypoints"`
	Expansions          int     `json:"expansions"`
}

type RouteResult struct {
	Start       Coordinate   `json:"start"`
	Goal        Coordinate   `json:"goal"`
	RawPath     []Coordinate `json:"route_raw"`
	RefinedPath []Coordinate `json:"route_smooth"`
	CanalJumps  []CanalJump  `json:"canal_jumps"`
	Stats       RouteStats   `json:"stats"`
}

// RenderPath encode path as google polyline.
func RenderPath(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
