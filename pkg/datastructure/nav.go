package datastructure

import "lintang/searoute/pkg/geo"

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// Location radian form of c for the haversine helpers.
func (c Coordinate) Location() geo.Location {
	return geo.NewLocation(c.Lat, c.Lon)
}

// DistanceKm great-circle distance between c and o.
func (c Coordinate) DistanceKm(o Coordinate) float64 {
	return geo.HaversineDistance(c.Location(), o.Location())
}

// Less orders coordinates by latitude then longitude.
func (c Coordinate) Less(o Coordinate) bool {
	if c.Lat != o.Lat {
		return c.Lat < o.Lat
	}
	return c.Lon < o.Lon
}
