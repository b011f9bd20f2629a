package canal

import (
	"lintang/searoute/pkg/datastructure"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Region lat/lon box. Strict regions exclude their own boundary.
type Region struct {
	Name   string
	rect   s2.Rect
	strict bool
}

func degrees(d float64) float64 {
	return (s1.Angle(d) * s1.Degree).Radians()
}

// NewRegion box [latLo, latHi] x [lonLo, lonHi] in degrees.
func NewRegion(name string, latLo, latHi, lonLo, lonHi float64) Region {
	return Region{
		Name: name,
		rect: s2.Rect{
			Lat: r1.Interval{Lo: degrees(latLo), Hi: degrees(latHi)},
			Lng: s1.IntervalFromEndpoints(degrees(lonLo), degrees(lonHi)),
		},
	}
}

// NewStrictRegion like NewRegion but points on the boundary are outside.
func NewStrictRegion(name string, latLo, latHi, lonLo, lonHi float64) Region {
	r := NewRegion(name, latLo, latHi, lonLo, lonHi)
	r.strict = true
	return r
}

func (r Region) Contains(c datastructure.Coordinate) bool {
	ll := s2.LatLngFromDegrees(c.Lat, c.Lon)
	if r.strict {
		return r.rect.InteriorContainsLatLng(ll)
	}
	return r.rect.ContainsLatLng(ll)
}
