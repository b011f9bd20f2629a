package geo

import "math"

// haversine distance
const earthRadiusKM = 6371.0

// Location lat/lon dalam radian.
type Location struct {
	Latitude  float64
	Longitude float64
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

func NewLocation(latDegree float64, lonDegree float64) Location {
	return Location{
		Latitude:  degreeToRadians(latDegree),
		Longitude: degreeToRadians(lonDegree),
	}
}

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func havFormula(locationOne Location, locationTwo Location) float64 {
	latitudeDiff := locationOne.Latitude - locationTwo.Latitude
	longitudeDiff := locationOne.Longitude - locationTwo.Longitude

	havLatitude := havFunction(latitudeDiff)
	havLongitude := havFunction(longitudeDiff)

	return havLatitude + math.Cos(locationOne.Latitude)*math.Cos(locationTwo.Latitude)*havLongitude
}

func archaversine(havAngle float64) float64 {
	// rounding can push hav slightly above 1 for antipodal points
	return 2.0 * math.Asin(math.Sqrt(math.Min(havAngle, 1.0)))
}

// HaversineDistance great-circle distance in km.
func HaversineDistance(locationOne Location, locationTwo Location) float64 {
	havCentralAngle := havFormula(locationOne, locationTwo)
	centralAngleRad := archaversine(havCentralAngle)
	return earthRadiusKM * centralAngleRad
}

// CalculateHaversineDistance same as HaversineDistance but takes degrees.
func CalculateHaversineDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	return HaversineDistance(NewLocation(latOne, lonOne), NewLocation(latTwo, lonTwo))
}

/*
PerpendicularDistance. approximate cross-track distance (km) of point from the chord
(lineStart, lineEnd) using the triangle area method: the three sides are haversine
distances, the area comes from Heron's formula and the height is 2*area/base.
When the chord is degenerate the direct distance to lineStart is returned.
*/
func PerpendicularDistance(point, lineStart, lineEnd Location) float64 {
	if lineStart == lineEnd {
		return HaversineDistance(point, lineStart)
	}

	a := HaversineDistance(lineStart, lineEnd)
	b := HaversineDistance(lineStart, point)
	c := HaversineDistance(point, lineEnd)

	s := (a + b + c) / 2
	area := math.Sqrt(math.Max(s*(s-a)*(s-b)*(s-c), 0))

	if a == 0 {
		return 0
	}
	return (2 * area) / a
}
