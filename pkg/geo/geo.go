package geo

import "math"

//	φ1,λ1 is the start point, φ2,λ2 the end point
//	 	φ is latitude, λ is longitude
//
// https://www.movable-type.co.uk/scripts/latlong.html
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	p1LatRad := degToRad(lat1)
	p2LatRad := degToRad(lat2)

	diffLon := degToRad(lon2 - lon1)

	y := math.Sin(diffLon) * math.Cos(p2LatRad)
	x := math.Cos(p1LatRad)*math.Sin(p2LatRad) - math.Sin(p1LatRad)*math.Cos(p2LatRad)*math.Cos(diffLon)
	theta := math.Atan2(y, x)

	bearing := math.Mod((theta*180/math.Pi)+360, 360)
	return bearing
}

// CalculateTurn signed turn from bearing b1 to b2, in [-180, 180].
func CalculateTurn(b1, b2 float64) float64 {
	turn := b2 - b1
	if turn > 180 {
		turn -= 360
	} else if turn < -180 {
		turn += 360
	}
	return turn
}

// TurnAngle absolute heading change at (lat2,lon2) when travelling 1 -> 2 -> 3.
func TurnAngle(lat1, lon1, lat2, lon2, lat3, lon3 float64) float64 {
	b1 := Bearing(lat1, lon1, lat2, lon2)
	b2 := Bearing(lat2, lon2, lat3, lon3)
	return math.Abs(CalculateTurn(b1, b2))
}

// Interpolate linear interpolation in coordinate space, t in [0,1].
func Interpolate(lat1, lon1, lat2, lon2, t float64) (float64, float64) {
	return lat1 + t*(lat2-lat1), lon1 + t*(lon2-lon1)
}

// AngleDiff smallest absolute difference between two directions in degrees.
func AngleDiff(a, b float64) float64 {
	rel := math.Mod(math.Abs(a-b), 360)
	return math.Min(rel, 360-rel)
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}
