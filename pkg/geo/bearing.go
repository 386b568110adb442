package geo

import "math"

// Bearing returns the initial compass bearing in degrees [0, 360) for the
// great-circle path from (lat1, lon1) to (lat2, lon2).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2r)
	x := math.Cos(lat1r)*math.Sin(lat2r) - math.Sin(lat1r)*math.Cos(lat2r)*math.Cos(dLon)

	theta := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(theta+360, 360)
}

// RelativeBearing returns the bearing of u->v measured against the bearing
// of u->ref as 0 degrees. Result is in [0, 360). RelativeBearing(u, v, v)
// is always 0.
func RelativeBearing(u, v, ref LatLon) float64 {
	bearingUV := Bearing(u.Lat, u.Lon, v.Lat, v.Lon)
	bearingURef := Bearing(u.Lat, u.Lon, ref.Lat, ref.Lon)
	return math.Mod(bearingUV-bearingURef+360, 360)
}

// FoldBearing folds a relative bearing phi in [0,360) into [0,180], the
// "how far off-axis" measure used by the orientation reward term.
func FoldBearing(phi float64) float64 {
	folded := math.Mod(phi, 360)
	if folded < 0 {
		folded += 360
	}
	if folded > 180 {
		return 360 - folded
	}
	return folded
}

// ProjectPointOnSegment returns the point on segment a<->b closest to
// target, clamped to the segment endpoints, along with the distance in
// meters from target to that point and the projection ratio in [0,1]
// (0 = at a, 1 = at b).
func ProjectPointOnSegment(target, a, b LatLon) (point LatLon, dist float64, ratio float64) {
	dist, ratio = PointToSegmentDist(target.Lat, target.Lon, a.Lat, a.Lon, b.Lat, b.Lon)
	return LatLon{
		Lat: a.Lat + ratio*(b.Lat-a.Lat),
		Lon: a.Lon + ratio*(b.Lon-a.Lon),
	}, dist, ratio
}
