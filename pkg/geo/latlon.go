package geo

import "math"

// LatLon is a WGS-84 geographic coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate falls within the legal lat/lon range.
func (c LatLon) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceTo returns the great-circle distance to other, in meters.
func (c LatLon) DistanceTo(other LatLon) float64 {
	return Haversine(c.Lat, c.Lon, other.Lat, other.Lon)
}

// Equal compares stored values exactly, per the Coordinate invariant in the
// data model: equality has no epsilon.
func (c LatLon) Equal(other LatLon) bool {
	return c.Lat == other.Lat && c.Lon == other.Lon
}
