package api

import (
	"fmt"

	"github.com/paulmach/go.geojson"

	"github.com/saferide/bikerouter/pkg/routing"
)

// RoutesGeoJSON renders a set of resolved paths as a GeoJSON
// FeatureCollection of LineStrings, one feature per path, matching the
// original service's get_routes_as_geojson helper (bike_maps.py).
func RoutesGeoJSON(paths []routing.Path) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range paths {
		coords := make([][]float64, 0, len(p.PolylinePoints))
		for _, pt := range p.PolylinePoints {
			coords = append(coords, []float64{pt.Lon, pt.Lat})
		}
		feature := geojson.NewLineStringFeature(coords)
		feature.ID = fmt.Sprintf("Route_%d", i)
		feature.SetProperty("leg_index", i)
		feature.SetProperty("distance_meters", p.Distance)
		feature.SetProperty("eta_seconds", p.ETASeconds)
		feature.SetProperty("fallback_used", p.FallbackUsed)
		fc.AddFeature(feature)
	}
	return fc
}
