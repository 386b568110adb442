package api

import (
	"testing"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/routing"
)

func TestRoutesGeoJSONOneFeaturePerPath(t *testing.T) {
	paths := []routing.Path{
		{PolylinePoints: []geo.LatLon{{Lat: 1.3, Lon: 103.8}, {Lat: 1.31, Lon: 103.8}}, Distance: 1100},
		{PolylinePoints: []geo.LatLon{{Lat: 1.31, Lon: 103.8}, {Lat: 1.32, Lon: 103.8}}, Distance: 1100},
	}
	fc := RoutesGeoJSON(paths)
	if len(fc.Features) != 2 {
		t.Fatalf("len(fc.Features) = %d, want 2", len(fc.Features))
	}
}

func TestRoutesGeoJSONEmpty(t *testing.T) {
	fc := RoutesGeoJSON(nil)
	if len(fc.Features) != 0 {
		t.Errorf("expected no features for an empty path set, got %d", len(fc.Features))
	}
}
