package api

import (
	"math"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/routing"
)

func validateLocation(loc LocationJSON) bool {
	if math.IsNaN(loc.Latitude) || math.IsNaN(loc.Longitude) ||
		math.IsInf(loc.Latitude, 0) || math.IsInf(loc.Longitude, 0) {
		return false
	}
	return geo.LatLon{Lat: loc.Latitude, Lon: loc.Longitude}.Valid()
}

func toLatLon(loc LocationJSON) geo.LatLon {
	return geo.LatLon{Lat: loc.Latitude, Lon: loc.Longitude}
}

func toCoordinates(ll geo.LatLon) CoordinatesJSON {
	return CoordinatesJSON{Latitude: ll.Lat, Longitude: ll.Lon}
}

func toPathJSON(p routing.Path) PathJSON {
	nodes := make([]CoordinatesJSON, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = toCoordinates(n)
	}

	edges := make([]EdgeJSON, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = EdgeJSON{
			Source: toCoordinates(e.Source),
			Target: toCoordinates(e.Target),
			Attributes: EdgeAttrJSON{
				Length:        e.Attributes.Length,
				Bearing:       e.Attributes.Bearing,
				Highway:       e.Attributes.Highway,
				MaxSpeed:      e.Attributes.MaxSpeed,
				CyclewayLevel: e.Attributes.CyclewayLevel,
				OneWay:        e.Attributes.OneWay,
				Name:          e.Attributes.Name,
			},
		}
	}

	directions := make([]DirectionJSON, len(p.Directions))
	for i, d := range p.Directions {
		directions[i] = DirectionJSON{
			EndingAction:                 d.EndingAction,
			StreetName:                   d.StreetName,
			CoveredEdgesIndexes:          d.CoveredEdgesIndexes,
			CoveredPolylinePointsIndexes: d.CoveredPolylinePointsIndexes,
		}
	}

	polyline := make([]CoordinatesJSON, len(p.PolylinePoints))
	for i, pt := range p.PolylinePoints {
		polyline[i] = toCoordinates(pt)
	}

	return PathJSON{
		Nodes:          nodes,
		Edges:          edges,
		Directions:     directions,
		PolylinePoints: polyline,
		DistanceMeters: p.Distance,
		ETASeconds:     p.ETASeconds,
		FallbackUsed:   p.FallbackUsed,
	}
}

func toPathsJSON(paths []routing.Path) []PathJSON {
	out := make([]PathJSON, len(paths))
	for i, p := range paths {
		out[i] = toPathJSON(p)
	}
	return out
}
