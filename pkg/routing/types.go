// Package routing assembles the externally-visible Route/Path/Direction
// model from a street graph: endpoint snapping, the Dijkstra baseline,
// polyline reconstruction, turn-by-turn directions, and the per-leg
// assembler that drives the planner.
package routing

import "github.com/saferide/bikerouter/pkg/geo"

// Edge is the wire representation of a traversed graph edge, with geometry
// stripped per the external contract.
type Edge struct {
	Source     geo.LatLon     `json:"source"`
	Target     geo.LatLon     `json:"target"`
	Attributes EdgeAttributes `json:"attributes"`
}

// EdgeAttributes mirrors graph.EdgeAttrs minus Geometry, for the wire.
type EdgeAttributes struct {
	Length        float64 `json:"length"`
	Bearing       float64 `json:"bearing"`
	Highway       string  `json:"highway"`
	MaxSpeed      int     `json:"max_speed,omitempty"`
	CyclewayLevel int     `json:"cycleway_level"`
	OneWay        bool    `json:"one_way"`
	Name          string  `json:"name,omitempty"`
}

// Direction is one entry in a path's turn-by-turn instructions.
type Direction struct {
	EndingAction                 string `json:"ending_action"`
	StreetName                   string `json:"street_name"`
	CoveredEdgesIndexes          []int  `json:"covered_edges_indexes"`
	CoveredPolylinePointsIndexes []int  `json:"covered_polyline_points_indexes"`
}

// Path is one leg's resolved route.
type Path struct {
	Nodes          []geo.LatLon `json:"nodes"`
	Edges          []Edge       `json:"edges"`
	Directions     []Direction  `json:"directions"`
	PolylinePoints []geo.LatLon `json:"polyline_points"`
	Distance       float64      `json:"distance"`
	ETASeconds     float64      `json:"eta_seconds"`
	FallbackUsed   bool         `json:"fallback_used"`
}

// Route is the full result of a multi-leg request: one Path per leg under
// the policy, plus the Dijkstra baseline preserved alongside for diagnostic
// comparison.
type Route struct {
	Paths         []Path `json:"paths"`
	BaselinePaths []Path `json:"baseline_paths"`
}

// averageSpeedMPS is the constant speed used for ETA (18 km/h ≈ 5 m/s).
const averageSpeedMPS = 18.0 * 1000.0 / 3600.0

// etaSeconds computes ETA for a given distance in meters.
func etaSeconds(distanceMeters float64) float64 {
	return distanceMeters / averageSpeedMPS
}
