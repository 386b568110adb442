package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gotidy/ptr"
)

// LocationJSON is a lat/lon pair with an optional free-text address, the
// wire unit everywhere a waypoint is supplied by a client.
type LocationJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// RouteRequest is the JSON body for POST /v1/route: an origin plus one or
// more waypoints (the final waypoint is the trip's ultimate destination;
// intermediate waypoints split the trip into legs). DepartureTime is
// optional; when absent the server stamps the request's receipt time.
type RouteRequest struct {
	Origin        LocationJSON   `json:"origin"`
	Waypoints     []LocationJSON `json:"waypoints"`
	DepartureTime *time.Time     `json:"departure_time,omitempty"`
}

// CoordinatesJSON is a bare lat/lon pair, used inside a resolved path.
type CoordinatesJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EdgeJSON is one traversed street segment in a resolved path.
type EdgeJSON struct {
	Source     CoordinatesJSON `json:"source"`
	Target     CoordinatesJSON `json:"target"`
	Attributes EdgeAttrJSON    `json:"attributes"`
}

// EdgeAttrJSON mirrors routing.EdgeAttributes for the wire.
type EdgeAttrJSON struct {
	Length        float64 `json:"length"`
	Bearing       float64 `json:"bearing"`
	Highway       string  `json:"highway"`
	MaxSpeed      int     `json:"max_speed,omitempty"`
	CyclewayLevel int     `json:"cycleway_level"`
	OneWay        bool    `json:"one_way"`
	Name          string  `json:"name,omitempty"`
}

// DirectionJSON is one turn-by-turn instruction.
type DirectionJSON struct {
	EndingAction                 string `json:"ending_action"`
	StreetName                   string `json:"street_name"`
	CoveredEdgesIndexes          []int  `json:"covered_edges_indexes"`
	CoveredPolylinePointsIndexes []int  `json:"covered_polyline_points_indexes"`
}

// PathJSON is one leg's resolved route.
type PathJSON struct {
	Nodes          []CoordinatesJSON `json:"nodes"`
	Edges          []EdgeJSON        `json:"edges"`
	Directions     []DirectionJSON   `json:"directions"`
	PolylinePoints []CoordinatesJSON `json:"polyline_points"`
	DistanceMeters float64           `json:"distance_meters"`
	ETASeconds     float64           `json:"eta_seconds"`
	FallbackUsed   bool              `json:"fallback_used"`
}

// RouteResponse is the JSON response for a successful POST /v1/route. Origin
// and Waypoints echo the request back onto the response, as the request
// alone doesn't otherwise travel with the resolved route.
type RouteResponse struct {
	Origin        LocationJSON    `json:"origin"`
	Waypoints     []LocationJSON  `json:"waypoints"`
	DepartureTime *time.Time      `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time      `json:"arrival_time,omitempty"`
	Paths         []PathJSON      `json:"paths"`
	BaselinePaths []PathJSON      `json:"baseline_paths"`
	PathsGeoJSON  json.RawMessage `json:"paths_geojson,omitempty"`
}

// withTimestamps stamps departure/arrival times onto resp: departure
// defaults to now when the request didn't supply one, and arrival is
// departure plus the total ETA across every leg's primary path.
func withTimestamps(resp RouteResponse, departure *time.Time, now time.Time) RouteResponse {
	dep := now
	if departure != nil {
		dep = *departure
	}
	var totalETA time.Duration
	for _, p := range resp.Paths {
		totalETA += time.Duration(p.ETASeconds * float64(time.Second))
	}
	resp.DepartureTime = ptr.Time(dep)
	resp.ArrivalTime = ptr.Time(dep.Add(totalETA))
	return resp
}

// ErrorResponse is the JSON response for a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON response for GET /v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
