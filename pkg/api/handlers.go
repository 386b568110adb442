package api

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/routing"
)

// ErrInvalidRequest is returned by ComputeRoute when the request fails
// basic structural validation before ever reaching the routing engine.
var ErrInvalidRequest = errors.New("api: origin and at least one waypoint with finite, in-range coordinates are required")

// ComputeRoute resolves a RouteRequest into a RouteResponse: validates
// coordinates, asks the Assembler to build the multi-leg route, and
// attaches the GeoJSON rendering of the planner-driven paths. Stateless
// apart from the Assembler, so safe to call concurrently.
func ComputeRoute(ctx context.Context, asm *routing.Assembler, req RouteRequest) (RouteResponse, error) {
	receivedAt := time.Now()
	if !validateLocation(req.Origin) {
		return RouteResponse{}, ErrInvalidRequest
	}
	if len(req.Waypoints) == 0 {
		return RouteResponse{}, ErrInvalidRequest
	}
	waypoints := make([]geo.LatLon, 0, len(req.Waypoints)+1)
	waypoints = append(waypoints, toLatLon(req.Origin))
	for _, wp := range req.Waypoints {
		if !validateLocation(wp) {
			return RouteResponse{}, ErrInvalidRequest
		}
		waypoints = append(waypoints, toLatLon(wp))
	}

	route, err := asm.Route(waypoints)
	if err != nil {
		return RouteResponse{}, err
	}

	geoFC := RoutesGeoJSON(route.Paths)
	geoBytes, err := json.Marshal(geoFC)
	if err != nil {
		geoBytes = nil
	}

	resp := RouteResponse{
		Origin:        req.Origin,
		Waypoints:     req.Waypoints,
		Paths:         toPathsJSON(route.Paths),
		BaselinePaths: toPathsJSON(route.BaselinePaths),
		PathsGeoJSON:  geoBytes,
	}
	return withTimestamps(resp, req.DepartureTime, receivedAt), nil
}

// classifyError maps a ComputeRoute error to an HTTP status code.
func classifyError(err error) int {
	if errors.Is(err, ErrInvalidRequest) {
		return 400
	}
	var routingErr *routing.Error
	if errors.As(err, &routingErr) {
		return routingErr.HTTPStatus()
	}
	return 500
}
