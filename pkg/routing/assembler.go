package routing

import (
	"github.com/saferide/bikerouter/pkg/crime"
	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
	"github.com/saferide/bikerouter/pkg/planner"
)

// stepCeilingMultiplier bounds a leg's step count at this multiple of the
// Dijkstra baseline's node count before force-arriving kicks in.
const stepCeilingMultiplier = 5

// Assembler drives one request's full multi-leg route: it clones the
// shared graph for isolation, snaps free coordinates to the network, and
// for each leg runs the planner policy once alongside the Dijkstra
// baseline, converting both into wire Paths.
type Assembler struct {
	base     *graph.Graph
	crimeIdx *crime.Index
	policy   planner.Policy
}

// NewAssembler returns an Assembler reading from base (never mutated
// directly — each Route call works on a private clone) using policy to
// drive the planner. If policy is nil, planner.GreedyPolicy is used.
func NewAssembler(base *graph.Graph, crimeIdx *crime.Index, policy planner.Policy) *Assembler {
	if policy == nil {
		policy = planner.GreedyPolicy
	}
	return &Assembler{base: base, crimeIdx: crimeIdx, policy: policy}
}

// Route resolves a multi-leg trip through waypoints [origin, wp_1, ...,
// wp_m], each a free coordinate to be snapped onto the network. It returns
// the Dijkstra-baseline Path and the planner-driven Path for every leg.
func (a *Assembler) Route(waypoints []geo.LatLon) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, NewInputValidationError("at least an origin and one destination are required", ErrEmptyWaypoints)
	}

	g := a.base.Clone()
	snapper := NewSnapper(g)

	ids := make([]int64, 0, len(waypoints))
	for _, wp := range waypoints {
		id, err := snapper.Snap(wp)
		if err != nil {
			return Route{}, err
		}
		ids = append(ids, id)
	}

	trip, err := planner.SetOriginAndWaypoints(ids[0], ids[1:])
	if err != nil {
		return Route{}, NewInputValidationError("invalid waypoint sequence", err)
	}

	var route Route
	for !trip.Done() {
		origin, destination, ok := trip.Reset()
		if !ok {
			break
		}

		baseline := Dijkstra(g, origin, destination)
		if !baseline.Found {
			return Route{}, NewNoRouteError("no path exists between a leg's endpoints", nil)
		}

		legPath, fallbackUsed, err := a.runLeg(g, origin, destination, baseline)
		if err != nil {
			return Route{}, err
		}

		route.Paths = append(route.Paths, a.buildPath(g, legPath, fallbackUsed))
		route.BaselinePaths = append(route.BaselinePaths, a.buildPath(g, baseline.Path, false))
	}

	return route, nil
}

// runLeg drives one leg's planner environment under a.policy, falling back
// to the Dijkstra baseline's tail (force-arriving) on invalid-action,
// revisiting, went_too_far, or the hard step ceiling.
func (a *Assembler) runLeg(g *graph.Graph, origin, destination int64, baseline DijkstraResult) ([]int64, bool, error) {
	env := planner.NewEnv(g, a.crimeIdx, origin, destination, len(baseline.Path))
	stepCeiling := stepCeilingMultiplier * len(baseline.Path)

	for !env.Terminated() {
		obs := env.Observe()
		action := a.policy(obs)
		result := env.Step(action)

		if result.Terminated && result.TerminationCode != "arrived" {
			return a.forceArrive(g, env, destination), true, nil
		}
		if !result.Terminated && stepCeiling > 0 && len(env.Path())-1 >= stepCeiling {
			return a.forceArrive(g, env, destination), true, nil
		}
	}

	return env.Path(), false, nil
}

// forceArrive splices the Dijkstra shortest path from the leg's current
// node to destination onto the episode, per the ResourceLimit/invalid-leg
// recovery policy.
func (a *Assembler) forceArrive(g *graph.Graph, env *planner.Env, destination int64) []int64 {
	path := env.Path()
	cur := path[len(path)-1]
	tail := Dijkstra(g, cur, destination)
	if !tail.Found {
		// Current node is stranded from destination; nothing more to
		// splice, return what we have. The caller surfaces this leg as
		// fallback-used and the distance/ETA will reflect the shortfall.
		return env.ForceArrive(nil)
	}
	return env.ForceArrive(tail.Path)
}

// buildPath converts a leg's node-id path into the wire Path, including
// polyline, directions, edge list, and distance/ETA.
func (a *Assembler) buildPath(g *graph.Graph, nodeIDs []int64, fallbackUsed bool) Path {
	nodes := make([]geo.LatLon, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if n, ok := g.Node(id); ok {
			nodes = append(nodes, n.LatLon())
		}
	}

	var edges []Edge
	var distance float64
	for i := 0; i < len(nodeIDs)-1; i++ {
		u, v := nodeIDs[i], nodeIDs[i+1]
		attrs, ok := g.EdgeAttrsOf(u, v)
		if !ok {
			continue
		}
		un, _ := g.Node(u)
		vn, _ := g.Node(v)
		edges = append(edges, Edge{
			Source: un.LatLon(),
			Target: vn.LatLon(),
			Attributes: EdgeAttributes{
				Length:        attrs.Length,
				Bearing:       attrs.Bearing,
				Highway:       attrs.Highway,
				MaxSpeed:      attrs.ResolvedMaxSpeed(),
				CyclewayLevel: attrs.CyclewayLevel,
				OneWay:        attrs.OneWay,
				Name:          attrs.Name,
			},
		})
		distance += attrs.Length
	}

	return Path{
		Nodes:          nodes,
		Edges:          edges,
		Directions:     BuildDirections(g, nodeIDs),
		PolylinePoints: BuildPolyline(g, nodeIDs),
		Distance:       distance,
		ETASeconds:     etaSeconds(distance),
		FallbackUsed:   fallbackUsed,
	}
}
