package graph

import "github.com/saferide/bikerouter/pkg/geo"

// InsertResult describes the outcome of InsertOnEdge.
type InsertResult struct {
	NodeID   int64 // id of the node now representing the snap point
	Existing bool  // true if NodeID already existed at this exact coordinate, no edges were added
}

// InsertOnEdge snaps target onto the directed edge (u, v, key), splitting it
// into two edges that meet at a new node. If an edge point already coincides
// exactly with an existing node's coordinate, that node is reused and no
// split happens.
//
// The new node is assigned newID, which must not already exist in the graph
// (inserted endpoints are namespaced with negative ids to avoid colliding
// with canonical OSM ids; see the routing snapper).
//
// If the original edge is bidirectional (its reverse (v, u, key) also
// exists with the mirrored attributes), the reverse is split the same way
// and both original directed edges are removed. This mirrors the reference
// implementation's insert_new_node_in_edge.
func (g *Graph) InsertOnEdge(u, v int64, key int, target geo.LatLon, newID int64) (InsertResult, error) {
	attrs, ok := g.EdgeAttrsOf(u, v, key)
	if !ok {
		return InsertResult{}, ErrEdgeNotFound
	}

	un, uok := g.Node(u)
	vn, vok := g.Node(v)
	if !uok || !vok {
		return InsertResult{}, ErrNodeNotFound
	}

	point, subIdx := projectPointForSplit(target, *attrs, un.LatLon(), vn.LatLon())

	// Exact coincidence with an existing endpoint: reuse it.
	if point.Equal(un.LatLon()) {
		return InsertResult{NodeID: u, Existing: true}, nil
	}
	if point.Equal(vn.LatLon()) {
		return InsertResult{NodeID: v, Existing: true}, nil
	}
	for id, n := range g.nodes {
		if point.Equal(n.LatLon()) {
			return InsertResult{NodeID: id, Existing: true}, nil
		}
	}

	if g.HasNode(newID) {
		return InsertResult{}, ErrNodeCollision
	}

	var geomToNew, geomFromNew []geo.LatLon
	if len(attrs.Geometry) >= 2 {
		geomToNew = append(append([]geo.LatLon{}, attrs.Geometry[:subIdx+1]...), point)
		geomFromNew = append([]geo.LatLon{point}, attrs.Geometry[subIdx+1:]...)
	}

	if err := g.AddNode(Node{ID: newID, Lat: point.Lat, Lon: point.Lon, StreetCount: 2}); err != nil {
		return InsertResult{}, err
	}

	toNew := *attrs
	toNew.Length = un.LatLon().DistanceTo(point)
	toNew.Bearing = geo.Bearing(un.Lat, un.Lon, point.Lat, point.Lon)
	toNew.Geometry = geomToNew
	if err := g.AddEdge(u, newID, 0, toNew); err != nil {
		return InsertResult{}, err
	}

	fromNew := *attrs
	fromNew.Length = point.DistanceTo(vn.LatLon())
	fromNew.Bearing = geo.Bearing(point.Lat, point.Lon, vn.Lat, vn.Lon)
	fromNew.Geometry = geomFromNew
	if err := g.AddEdge(newID, v, 0, fromNew); err != nil {
		return InsertResult{}, err
	}

	if !attrs.OneWay {
		if revAttrs, ok := g.EdgeAttrsOf(v, u, key); ok {
			var revGeomToNew, revGeomFromNew []geo.LatLon
			if len(revAttrs.Geometry) >= 2 {
				revGeomToNew = reverseGeom(geomFromNew)
				revGeomFromNew = reverseGeom(geomToNew)
			}

			vToNew := *revAttrs
			vToNew.Length = vn.LatLon().DistanceTo(point)
			vToNew.Bearing = geo.Bearing(vn.Lat, vn.Lon, point.Lat, point.Lon)
			vToNew.Geometry = revGeomToNew
			if err := g.AddEdge(v, newID, 0, vToNew); err != nil {
				return InsertResult{}, err
			}

			newToU := *revAttrs
			newToU.Length = point.DistanceTo(un.LatLon())
			newToU.Bearing = geo.Bearing(point.Lat, point.Lon, un.Lat, un.Lon)
			newToU.Geometry = revGeomFromNew
			if err := g.AddEdge(newID, u, 0, newToU); err != nil {
				return InsertResult{}, err
			}

			_ = g.RemoveEdge(v, u, key)
		}
	}

	_ = g.RemoveEdge(u, v, key)

	return InsertResult{NodeID: newID}, nil
}

func reverseGeom(in []geo.LatLon) []geo.LatLon {
	out := make([]geo.LatLon, len(in))
	for i, p := range in {
		out[len(in)-1-i] = p
	}
	return out
}

// projectPointForSplit returns the snap point on the edge closest to target,
// and the sub-segment index i such that the point lies on geometry[i]<->
// geometry[i+1] (or -1 if the edge has no geometry and the straight u-v
// segment was used).
func projectPointForSplit(target geo.LatLon, attrs EdgeAttrs, u, v geo.LatLon) (geo.LatLon, int) {
	if len(attrs.Geometry) < 2 {
		point, _, _ := geo.ProjectPointOnSegment(target, u, v)
		return point, -1
	}

	bestIdx := 0
	bestDist := -1.0
	var bestPoint geo.LatLon
	for i := 0; i < len(attrs.Geometry)-1; i++ {
		point, dist, _ := geo.ProjectPointOnSegment(target, attrs.Geometry[i], attrs.Geometry[i+1])
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			bestPoint = point
			bestIdx = i
		}
	}
	return bestPoint, bestIdx
}
