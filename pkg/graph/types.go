// Package graph implements the mutable, attribute-rich street multigraph:
// nodes keyed by id, directed edges keyed by (source, target, key) carrying
// length/bearing/highway/speed/cycleway/oneway/geometry attributes, a
// spatial index for nearest-edge lookups, and the on-the-fly edge-split
// used to snap free coordinates onto the network.
package graph

import "github.com/saferide/bikerouter/pkg/geo"

// Cycleway quality levels.
const (
	CyclewayNone   = 0
	CyclewayUnsafe = 1
	CyclewaySafe   = 2
)

// Node is a street intersection or inserted endpoint.
type Node struct {
	ID          int64
	Lat, Lon    float64
	StreetCount int
}

// LatLon returns the node's coordinate.
func (n Node) LatLon() geo.LatLon {
	return geo.LatLon{Lat: n.Lat, Lon: n.Lon}
}

// EdgeAttrs holds the attributes of a directed edge (source, target, key).
type EdgeAttrs struct {
	Length        float64 // meters, great-circle between endpoints (post-split)
	Bearing       float64 // degrees [0, 360)
	Highway       string
	MaxSpeed      int  // km/h; meaningless unless HasMaxSpeed
	HasMaxSpeed   bool
	CyclewayLevel int // 0=none, 1=unsafe, 2=safe
	OneWay        bool
	Name          string
	Geometry      []geo.LatLon // optional ordered polyline, endpoints included
}

// ResolvedMaxSpeed returns the edge's max speed, defaulting per highway
// class when missing (residential -> 30 km/h, everything else -> 50 km/h),
// mirroring the reference implementation's fallback rule.
func (a EdgeAttrs) ResolvedMaxSpeed() int {
	if a.HasMaxSpeed {
		return a.MaxSpeed
	}
	if a.Highway == "residential" {
		return 30
	}
	return 50
}

// edgeKey identifies a directed edge. Graphs in this system are simple
// multigraphs where at most one edge exists per (u, v) pair in practice,
// but the key space allows parallel edges (K > 0) as the data model
// requires.
type edgeKey struct {
	U, V int64
	K    int
}
