package graph

import "github.com/saferide/bikerouter/pkg/geo"

// Clone returns a deep copy of g, including a freshly built spatial index if
// g had one. Each incoming request clones the canonical graph so that
// per-request endpoint insertion never mutates shared state.
func (g *Graph) Clone() *Graph {
	out := New()
	for id, n := range g.nodes {
		cp := *n
		out.nodes[id] = &cp
	}
	for u, vs := range g.neighbors {
		cp := make([]int64, len(vs))
		copy(cp, vs)
		out.neighbors[u] = cp
	}
	for key, attrs := range g.edges {
		cp := *attrs
		if attrs.Geometry != nil {
			cp.Geometry = make([]geo.LatLon, len(attrs.Geometry))
			copy(cp.Geometry, attrs.Geometry)
		}
		out.edges[key] = &cp
	}
	if g.index != nil {
		BuildIndex(out)
	}
	return out
}
