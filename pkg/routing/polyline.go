package routing

import (
	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

// BuildPolyline walks the edges of path [n0, n1, ..., nk] and returns the
// ordered coordinate sequence: for each edge, its geometry (oriented in the
// traversal direction, excluding the final point, which the next edge or
// the trailing append contributes), or the source node's coordinate when
// the edge carries no geometry. The final node's coordinate is always
// appended last.
func BuildPolyline(g *graph.Graph, path []int64) []geo.LatLon {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 {
		n, ok := g.Node(path[0])
		if !ok {
			return nil
		}
		return []geo.LatLon{n.LatLon()}
	}

	var points []geo.LatLon
	for i := 0; i < len(path)-1; i++ {
		u, v := path[i], path[i+1]
		attrs, ok := g.EdgeAttrsOf(u, v)
		if ok && len(attrs.Geometry) >= 2 {
			points = append(points, attrs.Geometry[:len(attrs.Geometry)-1]...)
			continue
		}
		un, ok := g.Node(u)
		if !ok {
			continue
		}
		points = append(points, un.LatLon())
	}

	last, ok := g.Node(path[len(path)-1])
	if ok {
		points = append(points, last.LatLon())
	}
	return dedupConsecutive(points)
}

func dedupConsecutive(points []geo.LatLon) []geo.LatLon {
	if len(points) < 2 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if !p.Equal(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}
