package routing

import (
	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

// Snapper inserts free coordinates into a per-request graph copy, assigning
// each a negative node id so it can never collide with a canonical
// (non-negative) OSM node id.
type Snapper struct {
	g      *graph.Graph
	nextID int64
}

// NewSnapper returns a Snapper that inserts nodes into g, starting ids at -1.
func NewSnapper(g *graph.Graph) *Snapper {
	return &Snapper{g: g, nextID: -1}
}

// Snap finds the nearest edge to target and inserts a node there, returning
// its id. If target coincides exactly with an existing node, that node's id
// is returned and no mutation occurs.
func (s *Snapper) Snap(target geo.LatLon) (int64, error) {
	nearest, ok := s.g.NearestEdge(target)
	if !ok {
		return 0, NewNoRouteError("no street edge found near the requested coordinate", nil)
	}

	id := s.nextID
	res, err := s.g.InsertOnEdge(nearest.U, nearest.V, nearest.Key, nearest.Point, id)
	if err != nil {
		return 0, NewGraphInvariantError("endpoint insertion failed", err)
	}
	if !res.Existing {
		s.nextID--
	}
	return res.NodeID, nil
}
