package graph

import (
	"testing"

	"github.com/saferide/bikerouter/pkg/geo"
)

func straightLineGraph(t *testing.T, oneWay bool) *Graph {
	t.Helper()
	g := New()
	a := Node{ID: 1, Lat: 1.30, Lon: 103.80}
	b := Node{ID: 2, Lat: 1.31, Lon: 103.80}
	for _, n := range []Node{a, b} {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	attrs := EdgeAttrs{Length: a.LatLon().DistanceTo(b.LatLon()), Highway: "residential", OneWay: oneWay}
	if err := g.AddEdge(1, 2, 0, attrs); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if !oneWay {
		rev := attrs
		if err := g.AddEdge(2, 1, 0, rev); err != nil {
			t.Fatalf("AddEdge reverse: %v", err)
		}
	}
	return g
}

func TestInsertOnEdgeSplitsOneWay(t *testing.T) {
	g := straightLineGraph(t, true)
	mid := geo.LatLon{Lat: 1.305, Lon: 103.80}

	res, err := g.InsertOnEdge(1, 2, 0, mid, -1)
	if err != nil {
		t.Fatalf("InsertOnEdge: %v", err)
	}
	if res.Existing {
		t.Fatalf("InsertOnEdge reported Existing for a genuine mid-segment point")
	}
	if res.NodeID != -1 {
		t.Fatalf("NodeID = %d, want -1", res.NodeID)
	}
	if !g.HasNode(-1) {
		t.Fatalf("new node -1 missing from graph")
	}

	if _, ok := g.EdgeAttrsOf(1, 2); ok {
		t.Fatalf("original edge (1,2) should have been removed")
	}
	if _, ok := g.EdgeAttrsOf(1, -1); !ok {
		t.Fatalf("missing split edge (1,-1)")
	}
	if _, ok := g.EdgeAttrsOf(-1, 2); !ok {
		t.Fatalf("missing split edge (-1,2)")
	}
	// One-way: no reverse edges should have been created through the new node.
	if _, ok := g.EdgeAttrsOf(-1, 1); ok {
		t.Fatalf("unexpected reverse edge (-1,1) on a one-way split")
	}
}

func TestInsertOnEdgeSplitsBidirectional(t *testing.T) {
	g := straightLineGraph(t, false)
	mid := geo.LatLon{Lat: 1.305, Lon: 103.80}

	if _, err := g.InsertOnEdge(1, 2, 0, mid, -1); err != nil {
		t.Fatalf("InsertOnEdge: %v", err)
	}

	for _, pair := range [][2]int64{{1, -1}, {-1, 2}, {2, -1}, {-1, 1}} {
		if _, ok := g.EdgeAttrsOf(pair[0], pair[1]); !ok {
			t.Errorf("missing expected edge (%d,%d)", pair[0], pair[1])
		}
	}
	if _, ok := g.EdgeAttrsOf(1, 2); ok {
		t.Errorf("original edge (1,2) should have been removed")
	}
	if _, ok := g.EdgeAttrsOf(2, 1); ok {
		t.Errorf("original reverse edge (2,1) should have been removed")
	}
}

func TestInsertOnEdgeLengthsSumToOriginal(t *testing.T) {
	g := straightLineGraph(t, true)
	total := 0.0
	if attrs, ok := g.EdgeAttrsOf(1, 2); ok {
		total = attrs.Length
	}
	mid := geo.LatLon{Lat: 1.304, Lon: 103.80}
	if _, err := g.InsertOnEdge(1, 2, 0, mid, -1); err != nil {
		t.Fatalf("InsertOnEdge: %v", err)
	}
	a, _ := g.EdgeAttrsOf(1, -1)
	b, _ := g.EdgeAttrsOf(-1, 2)
	sum := a.Length + b.Length
	if diff := sum - total; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("split lengths sum to %f, want %f", sum, total)
	}
}

func TestInsertOnEdgeExactEndpointReusesNode(t *testing.T) {
	g := straightLineGraph(t, true)
	start, _ := g.Node(1)

	res, err := g.InsertOnEdge(1, 2, 0, start.LatLon(), -1)
	if err != nil {
		t.Fatalf("InsertOnEdge: %v", err)
	}
	if !res.Existing || res.NodeID != 1 {
		t.Fatalf("InsertOnEdge at exact endpoint = %+v, want Existing node 1", res)
	}
	if g.NumEdges() != 1 {
		t.Fatalf("NumEdges = %d, want 1 (no split should have happened)", g.NumEdges())
	}
}
