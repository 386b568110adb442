package routing

import (
	"testing"

	"github.com/saferide/bikerouter/pkg/graph"
)

func TestBuildDirectionsGroupsSameStreet(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.301, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 3, Lat: 1.302, Lon: 103.80})

	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Name: "Main St", Bearing: 0})
	_ = g.AddEdge(2, 3, 0, graph.EdgeAttrs{Name: "Main St", Bearing: 0})

	dirs := BuildDirections(g, []int64{1, 2, 3})
	if len(dirs) != 2 {
		t.Fatalf("BuildDirections len = %d, want 2 (one grouped + arrive)", len(dirs))
	}
	if dirs[0].StreetName != "Main St" {
		t.Errorf("StreetName = %q, want Main St", dirs[0].StreetName)
	}
	if len(dirs[0].CoveredEdgesIndexes) != 2 {
		t.Errorf("CoveredEdgesIndexes = %v, want 2 entries", dirs[0].CoveredEdgesIndexes)
	}
	if dirs[1].EndingAction != "arrive" {
		t.Errorf("final direction = %q, want arrive", dirs[1].EndingAction)
	}
}

func TestBuildDirectionsSplitsOnNameChange(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.301, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 3, Lat: 1.302, Lon: 103.80})

	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Name: "Main St", Bearing: 0})
	_ = g.AddEdge(2, 3, 0, graph.EdgeAttrs{Name: "Side St", Bearing: 0})

	dirs := BuildDirections(g, []int64{1, 2, 3})
	if len(dirs) != 3 {
		t.Fatalf("BuildDirections len = %d, want 3 (two legs + arrive)", len(dirs))
	}
	if dirs[0].StreetName != "Main St" || dirs[1].StreetName != "Side St" {
		t.Errorf("names = %q, %q", dirs[0].StreetName, dirs[1].StreetName)
	}
}

func TestBuildDirectionsEndingActionIsTheBoundaryTurn(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.301, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 3, Lat: 1.302, Lon: 103.80})

	// Main St runs north (bearing 0); Side St turns east (bearing 90) at
	// the node-2 boundary. The only real turn is at the end of Main St.
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Name: "Main St", Bearing: 0})
	_ = g.AddEdge(2, 3, 0, graph.EdgeAttrs{Name: "Side St", Bearing: 90})

	dirs := BuildDirections(g, []int64{1, 2, 3})
	if len(dirs) != 3 {
		t.Fatalf("BuildDirections len = %d, want 3 (two legs + arrive)", len(dirs))
	}
	if dirs[0].StreetName != "Main St" || dirs[0].EndingAction != "turn_right" {
		t.Errorf("dirs[0] = %+v, want Main St ending in turn_right", dirs[0])
	}
	if dirs[1].StreetName != "Side St" || dirs[1].EndingAction != "continue" {
		t.Errorf("dirs[1] = %+v, want Side St ending in continue", dirs[1])
	}
	if dirs[2].EndingAction != "arrive" {
		t.Errorf("dirs[2].EndingAction = %q, want arrive", dirs[2].EndingAction)
	}
}

func TestClassifyTurn(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{0, "continue"},
		{45, "turn_right"},
		{-45, "turn_left"},
		{170, "turn_right"},
		{-170, "turn_left"},
	}
	for _, tt := range tests {
		if got := classifyTurn(tt.angle); got != tt.want {
			t.Errorf("classifyTurn(%f) = %q, want %q", tt.angle, got, tt.want)
		}
	}
}

func TestBuildDirectionsSingleNode(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})

	dirs := BuildDirections(g, []int64{1})
	if len(dirs) != 1 || dirs[0].EndingAction != "arrive" {
		t.Fatalf("BuildDirections(single) = %+v, want one arrive direction", dirs)
	}
}
