package routing

import (
	"testing"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

func TestBuildPolylineWithGeometry(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.302, Lon: 103.80})

	geom := []geo.LatLon{
		{Lat: 1.30, Lon: 103.80}, {Lat: 1.301, Lon: 103.80}, {Lat: 1.302, Lon: 103.80},
	}
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Length: 200, Geometry: geom})

	points := BuildPolyline(g, []int64{1, 2})
	if len(points) != 3 {
		t.Fatalf("BuildPolyline len = %d, want 3", len(points))
	}
	if points[0].Lat != 1.30 || points[len(points)-1].Lat != 1.302 {
		t.Errorf("polyline endpoints = %+v", points)
	}
}

func TestBuildPolylineNoGeometryFallsBackToNodes(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.302, Lon: 103.80})
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Length: 200})

	points := BuildPolyline(g, []int64{1, 2})
	if len(points) != 2 {
		t.Fatalf("BuildPolyline len = %d, want 2", len(points))
	}
}

func TestBuildPolylineSingleNode(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})

	points := BuildPolyline(g, []int64{1})
	if len(points) != 1 {
		t.Fatalf("BuildPolyline len = %d, want 1", len(points))
	}
}

func TestBuildPolylineEmptyPath(t *testing.T) {
	g := graph.New()
	if points := BuildPolyline(g, nil); points != nil {
		t.Errorf("BuildPolyline(nil) = %v, want nil", points)
	}
}
