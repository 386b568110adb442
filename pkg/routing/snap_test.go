package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

func singleEdgeGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.30, Lon: 103.802})
	length := geo.LatLon{Lat: 1.30, Lon: 103.80}.DistanceTo(geo.LatLon{Lat: 1.30, Lon: 103.802})
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Length: length, Highway: "residential"})
	_ = g.AddEdge(2, 1, 0, graph.EdgeAttrs{Length: length, Highway: "residential"})
	graph.BuildIndex(g)
	return g
}

func TestSnapperInsertsNegativeID(t *testing.T) {
	g := singleEdgeGraph(t)
	snapper := NewSnapper(g)

	id, err := snapper.Snap(geo.LatLon{Lat: 1.30, Lon: 103.801})
	require.NoError(t, err)
	assert.Negative(t, id)
	assert.True(t, g.HasNode(id))
}

func TestSnapperReusesExactEndpoint(t *testing.T) {
	g := singleEdgeGraph(t)
	snapper := NewSnapper(g)

	id, err := snapper.Snap(geo.LatLon{Lat: 1.30, Lon: 103.80})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestSnapperNoNearbyEdge(t *testing.T) {
	g := singleEdgeGraph(t)
	snapper := NewSnapper(g)

	_, err := snapper.Snap(geo.LatLon{Lat: -40, Lon: 10})
	require.Error(t, err)
	routingErr, ok := err.(*Error)
	require.True(t, ok, "error = %T, want *Error", err)
	assert.Equal(t, ClassNoRoute, routingErr.Class)
}

func TestSnapperSequentialIDsDecrement(t *testing.T) {
	g := singleEdgeGraph(t)
	snapper := NewSnapper(g)

	first, err := snapper.Snap(geo.LatLon{Lat: 1.30, Lon: 103.8005})
	require.NoError(t, err)
	second, err := snapper.Snap(geo.LatLon{Lat: 1.30, Lon: 103.8015})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Negative(t, first)
	assert.Negative(t, second)
}
