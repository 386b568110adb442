package planner

import (
	"testing"

	"github.com/saferide/bikerouter/pkg/graph"
)

// straightLineGraph builds 5 collinear nodes A(1)-B(2)-C(3)-D(4)-E(5), each
// edge 100m apart along a meridian, bidirectional.
func straightLineGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	lats := []float64{1.30, 1.30090, 1.30180, 1.30270, 1.30360} // ~100m apart
	for i, lat := range lats {
		if err := g.AddNode(graph.Node{ID: int64(i + 1), Lat: lat, Lon: 103.80}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	for i := 1; i < len(lats); i++ {
		u, v := int64(i), int64(i+1)
		un, _ := g.Node(u)
		vn, _ := g.Node(v)
		length := un.LatLon().DistanceTo(vn.LatLon())
		attrs := graph.EdgeAttrs{Length: length, Highway: "residential"}
		_ = g.AddEdge(u, v, 0, attrs)
		_ = g.AddEdge(v, u, 0, attrs)
	}
	return g
}

func TestEnvArrivesOnStraightLine(t *testing.T) {
	g := straightLineGraph(t)
	env := NewEnv(g, nil, 1, 5, 5)

	for !env.Terminated() {
		cur := env.Path()[len(env.Path())-1]
		neighbors := g.Neighbors(cur)
		action := -1
		for i, n := range neighbors {
			if n == cur+1 {
				action = i
				break
			}
		}
		if action < 0 {
			t.Fatalf("no forward neighbor found from node %d", cur)
		}
		result := env.Step(action)
		if result.Terminated {
			break
		}
	}

	if env.TerminationCode() != "arrived" {
		path := env.Path()
		t.Fatalf("TerminationCode = %q, path = %v, want arrived", env.TerminationCode(), path)
	}
	path := env.Path()
	if len(path) != 5 || path[0] != 1 || path[len(path)-1] != 5 {
		t.Errorf("Path = %v, want [1 2 3 4 5]", path)
	}
}

func TestEnvOriginEqualsDestination(t *testing.T) {
	g := straightLineGraph(t)
	env := NewEnv(g, nil, 1, 1, 1)
	if !env.Terminated() || env.TerminationCode() != "arrived" {
		t.Fatalf("single-node leg should terminate arrived immediately, got %q", env.TerminationCode())
	}
	if len(env.Path()) != 1 {
		t.Errorf("Path length = %d, want 1", len(env.Path()))
	}
}

func TestEnvInvalidActionTerminates(t *testing.T) {
	g := straightLineGraph(t)
	env := NewEnv(g, nil, 1, 5, 5)
	result := env.Step(7) // node 1 has only 1 neighbor; action 7 is invalid
	if !result.Terminated || result.TerminationCode != "invalid_action" {
		t.Fatalf("Step(7) = %+v, want invalid_action termination", result)
	}
	if result.Reward != rewardInvalidAction {
		t.Errorf("reward = %f, want %f", result.Reward, rewardInvalidAction)
	}
}

func TestEnvRevisitingTerminates(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.301, Lon: 103.80})
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Length: 100})
	_ = g.AddEdge(2, 1, 0, graph.EdgeAttrs{Length: 100})

	env := NewEnv(g, nil, 1, 99, 1) // unreachable destination forces a cycle
	env.Step(0)                    // 1 -> 2
	result := env.Step(0)          // 2 -> 1, revisits origin
	if !result.Terminated || result.TerminationCode != "revisiting" {
		t.Fatalf("Step result = %+v, want revisiting termination", result)
	}
}

func TestForceArriveSplicesTail(t *testing.T) {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: 1, Lat: 1.30, Lon: 103.80})
	_ = g.AddNode(graph.Node{ID: 2, Lat: 1.301, Lon: 103.80})
	_ = g.AddEdge(1, 2, 0, graph.EdgeAttrs{Length: 100})
	_ = g.AddEdge(2, 1, 0, graph.EdgeAttrs{Length: 100})

	env := NewEnv(g, nil, 1, 99, 1)
	env.Step(0)
	env.Step(0) // revisiting

	final := env.ForceArrive([]int64{1, 99})
	if env.TerminationCode() != "arrived" {
		t.Errorf("TerminationCode after ForceArrive = %q, want arrived", env.TerminationCode())
	}
	if final[len(final)-1] != 99 {
		t.Errorf("final path = %v, want to end at 99", final)
	}
}
