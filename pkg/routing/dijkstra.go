package routing

import (
	"container/heap"

	"github.com/saferide/bikerouter/pkg/graph"
)

// heapItem is one entry in the Dijkstra priority queue.
type heapItem struct {
	node  int64
	dist  float64
	index int
}

type minHeap []*heapItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *minHeap) Push(x any) {
	item := x.(*heapItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// DijkstraResult holds the outcome of a shortest-path query.
type DijkstraResult struct {
	Path  []int64 // node ids from origin to destination, inclusive; nil if unreachable
	Dist  float64 // total length in meters
	Found bool
}

// Dijkstra computes the length-weighted shortest path from origin to
// destination over g, using EdgeAttrs.Length as edge weight.
func Dijkstra(g *graph.Graph, origin, destination int64) DijkstraResult {
	if origin == destination {
		return DijkstraResult{Path: []int64{origin}, Dist: 0, Found: true}
	}

	dist := map[int64]float64{origin: 0}
	prev := map[int64]int64{}
	visited := map[int64]bool{}

	h := &minHeap{{node: origin, dist: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		cur := heap.Pop(h).(*heapItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		if cur.node == destination {
			return DijkstraResult{Path: reconstructPath(prev, origin, destination), Dist: cur.dist, Found: true}
		}

		for _, v := range g.Neighbors(cur.node) {
			if visited[v] {
				continue
			}
			attrs, ok := g.EdgeAttrsOf(cur.node, v)
			if !ok {
				continue
			}
			nd := cur.dist + attrs.Length
			if existing, ok := dist[v]; !ok || nd < existing {
				dist[v] = nd
				prev[v] = cur.node
				heap.Push(h, &heapItem{node: v, dist: nd})
			}
		}
	}

	return DijkstraResult{Found: false}
}

func reconstructPath(prev map[int64]int64, origin, destination int64) []int64 {
	var path []int64
	for n := destination; ; {
		path = append(path, n)
		if n == origin {
			break
		}
		p, ok := prev[n]
		if !ok {
			break
		}
		n = p
	}
	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLength returns the step-tolerance reference for the planner: the
// node count of the shortest path between origin and destination (0 if
// unreachable).
func PathLength(g *graph.Graph, origin, destination int64) int {
	res := Dijkstra(g, origin, destination)
	if !res.Found {
		return 0
	}
	return len(res.Path)
}
