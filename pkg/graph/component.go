package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank, keyed by int64 node id rather than a dense index since
// graph node ids are not contiguous (canonical OSM ids plus negative
// inserted-endpoint ids).
type UnionFind struct {
	parent map[int64]int64
	rank   map[int64]byte
	size   map[int64]uint32
}

// NewUnionFind creates a UnionFind seeded with one singleton set per id.
func NewUnionFind(ids []int64) *UnionFind {
	uf := &UnionFind{
		parent: make(map[int64]int64, len(ids)),
		rank:   make(map[int64]byte, len(ids)),
		size:   make(map[int64]uint32, len(ids)),
	}
	for _, id := range ids {
		uf.parent[id] = id
		uf.size[id] = 1
	}
	return uf
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int64) int64 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int64) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node ids belonging to the largest weakly
// connected component, treating the directed multigraph as undirected.
func LargestComponent(g *Graph) []int64 {
	ids := g.Nodes()
	if len(ids) == 0 {
		return nil
	}

	uf := NewUnionFind(ids)
	for key := range g.edges {
		uf.Union(key.U, key.V)
	}

	bestRoot := ids[0]
	bestSize := uint32(0)
	for _, id := range ids {
		root := uf.Find(id)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]int64, 0, bestSize)
	for _, id := range ids {
		if uf.Find(id) == bestRoot {
			nodes = append(nodes, id)
		}
	}
	return nodes
}

// FilterToComponent returns a new graph containing only the given node ids
// and the edges between them, preserving attributes verbatim.
func FilterToComponent(g *Graph, ids []int64) *Graph {
	out := New()
	keep := make(map[int64]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		_ = out.AddNode(*n)
	}
	for key, attrs := range g.edges {
		if keep[key.U] && keep[key.V] {
			_ = out.AddEdge(key.U, key.V, key.K, *attrs)
		}
	}
	return out
}
