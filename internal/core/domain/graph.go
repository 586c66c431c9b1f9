package domain

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// DependencyGraph is an adjacency map over package ids. In reverse form an
// edge x -> y means "y requires x"; inverting yields the forward
// ("depends on") graph. The node universe is the key set plus every edge
// endpoint. Keys always carry hash-stripped identities.
type DependencyGraph map[PackageId]Set[PackageId]

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() DependencyGraph {
	return make(DependencyGraph)
}

// AddNode ensures the node is present in the key set, with no edges.
func (g DependencyGraph) AddNode(n PackageId) {
	if _, ok := g[n]; !ok {
		g[n] = NewSet[PackageId]()
	}
}

// AddEdge adds the edge from -> to, creating both endpoints as needed.
func (g DependencyGraph) AddEdge(from, to PackageId) {
	g.AddNode(from)
	g.AddNode(to)
	g[from].Add(to)
}

// Edges returns the outgoing edge set of a node, which is empty for nodes
// that appear only as edge endpoints.
func (g DependencyGraph) Edges(n PackageId) Set[PackageId] {
	if s, ok := g[n]; ok {
		return s
	}
	return NewSet[PackageId]()
}

// Nodes returns the node universe: the key set plus every edge endpoint.
func (g DependencyGraph) Nodes() Set[PackageId] {
	universe := make(Set[PackageId], len(g))
	for n, edges := range g {
		universe.Add(n)
		universe.AddAll(edges)
	}
	return universe
}

// Has reports whether the node belongs to the node universe.
func (g DependencyGraph) Has(n PackageId) bool {
	if _, ok := g[n]; ok {
		return true
	}
	for _, edges := range g {
		if edges.Has(n) {
			return true
		}
	}
	return false
}

// Invert returns the graph with every edge reversed. Every node of the
// universe appears as a key in the result.
func (g DependencyGraph) Invert() DependencyGraph {
	out := make(DependencyGraph, len(g))
	for n := range g.Nodes() {
		out.AddNode(n)
	}
	for from, edges := range g {
		for to := range edges {
			out.AddEdge(to, from)
		}
	}
	return out
}

// TopologicalOrder returns the nodes in an order respecting edge direction:
// for every edge x -> y, x appears before y. Ties are broken by ascending
// lexicographic order of the node's textual form, so the output is
// deterministic. Returns ErrCyclicGraph if the graph contains a cycle.
func (g DependencyGraph) TopologicalOrder() ([]PackageId, error) {
	universe := g.Nodes()
	indegree := make(map[PackageId]int, len(universe))
	for n := range universe {
		indegree[n] = 0
	}
	for _, edges := range g {
		for to := range edges {
			indegree[to]++
		}
	}

	frontier := make([]PackageId, 0, len(universe))
	for n, d := range indegree {
		if d == 0 {
			frontier = insertSorted(frontier, n)
		}
	}

	order := make([]PackageId, 0, len(universe))
	for len(frontier) > 0 {
		n := frontier[0]
		frontier = frontier[1:]
		order = append(order, n)
		for to := range g.Edges(n) {
			indegree[to]--
			if indegree[to] == 0 {
				frontier = insertSorted(frontier, to)
			}
		}
	}

	if len(order) != len(universe) {
		return nil, g.cycleError(indegree)
	}
	return order, nil
}

// insertSorted inserts the node into a slice kept in ascending lexicographic
// order of the textual form.
func insertSorted(nodes []PackageId, n PackageId) []PackageId {
	key := n.String()
	i := sort.Search(len(nodes), func(i int) bool { return nodes[i].String() >= key })
	nodes = append(nodes, PackageId{})
	copy(nodes[i+1:], nodes[i:])
	nodes[i] = n
	return nodes
}

// cycleError extracts one concrete cycle from the nodes left with unresolved
// incoming edges and attaches it as "a -> b -> a" path metadata.
func (g DependencyGraph) cycleError(indegree map[PackageId]int) error {
	remaining := NewSet[PackageId]()
	for n, d := range indegree {
		if d > 0 {
			remaining.Add(n)
		}
	}
	sorted := remaining.Sorted()

	// Every remaining node keeps an unresolved predecessor among the
	// remaining nodes, so walking predecessors must revisit a node and close
	// a cycle.
	pred := func(n PackageId) PackageId {
		for _, from := range sorted {
			if g.Edges(from).Has(n) {
				return from
			}
		}
		return n
	}

	seen := make(map[PackageId]int)
	var path []PackageId
	n := sorted[0]
	for {
		if at, ok := seen[n]; ok {
			// The walk followed edges backwards; reverse it for display.
			tail := path[at+1:]
			parts := make([]string, 0, len(tail)+2)
			parts = append(parts, n.String())
			for i := len(tail) - 1; i >= 0; i-- {
				parts = append(parts, tail[i].String())
			}
			parts = append(parts, n.String())
			return zerr.With(ErrCyclicGraph, "cycle", strings.Join(parts, " -> "))
		}
		seen[n] = len(path)
		path = append(path, n)
		n = pred(n)
	}
}

// ReachableSubgraph returns the subgraph forward-reachable from the starting
// nodes. Every visited node appears as a key, even with no outgoing edges,
// and keeps exactly its original outgoing edges. Returns ErrUnknownNode if a
// starting node is outside the node universe.
func (g DependencyGraph) ReachableSubgraph(starts ...PackageId) (DependencyGraph, error) {
	for _, s := range starts {
		if !g.Has(s) {
			return nil, zerr.With(ErrUnknownNode, "node", s.String())
		}
	}

	out := make(DependencyGraph)
	queue := make([]PackageId, len(starts))
	copy(queue, starts)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, ok := out[n]; ok {
			continue
		}
		out[n] = g.Edges(n).Clone()
		for _, to := range out[n].Sorted() {
			if _, ok := out[to]; !ok {
				queue = append(queue, to)
			}
		}
	}
	return out, nil
}
