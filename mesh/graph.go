package mesh

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// NodeGraph returns the node adjacency as an undirected graph. Node adjacency
// must have been computed.
func NodeGraph(m *Mesh) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, n := range m.nodes {
		g.AddNode(simple.Node(n.id))
	}
	for _, n := range m.nodes {
		for _, c := range n.connected {
			if c > n.id {
				g.SetEdge(g.NewEdge(simple.Node(n.id), simple.Node(c)))
			}
		}
	}
	return g
}

// ElementGraph returns the dual graph: one graph node per element and one edge
// per shared face.
func ElementGraph(m *Mesh) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, e := range m.elements {
		g.AddNode(simple.Node(e.id))
	}
	for _, e := range m.elements {
		for _, nb := range e.neighbors {
			if nb > e.id {
				g.SetEdge(g.NewEdge(simple.Node(e.id), simple.Node(nb)))
			}
		}
	}
	return g
}

// ConnectedComponents groups element IDs by face connectivity. Each component is
// sorted and components are ordered by their smallest element ID.
func ConnectedComponents(m *Mesh) [][]int {
	cc := topo.ConnectedComponents(ElementGraph(m))
	out := make([][]int, len(cc))
	for i, c := range cc {
		out[i] = graphNodeIDs(c)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

func graphNodeIDs(nodes []graph.Node) []int {
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = int(n.ID())
	}
	slices.Sort(ids)
	return ids
}
