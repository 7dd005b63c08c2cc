package volume

import (
	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
)

// tetraGraph is a graph view of a mesh. Nodes are tetrahedra and edges are
// the non-boundary faces shared by two tetrahedra.
type tetraGraph struct {
	m *mesh.Mesh
}

// passage is an edge of tetraGraph.
type passage struct {
	from, to int
	face     int
}

func (p passage) From() graph.Node { return simple.Node(p.from) }

func (p passage) To() graph.Node { return simple.Node(p.to) }

func (p passage) ReversedEdge() graph.Edge {
	return passage{from: p.to, to: p.from, face: p.face}
}

// From returns the tetrahedra reachable from tetrahedron id in local face order.
func (g tetraGraph) From(id int64) graph.Nodes {
	t := int(id)
	nodes := make([]graph.Node, 0, 4)
	for k := 0; k < 4; k++ {
		if _, ok := g.passage(t, k); ok {
			nb, _ := g.m.Neighbor(t, k)
			nodes = append(nodes, simple.Node(nb))
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// Edge returns the passage between tetrahedra x and y or nil.
func (g tetraGraph) Edge(x, y int64) graph.Edge {
	t := int(x)
	for k := 0; k < 4; k++ {
		p, ok := g.passage(t, k)
		if ok && p.to == int(y) {
			return p
		}
	}
	return nil
}

func (g tetraGraph) passage(t, k int) (passage, bool) {
	nb, f := g.m.Neighbor(t, k)
	if nb < 0 || g.m.Face(f).Boundary {
		return passage{}, false
	}
	return passage{from: t, to: nb, face: f}, true
}
