// Package volume finds the volumes enclosed by a tetrahedral mesh. Identify
// labels every tetrahedron by connectivity and Split groups the labelled
// tetrahedra into domains ready to become new scene volumes.
package volume

import (
	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// Labeling is the result of Identify. It assigns a volume label to every
// tetrahedron of a mesh without modifying the mesh.
type Labeling struct {
	m      *mesh.Mesh
	labels []int
	// first label handed out by the flood fill.
	fresh int
	count int
}

// Identify labels every tetrahedron of m. Tetrahedra with a non-zero label keep
// it. Every remaining region of unlabelled tetrahedra, connected through faces
// that are not boundary, receives a new label above every existing one. Regions
// are numbered in order of their lowest tetrahedron index.
func Identify(m *mesh.Mesh) *Labeling {
	labels := m.Labels()
	maxLabel := 0
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}
	lb := &Labeling{m: m, labels: labels, fresh: maxLabel + 1}
	next := lb.fresh
	for t := range labels {
		if labels[t] != 0 {
			continue
		}
		fill(m, labels, t, next)
		next++
	}
	lb.count = countDistinct(labels)
	return lb
}

// fill assigns label to start and to every unlabelled tetrahedron reachable
// from it through non-boundary faces.
func fill(m *mesh.Mesh, labels []int, start, label int) {
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) {
			labels[n.ID()] = label
		},
		Traverse: func(e graph.Edge) bool {
			return labels[e.To().ID()] == 0
		},
	}
	bf.Walk(tetraGraph{m: m}, simple.Node(start), nil)
}

func countDistinct(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// Mesh returns the labelled mesh.
func (lb *Labeling) Mesh() *mesh.Mesh { return lb.m }

// Label returns the label of tetrahedron t.
func (lb *Labeling) Label(t int) int { return lb.labels[t] }

// Labels returns a copy of the labels of all tetrahedra.
func (lb *Labeling) Labels() []int { return append([]int(nil), lb.labels...) }

// FirstFresh returns the lowest label Identify may hand out. Labels below it
// were present in the mesh.
func (lb *Labeling) FirstFresh() int { return lb.fresh }

// Count returns the amount of distinct labels, which is the amount of volumes.
func (lb *Labeling) Count() int { return lb.count }

// Discovered reports whether label was handed out by Identify.
func (lb *Labeling) Discovered(label int) bool { return label >= lb.fresh }
