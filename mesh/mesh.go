// Package mesh holds the tetrahedral mesh model: node coordinates,
// tetrahedra with their volume labels and the face table that connects
// neighbouring tetrahedra. A Mesh is immutable once built with New.
package mesh

import (
	"github.com/soypat/tetvol/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tetra is a tetrahedron defined by four node indices. Label is the volume
// the tetrahedron belongs to. Zero means no volume was assigned.
type Tetra struct {
	Nodes [4]int
	Label int
}

// Face is a triangle of the mesh.
type Face struct {
	Nodes [3]int
	// Boundary is set for faces that were part of the surface handed to the
	// tessellator. Volumes never extend across them.
	Boundary bool
	// Index is the 0-based position of the face in the boundary export, or -1.
	Index int
}

// localFaces lists the nodes of local face k of a tetrahedron. Face k is
// opposite to node k.
var localFaces = [4][3]int{
	{1, 2, 3},
	{0, 2, 3},
	{0, 1, 3},
	{0, 1, 2},
}

type faceKey [3]int

func keyOf(a, b, c int) faceKey {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return faceKey{a, b, c}
}

// Mesh is a tetrahedral mesh with precomputed face adjacency.
type Mesh struct {
	nodes  []r3.Vec
	tetras []Tetra
	faces  []Face
	// tetFaces[t][k] is the face id of local face k of tetrahedron t.
	tetFaces [][4]int
	// faceTets[f] are the tetrahedra sharing face f. Second entry is -1 on the hull.
	faceTets [][2]int
}

// New builds a mesh. The supplied faces keep their position in the face table
// and carry the boundary flags; every other tetrahedron face is appended as a
// non-boundary face with Index -1. The slices are copied.
func New(nodes []r3.Vec, tetras []Tetra, faces []Face) (*Mesh, error) {
	m := &Mesh{
		nodes:    append([]r3.Vec(nil), nodes...),
		tetras:   append([]Tetra(nil), tetras...),
		faces:    make([]Face, 0, len(faces)+2*len(tetras)),
		tetFaces: make([][4]int, len(tetras)),
	}
	nn := len(nodes)
	lookup := make(map[faceKey]int, len(faces)+2*len(tetras))
	for i, f := range faces {
		for _, n := range f.Nodes {
			if n < 0 || n >= nn {
				return nil, malformed("face", i, "node index %d out of range [0,%d)", n, nn)
			}
		}
		k := keyOf(f.Nodes[0], f.Nodes[1], f.Nodes[2])
		if k[0] == k[1] || k[1] == k[2] {
			return nil, malformed("face", i, "repeated node in %v", f.Nodes)
		}
		if prev, ok := lookup[k]; ok {
			return nil, malformed("face", i, "duplicate of face %d", prev)
		}
		lookup[k] = i
		m.faces = append(m.faces, f)
	}
	m.faceTets = make([][2]int, len(faces), cap(m.faces))
	for i := range m.faceTets {
		m.faceTets[i] = [2]int{-1, -1}
	}

	for t, tet := range tetras {
		if tet.Label < 0 {
			return nil, malformed("tetra", t, "negative label %d", tet.Label)
		}
		for j, n := range tet.Nodes {
			if n < 0 || n >= nn {
				return nil, malformed("tetra", t, "node index %d out of range [0,%d)", n, nn)
			}
			for _, other := range tet.Nodes[j+1:] {
				if n == other {
					return nil, malformed("tetra", t, "repeated node %d", n)
				}
			}
		}
		for k, lf := range localFaces {
			key := keyOf(tet.Nodes[lf[0]], tet.Nodes[lf[1]], tet.Nodes[lf[2]])
			f, ok := lookup[key]
			if !ok {
				f = len(m.faces)
				lookup[key] = f
				m.faces = append(m.faces, Face{Nodes: [3]int{key[0], key[1], key[2]}, Index: -1})
				m.faceTets = append(m.faceTets, [2]int{-1, -1})
			}
			owners := &m.faceTets[f]
			switch {
			case owners[0] < 0:
				owners[0] = t
			case owners[1] < 0:
				owners[1] = t
			default:
				return nil, malformed("tetra", t, "face %v already shared by tetrahedra %d and %d", key, owners[0], owners[1])
			}
			m.tetFaces[t][k] = f
		}
	}
	for i := range faces {
		if m.faceTets[i][0] < 0 {
			return nil, malformed("face", i, "not a face of any tetrahedron")
		}
	}
	return m, nil
}

// NumNodes returns the amount of nodes in the mesh.
func (m *Mesh) NumNodes() int { return len(m.nodes) }

// NumTetras returns the amount of tetrahedra in the mesh.
func (m *Mesh) NumTetras() int { return len(m.tetras) }

// NumFaces returns the size of the face table, supplied and derived faces.
func (m *Mesh) NumFaces() int { return len(m.faces) }

func (m *Mesh) Node(i int) r3.Vec { return m.nodes[i] }

func (m *Mesh) Tetra(t int) Tetra { return m.tetras[t] }

func (m *Mesh) Face(f int) Face { return m.faces[f] }

// TetraFaces returns the face ids of tetrahedron t. Entry k is the face
// opposite to node k.
func (m *Mesh) TetraFaces(t int) [4]int { return m.tetFaces[t] }

// FaceTetras returns the tetrahedra that share face f. The second
// entry is -1 when f lies on the hull of the mesh.
func (m *Mesh) FaceTetras(f int) [2]int { return m.faceTets[f] }

// Neighbor returns the tetrahedron across local face k of tetrahedron t
// and the id of the shared face. The tetrahedron is -1 on the hull.
func (m *Mesh) Neighbor(t, k int) (tetra, face int) {
	face = m.tetFaces[t][k]
	owners := m.faceTets[face]
	if owners[0] == t {
		return owners[1], face
	}
	return owners[0], face
}

// Centroid returns the arithmetic mean of the four nodes of tetrahedron t.
func (m *Mesh) Centroid(t int) r3.Vec {
	n := m.tetras[t].Nodes
	return d3.Mean(m.nodes[n[0]], m.nodes[n[1]], m.nodes[n[2]], m.nodes[n[3]])
}

// Contains reports whether p lies inside tetrahedron t or on its surface.
// Degenerate tetrahedra contain no point.
func (m *Mesh) Contains(t int, p r3.Vec) bool {
	const tol = 1e-9
	n := m.tetras[t].Nodes
	a, b, c, d := m.nodes[n[0]], m.nodes[n[1]], m.nodes[n[2]], m.nodes[n[3]]
	vol := orient(a, b, c, d)
	if vol == 0 {
		return false
	}
	// Barycentric coordinates of p.
	for _, v := range [4]float64{orient(p, b, c, d), orient(a, p, c, d), orient(a, b, p, d), orient(a, b, c, p)} {
		if v/vol < -tol {
			return false
		}
	}
	return true
}

// orient returns six times the signed volume of tetrahedron abcd.
func orient(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))
}

// Bounds returns the bounding box of the mesh nodes.
func (m *Mesh) Bounds() r3.Box {
	if len(m.nodes) == 0 {
		return r3.Box{}
	}
	bb := d3.Box{Min: m.nodes[0], Max: m.nodes[0]}
	for _, n := range m.nodes[1:] {
		bb = bb.Include(n)
	}
	return r3.Box(bb)
}

// Labels returns the input label of every tetrahedron.
func (m *Mesh) Labels() []int {
	labels := make([]int, len(m.tetras))
	for i := range m.tetras {
		labels[i] = m.tetras[i].Label
	}
	return labels
}

// WithLabels returns a mesh sharing the topology of m with tetrahedron labels
// replaced by labels.
func (m *Mesh) WithLabels(labels []int) (*Mesh, error) {
	if len(labels) != len(m.tetras) {
		return nil, malformed("tetra", len(labels), "got %d labels for %d tetrahedra", len(labels), len(m.tetras))
	}
	cp := *m
	cp.tetras = make([]Tetra, len(m.tetras))
	for i, l := range labels {
		if l < 0 {
			return nil, malformed("tetra", i, "negative label %d", l)
		}
		cp.tetras[i] = Tetra{Nodes: m.tetras[i].Nodes, Label: l}
	}
	return &cp, nil
}

// Hull returns the faces owned by exactly one tetrahedron in order of first
// appearance. Node order follows the owning tetrahedron's local face.
func Hull(tetras []Tetra) [][3]int {
	count := make(map[faceKey]int, 2*len(tetras))
	for _, tet := range tetras {
		for _, lf := range localFaces {
			count[keyOf(tet.Nodes[lf[0]], tet.Nodes[lf[1]], tet.Nodes[lf[2]])]++
		}
	}
	var hull [][3]int
	for _, tet := range tetras {
		for _, lf := range localFaces {
			a, b, c := tet.Nodes[lf[0]], tet.Nodes[lf[1]], tet.Nodes[lf[2]]
			if count[keyOf(a, b, c)] == 1 {
				hull = append(hull, [3]int{a, b, c})
			}
		}
	}
	return hull
}
