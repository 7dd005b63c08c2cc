package render

import (
	"fmt"

	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a triangle in 3D space.
type Triangle [3]r3.Vec

// Normal returns the unit normal of the triangle following the right hand rule.
func (t Triangle) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two vertices of the triangle are within tol.
func (t Triangle) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t[0], t[1])) <= tol ||
		r3.Norm(r3.Sub(t[1], t[2])) <= tol ||
		r3.Norm(r3.Sub(t[2], t[0])) <= tol
}

// Faces returns the triangles of the faces of m with the argument ids. Each
// triangle is oriented so its normal points away from the adjacent
// tetrahedron for which inside returns true. A nil inside picks the first
// tetrahedron sharing the face.
func Faces(m *mesh.Mesh, faces []int, inside func(tetra int) bool) ([]Triangle, error) {
	model := make([]Triangle, 0, len(faces))
	for _, f := range faces {
		if f < 0 || f >= m.NumFaces() {
			return nil, fmt.Errorf("face %d out of range [0,%d)", f, m.NumFaces())
		}
		fc := m.Face(f)
		tri := Triangle{m.Node(fc.Nodes[0]), m.Node(fc.Nodes[1]), m.Node(fc.Nodes[2])}
		owners := m.FaceTetras(f)
		owner := owners[0]
		if inside != nil && !inside(owner) && owners[1] >= 0 {
			owner = owners[1]
		}
		if r3.Dot(tri.Normal(), r3.Sub(tri[0], m.Centroid(owner))) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		model = append(model, tri)
	}
	return model, nil
}
