// Package lattice generates body centred cubic tetrahedral meshes of a box.
// Inspired by Tetrahedral Mesh Generation for Deformable Bodies
// Molino, Bridson, Fedkiw.
package lattice

import (
	"errors"
	"math"

	"github.com/soypat/tetvol/internal/d3"
	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Lattice is a BCC tetrahedral mesh. Every tetrahedron joins the centers of two
// face-adjacent cells with one edge of the square they share.
type Lattice struct {
	Nodes  []r3.Vec
	Tetras [][4]int
	// Cells holds the two cells joined by each tetrahedron.
	Cells [][2]int

	div [3]int
	min r3.Vec
	res float64
}

// BCC meshes box b with cubic cells of side resolution. The box is rounded up
// to a whole amount of cells, at least two per axis.
func BCC(b r3.Box, resolution float64) (*Lattice, error) {
	if resolution <= 0 {
		return nil, errors.New("resolution must be positive")
	}
	sz := d3.Box(b).Size()
	div := [3]int{
		int(math.Ceil(sz.X / resolution)),
		int(math.Ceil(sz.Y / resolution)),
		int(math.Ceil(sz.Z / resolution)),
	}
	if div[0] < 2 || div[1] < 2 || div[2] < 2 {
		return nil, errors.New("resolution too low")
	}
	l := &Lattice{div: div, min: b.Min, res: resolution}
	for i := 0; i <= div[0]; i++ {
		for j := 0; j <= div[1]; j++ {
			for k := 0; k <= div[2]; k++ {
				l.Nodes = append(l.Nodes, l.at(float64(i), float64(j), float64(k)))
			}
		}
	}
	l.foreach(func(i, j, k int) {
		l.Nodes = append(l.Nodes, l.at(float64(i)+0.5, float64(j)+0.5, float64(k)+0.5))
	})
	l.foreach(func(i, j, k int) {
		// Mesh tetrahedra on minor sides only so each shared square is used once.
		c := l.cell(i, j, k)
		if k > 0 {
			l.join(c, l.cell(i, j, k-1), [4]int{
				l.corner(i, j, k), l.corner(i+1, j, k), l.corner(i+1, j+1, k), l.corner(i, j+1, k),
			})
		}
		if j > 0 {
			l.join(c, l.cell(i, j-1, k), [4]int{
				l.corner(i+1, j, k), l.corner(i, j, k), l.corner(i, j, k+1), l.corner(i+1, j, k+1),
			})
		}
		if i > 0 {
			l.join(c, l.cell(i-1, j, k), [4]int{
				l.corner(i, j, k), l.corner(i, j+1, k), l.corner(i, j+1, k+1), l.corner(i, j, k+1),
			})
		}
	})
	return l, nil
}

// Div returns the amount of cells along each axis.
func (l *Lattice) Div() [3]int { return l.div }

// CellCenter returns the position of the center of cell c.
func (l *Lattice) CellCenter(c int) r3.Vec {
	return l.Nodes[l.centerNode(c)]
}

func (l *Lattice) join(c, other int, square [4]int) {
	nc, no := l.centerNode(c), l.centerNode(other)
	for s := 0; s < 4; s++ {
		l.Tetras = append(l.Tetras, [4]int{nc, square[s], square[(s+1)%4], no})
		l.Cells = append(l.Cells, [2]int{c, other})
	}
}

func (l *Lattice) at(i, j, k float64) r3.Vec {
	return r3.Add(l.min, r3.Scale(l.res, r3.Vec{X: i, Y: j, Z: k}))
}

func (l *Lattice) corner(i, j, k int) int {
	return i*(l.div[1]+1)*(l.div[2]+1) + j*(l.div[2]+1) + k
}

func (l *Lattice) cell(i, j, k int) int {
	return i*l.div[1]*l.div[2] + j*l.div[2] + k
}

func (l *Lattice) centerNode(c int) int {
	return (l.div[0]+1)*(l.div[1]+1)*(l.div[2]+1) + c
}

func (l *Lattice) foreach(f func(i, j, k int)) {
	for i := 0; i < l.div[0]; i++ {
		for j := 0; j < l.div[1]; j++ {
			for k := 0; k < l.div[2]; k++ {
				f(i, j, k)
			}
		}
	}
}

// Scene is mesh input for a room with an embedded object, as a tessellator
// would hand it over.
type Scene struct {
	Nodes  []r3.Vec
	Tetras []mesh.Tetra
	Faces  []mesh.Face
	// Object is set for tetrahedra that lie inside the object.
	Object []bool
	// Hull is the amount of leading faces on the hull. The rest wrap the object.
	Hull int
}

// Mesh builds the scene mesh.
func (s Scene) Mesh() (*mesh.Mesh, error) {
	return mesh.New(s.Nodes, s.Tetras, s.Faces)
}

// Room converts the lattice into a room containing an object. A tetrahedron
// belongs to the object when both of its cell centers satisfy inside. The hull
// of the lattice is listed as boundary faces. The faces between object and
// room are listed after the hull and are boundary only when wall is set.
// Object tetrahedra get objectLabel. Listed faces are numbered in order.
func (l *Lattice) Room(inside func(r3.Vec) bool, wall bool, objectLabel int) (Scene, error) {
	s := Scene{
		Nodes:  l.Nodes,
		Tetras: make([]mesh.Tetra, len(l.Tetras)),
		Object: make([]bool, len(l.Tetras)),
	}
	for t, tet := range l.Tetras {
		cells := l.Cells[t]
		s.Object[t] = inside != nil && inside(l.CellCenter(cells[0])) && inside(l.CellCenter(cells[1]))
		s.Tetras[t].Nodes = tet
		if s.Object[t] {
			s.Tetras[t].Label = objectLabel
		}
	}
	for _, f := range mesh.Hull(s.Tetras) {
		s.Faces = append(s.Faces, mesh.Face{Nodes: f, Boundary: true, Index: len(s.Faces)})
	}
	s.Hull = len(s.Faces)
	m, err := mesh.New(s.Nodes, s.Tetras, nil)
	if err != nil {
		return Scene{}, err
	}
	for f := 0; f < m.NumFaces(); f++ {
		owners := m.FaceTetras(f)
		if owners[1] < 0 || s.Object[owners[0]] == s.Object[owners[1]] {
			continue
		}
		s.Faces = append(s.Faces, mesh.Face{Nodes: m.Face(f).Nodes, Boundary: wall, Index: len(s.Faces)})
	}
	return s, nil
}

// Wrap returns the positions in s.Faces of the faces between object and room.
func (s Scene) Wrap() []int {
	wrap := make([]int, 0, len(s.Faces)-s.Hull)
	for i := s.Hull; i < len(s.Faces); i++ {
		wrap = append(wrap, i)
	}
	return wrap
}
