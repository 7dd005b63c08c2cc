package lattice

import (
	"math"
	"testing"

	"github.com/soypat/tetvol/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func tetraVolume(a, b, c, d r3.Vec) float64 {
	return math.Abs(r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))) / 6
}

func TestBCC(t *testing.T) {
	l, err := BCC(r3.Box{Max: d3.Elem(2)}, 1)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 2, 2}, l.Div())
	assert.Len(t, l.Nodes, 27+8)
	// 12 pairs of face-adjacent cells, 4 tetrahedra each.
	require.Len(t, l.Tetras, 48)
	assert.Len(t, l.Cells, 48)

	var vol float64
	for _, tet := range l.Tetras {
		v := tetraVolume(l.Nodes[tet[0]], l.Nodes[tet[1]], l.Nodes[tet[2]], l.Nodes[tet[3]])
		require.Greater(t, v, 0.0)
		vol += v
	}
	// Each pair of cells contributes an octahedron of volume 1/3.
	assert.InDelta(t, 4, vol, 1e-12)
	assert.Equal(t, r3.Vec{X: 1.5, Y: 0.5, Z: 1.5}, l.CellCenter(l.cell(1, 0, 1)))
}

func TestBCCErrors(t *testing.T) {
	_, err := BCC(r3.Box{Max: d3.Elem(2)}, 0)
	assert.Error(t, err)
	_, err = BCC(r3.Box{Max: d3.Elem(2)}, 3)
	assert.Error(t, err)
}

func TestRoom(t *testing.T) {
	l, err := BCC(r3.Box{Max: d3.Elem(4)}, 1)
	require.NoError(t, err)
	obj := d3.CenteredBox(d3.Elem(2), d3.Elem(2))
	for _, wall := range []bool{false, true} {
		s, err := l.Room(obj.ContainsStrict, wall, 3)
		require.NoError(t, err)
		require.NotEmpty(t, s.Wrap())
		assert.Equal(t, len(s.Faces)-s.Hull, len(s.Wrap()))
		for i, f := range s.Faces {
			assert.Equal(t, i, f.Index)
			assert.Equal(t, i < s.Hull || wall, f.Boundary, "face %d", i)
		}
		for tet, in := range s.Object {
			want := 0
			if in {
				want = 3
			}
			assert.Equal(t, want, s.Tetras[tet].Label)
		}
		m, err := s.Mesh()
		require.NoError(t, err)
		for _, f := range s.Wrap() {
			owners := m.FaceTetras(f)
			require.GreaterOrEqual(t, owners[1], 0)
			assert.NotEqual(t, s.Object[owners[0]], s.Object[owners[1]])
		}
		for f := 0; f < s.Hull; f++ {
			assert.Equal(t, -1, m.FaceTetras(f)[1])
		}
	}
}

func TestRoomWithoutObject(t *testing.T) {
	l, err := BCC(r3.Box{Max: d3.Elem(3)}, 1)
	require.NoError(t, err)
	s, err := l.Room(nil, true, 1)
	require.NoError(t, err)
	assert.Empty(t, s.Wrap())
	for _, tet := range s.Tetras {
		assert.Zero(t, tet.Label)
	}
}
