package render_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/tetvol/mesh"
	"github.com/soypat/tetvol/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func unitTetra(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(
		[]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		[]mesh.Tetra{{Nodes: [4]int{0, 1, 2, 3}}},
		nil,
	)
	require.NoError(t, err)
	return m
}

func TestFacesPointOutward(t *testing.T) {
	m := unitTetra(t)
	model, err := render.Faces(m, []int{0, 1, 2, 3}, nil)
	require.NoError(t, err)
	require.Len(t, model, 4)
	c := m.Centroid(0)
	for i, tri := range model {
		mid := r3.Scale(1.0/3, r3.Add(tri[0], r3.Add(tri[1], tri[2])))
		assert.Greater(t, r3.Dot(tri.Normal(), r3.Sub(mid, c)), 0.0, "face %d", i)
		assert.False(t, tri.Degenerate(1e-9))
	}

	_, err = render.Faces(m, []int{4}, nil)
	assert.Error(t, err)
}

func TestFacesAwayFromInside(t *testing.T) {
	m, err := mesh.New(
		[]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1, Z: 1}},
		[]mesh.Tetra{{Nodes: [4]int{0, 1, 2, 3}}, {Nodes: [4]int{1, 2, 3, 4}}},
		nil,
	)
	require.NoError(t, err)
	_, shared := m.Neighbor(0, 0)
	for inside := 0; inside < 2; inside++ {
		model, err := render.Faces(m, []int{shared}, func(tetra int) bool { return tetra == inside })
		require.NoError(t, err)
		tri := model[0]
		assert.Greater(t, r3.Dot(tri.Normal(), r3.Sub(tri[0], m.Centroid(inside))), 0.0, "inside %d", inside)
	}
}

func TestSTLWriteRead(t *testing.T) {
	m := unitTetra(t)
	model, err := render.Faces(m, []int{0, 1, 2, 3}, nil)
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, render.WriteSTL(&b, model))
	assert.Equal(t, 84+50*len(model), b.Len())

	path := filepath.Join(t.TempDir(), "tetra.stl")
	require.NoError(t, render.CreateSTL(path, model))
	file, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, b.Bytes(), file, "WriteSTL and CreateSTL output mismatch")

	got, err := render.ReadSTL(bytes.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, model, got)
}

func TestSTLErrors(t *testing.T) {
	var b bytes.Buffer
	assert.Error(t, render.WriteSTL(&b, nil))

	_, err := render.ReadSTL(bytes.NewReader(make([]byte, 84)))
	assert.Error(t, err, "zero triangles")

	_, err = render.ReadSTL(bytes.NewReader(make([]byte, 20)))
	assert.Error(t, err, "short header")

	model := []render.Triangle{{{}, {X: 1}, {Y: 1}}}
	require.NoError(t, render.WriteSTL(&b, model))
	data := b.Bytes()
	_, err = render.ReadSTL(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err, "truncated triangle")

	// Overwrite stored normal with one that does not match.
	data[84], data[85], data[86], data[87] = 0, 0, 0x80, 0x3f // X = 1
	data[92], data[93], data[94], data[95] = 0, 0, 0, 0       // Z = 0
	got, err := render.ReadSTL(bytes.NewReader(data))
	assert.True(t, errors.Is(err, render.ErrNormalMismatch))
	assert.Len(t, got, 1)
}

func TestPreviewPNG(t *testing.T) {
	m := unitTetra(t)
	model, err := render.Faces(m, []int{0, 1, 2, 3}, nil)
	require.NoError(t, err)
	view := render.DefaultView
	view.Width, view.Height = 64, 48
	path := filepath.Join(t.TempDir(), "tetra.png")
	require.NoError(t, render.PreviewPNG(path, model, view))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	assert.Error(t, render.PreviewPNG(path, nil, view))
	view.Width = 0
	assert.Error(t, render.PreviewPNG(path, model, view))
}
