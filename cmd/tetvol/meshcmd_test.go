package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/tetvol/facemap"
	"github.com/soypat/tetvol/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func writeSTL(t *testing.T, model []render.Triangle, edit func([]byte) []byte) string {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, render.WriteSTL(&b, model))
	data := b.Bytes()
	if edit != nil {
		data = edit(data)
	}
	path := filepath.Join(t.TempDir(), "surface.stl")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

var square = []render.Triangle{
	{{}, {X: 1}, {X: 1, Y: 1}},
	{{}, {X: 1, Y: 1}, {Y: 1}},
}

func TestBoundaryFromSTL(t *testing.T) {
	a := writeSTL(t, square, nil)
	b := writeSTL(t, square[:1], nil)
	bnd, err := boundaryFromSTL([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, bnd.Nodes, 4, "shared vertices must be merged")
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 2}}, bnd.Faces)
	assert.Equal(t, []facemap.Address{{Group: 0, Face: 0}, {Group: 0, Face: 1}, {Group: 1, Face: 0}}, bnd.Addresses)
	assert.Equal(t, r3.Vec{X: 1, Y: 1}, bnd.Nodes[2])
}

func TestBoundaryFromSTLNormalMismatch(t *testing.T) {
	path := writeSTL(t, square, func(data []byte) []byte {
		// Stored normal of the first triangle becomes +X.
		copy(data[84:96], []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0})
		return data
	})
	bnd, err := boundaryFromSTL([]string{path})
	require.NoError(t, err)
	assert.Len(t, bnd.Faces, 2)
}

func TestBoundaryFromSTLReadError(t *testing.T) {
	// ReadSTL gives up after too many mismatched normals but still returns
	// the triangles read so far. That model must not be used.
	model := make([]render.Triangle, 10_002)
	for i := range model {
		model[i] = square[0]
	}
	path := writeSTL(t, model, func(data []byte) []byte {
		for i := range model {
			off := 84 + 50*i
			copy(data[off:off+12], []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0})
		}
		return data
	})
	_, err := boundaryFromSTL([]string{path})
	assert.Error(t, err)

	path = writeSTL(t, square, func(data []byte) []byte { return data[:len(data)-10] })
	_, err = boundaryFromSTL([]string{path})
	assert.Error(t, err)

	_, err = boundaryFromSTL([]string{filepath.Join(t.TempDir(), "missing.stl")})
	assert.Error(t, err)
}
