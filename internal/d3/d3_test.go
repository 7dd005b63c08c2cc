package d3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBox(t *testing.T) {
	b := CenteredBox(Elem(1), r3.Vec{X: 2, Y: -1, Z: 4})
	assert.Equal(t, Box{Min: r3.Vec{X: 0, Y: 1, Z: -1}, Max: r3.Vec{X: 2, Y: 1, Z: 3}}, b)
	assert.Equal(t, r3.Vec{X: 2, Z: 4}, b.Size())

	assert.True(t, b.Contains(r3.Vec{X: 0, Y: 1, Z: 0}))
	assert.False(t, b.ContainsStrict(r3.Vec{X: 0, Y: 1, Z: 0}))
	assert.False(t, b.Contains(r3.Vec{X: 3, Y: 1}))

	b = b.Include(r3.Vec{X: -1, Y: 5})
	assert.Equal(t, r3.Vec{X: -1, Y: 1, Z: -1}, b.Min)
	assert.Equal(t, r3.Vec{X: 2, Y: 5, Z: 3}, b.Max)
}

func TestMean(t *testing.T) {
	assert.Equal(t, r3.Vec{}, Mean())
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 0.5}, Mean(r3.Vec{X: 2, Y: 4}, r3.Vec{Z: 1}))
}
