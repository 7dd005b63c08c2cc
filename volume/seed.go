package volume

import (
	"errors"
	"fmt"

	"github.com/soypat/tetvol/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrOutsideMesh is returned by SeedRegions for a seed point that no
// tetrahedron contains.
var ErrOutsideMesh = errors.New("seed point outside of mesh")

// Seed marks the user volume that contains Point.
type Seed struct {
	Point r3.Vec
	Label int
}

// SeedRegions returns a copy of m where the region around each seed point
// carries the seed label. The tetrahedron containing the point and every
// unlabelled tetrahedron reachable from it through non-boundary faces are
// labelled. Seeds are applied in order and never overwrite a label. This is
// how region attributes are assigned when the tessellator did not do it.
func SeedRegions(m *mesh.Mesh, seeds []Seed) (*mesh.Mesh, error) {
	if len(seeds) == 0 {
		return m, nil
	}
	labels := m.Labels()
	loc := mesh.NewLocator(m)
	for i, s := range seeds {
		if s.Label <= 0 {
			return nil, fmt.Errorf("seed %d: label must be positive, got %d", i, s.Label)
		}
		t, ok := loc.Locate(s.Point)
		if !ok {
			return nil, fmt.Errorf("seed %d at %v: %w", i, s.Point, ErrOutsideMesh)
		}
		if labels[t] != 0 {
			continue
		}
		fill(m, labels, t, s.Label)
	}
	return m.WithLabels(labels)
}
