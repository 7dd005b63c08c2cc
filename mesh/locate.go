package mesh

import (
	"math"

	"github.com/soypat/tetvol/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// locateCandidates is the amount of nearest centroids Locate tests for
// containment before scanning the whole mesh.
const locateCandidates = 16

// Locator finds tetrahedra near a point using a kd-tree over tetrahedron
// centroids.
type Locator struct {
	m      *Mesh
	tree   kdtree.Tree
	n      int
	bounds d3.Box
}

// NewLocator builds a Locator for m.
func NewLocator(m *Mesh) *Locator {
	pts := make(centroids, m.NumTetras())
	for i := range pts {
		pts[i] = centroid{C: m.Centroid(i), tetra: i}
	}
	if len(pts) == 0 {
		return &Locator{m: m}
	}
	tree := kdtree.New(pts, true)
	return &Locator{m: m, tree: *tree, n: len(pts), bounds: d3.Box(m.Bounds())}
}

// Locate returns the tetrahedron containing p. When p lies on the surface of
// several tetrahedra the lowest index is returned. ok is false when no
// tetrahedron contains p.
func (l *Locator) Locate(p r3.Vec) (tetra int, ok bool) {
	if l.n == 0 || !l.bounds.Contains(p) {
		return -1, false
	}
	keep := kdtree.NewNKeeper(min(l.n, locateCandidates))
	l.tree.NearestSet(keep, &centroid{C: p, tetra: -1})
	tetra = -1
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		t := c.Comparable.(*centroid).tetra
		if (tetra < 0 || t < tetra) && l.m.Contains(t, p) {
			tetra = t
		}
	}
	if tetra >= 0 {
		return tetra, true
	}
	// Long thin tetrahedra may have their centroid far from p.
	for t := 0; t < l.n; t++ {
		if l.m.Contains(t, p) {
			return t, true
		}
	}
	return -1, false
}

// Nearest returns the tetrahedron whose centroid is closest to p and the
// distance between them. It returns -1 for an empty mesh.
func (l *Locator) Nearest(p r3.Vec) (tetra int, dist float64) {
	if l.n == 0 {
		return -1, math.Inf(1)
	}
	c, dist2 := l.tree.Nearest(&centroid{C: p, tetra: -1})
	return c.(*centroid).tetra, math.Sqrt(dist2)
}

type centroid struct {
	C     r3.Vec
	tetra int
}

func (c *centroid) Compare(q kdtree.Comparable, d kdtree.Dim) float64 {
	p := q.(*centroid)
	switch d {
	case 0:
		return c.C.X - p.C.X
	case 1:
		return c.C.Y - p.C.Y
	case 2:
		return c.C.Z - p.C.Z
	}
	panic("unreachable")
}

func (c *centroid) Dims() int { return 3 }

func (c *centroid) Distance(q kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(c.C, q.(*centroid).C))
}

type centroids []centroid

func (cs centroids) Index(i int) kdtree.Comparable { return &cs[i] }

func (cs centroids) Len() int { return len(cs) }

func (cs centroids) Pivot(d kdtree.Dim) int {
	p := centroidPlane{dim: d, centroids: cs}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (cs centroids) Slice(start, end int) kdtree.Interface { return cs[start:end] }

// Bounds implements kdtree.Bounder.
func (cs centroids) Bounds() *kdtree.Bounding {
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	for i := range cs {
		bb = bb.Include(cs[i].C)
	}
	return &kdtree.Bounding{
		Min: &centroid{C: bb.Min, tetra: -1},
		Max: &centroid{C: bb.Max, tetra: -1},
	}
}

type centroidPlane struct {
	dim       kdtree.Dim
	centroids centroids
}

func (p centroidPlane) Less(i, j int) bool {
	return p.centroids[i].Compare(&p.centroids[j], p.dim) < 0
}

func (p centroidPlane) Swap(i, j int) {
	p.centroids[i], p.centroids[j] = p.centroids[j], p.centroids[i]
}

func (p centroidPlane) Len() int { return len(p.centroids) }

func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	p.centroids = p.centroids[start:end]
	return p
}
