package volume

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Domain is a volume discovered by Identify that does not overlap any
// volume defined before identification.
type Domain struct {
	// ID identifies the domain to the host, counting from 1 in report order.
	ID int
	// Label of the domain's tetrahedra in the Labeling it was split from.
	Label int
	// Tetras is the amount of tetrahedra in the domain.
	Tetras int
	// First is the lowest index tetrahedron of the domain.
	First int
	// Centroid of the First tetrahedron.
	Centroid r3.Vec
	// InternalFaces are the non-boundary faces that separate the domain from
	// other volumes or from the outside of the mesh, as mesh face ids.
	InternalFaces []int
}

// Result is the output of Split.
type Result struct {
	// Domains holds the newly discovered volumes ordered by label.
	Domains []Domain
	// Existing holds the labels of volumes that contain tetrahedra labelled
	// before identification, in ascending order.
	Existing []int
}

// VolumeCount returns the amount of volumes in the mesh, new and existing.
func (r *Result) VolumeCount() int { return len(r.Domains) + len(r.Existing) }

type group struct {
	label  int
	tetras []int
	pure   bool
}

// Split groups the tetrahedra of lb by label. Every group whose tetrahedra
// were all unlabelled in the input mesh is reported as a Domain; the others
// are user defined volumes and only listed in Result.Existing.
func Split(lb *Labeling) *Result {
	m := lb.m
	byLabel := make(map[int]*group)
	var groups []*group
	for t := 0; t < m.NumTetras(); t++ {
		l := lb.labels[t]
		g, ok := byLabel[l]
		if !ok {
			g = &group{label: l, pure: true}
			byLabel[l] = g
			groups = append(groups, g)
		}
		g.tetras = append(g.tetras, t)
		if m.Tetra(t).Label != 0 {
			g.pure = false
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].label < groups[j].label })

	res := &Result{}
	for _, g := range groups {
		if !g.pure {
			res.Existing = append(res.Existing, g.label)
			continue
		}
		first := g.tetras[0]
		res.Domains = append(res.Domains, Domain{
			ID:            len(res.Domains) + 1,
			Label:         g.label,
			Tetras:        len(g.tetras),
			First:         first,
			Centroid:      m.Centroid(first),
			InternalFaces: internalFaces(lb, g),
		})
	}
	return res
}

func internalFaces(lb *Labeling, g *group) []int {
	m := lb.m
	var faces []int
	for _, t := range g.tetras {
		for k := 0; k < 4; k++ {
			nb, f := m.Neighbor(t, k)
			if m.Face(f).Boundary {
				continue
			}
			if nb < 0 || lb.labels[nb] != g.label {
				faces = append(faces, f)
			}
		}
	}
	return faces
}
