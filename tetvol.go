// Package tetvol finds enclosed volumes that a user did not model explicitly,
// such as the air gap between a room and an object placed inside it.
//
// The scene boundary is tessellated into tetrahedra by an external engine.
// The tetrahedra are then labelled by connectivity (package volume) and every
// volume made only of unlabelled tetrahedra is handed back to the host scene
// with a position inside it and the faces that enclose it.
package tetvol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soypat/tetvol/facemap"
	"github.com/soypat/tetvol/mesh"
	"github.com/soypat/tetvol/volume"
	"gonum.org/v1/gonum/spatial/r3"
)

// Region marks a user defined volume by a point inside it.
type Region struct {
	Point r3.Vec
	// Label given to the tetrahedra of the region. Must be positive.
	Label int
	// MaxVolume constrains tetrahedron volume inside the region. Zero means no constraint.
	MaxVolume float64
}

// Boundary is the scene surface exported for tessellation.
type Boundary struct {
	Nodes []r3.Vec
	Faces [][3]int
	// Addresses holds the scene address of each face.
	Addresses []facemap.Address
	// Passable marks faces that do not separate volumes, such as the
	// surface of a user defined volume. A nil slice marks none.
	Passable []bool
	Regions  []Region
}

// IsPassable reports whether volumes may extend across face i.
func (b Boundary) IsPassable(i int) bool {
	return b.Passable != nil && b.Passable[i]
}

// Validate checks the boundary is consistent.
func (b Boundary) Validate() error {
	if len(b.Addresses) != len(b.Faces) {
		return fmt.Errorf("boundary has %d faces and %d addresses", len(b.Faces), len(b.Addresses))
	}
	if b.Passable != nil && len(b.Passable) != len(b.Faces) {
		return fmt.Errorf("boundary has %d faces and %d passable flags", len(b.Faces), len(b.Passable))
	}
	for i, f := range b.Faces {
		for _, n := range f {
			if n < 0 || n >= len(b.Nodes) {
				return fmt.Errorf("boundary face %d: node %d out of range", i, n)
			}
		}
	}
	for i, r := range b.Regions {
		if r.Label <= 0 {
			return fmt.Errorf("region %d: label must be positive", i)
		}
	}
	return nil
}

// Mapper returns the face mapper for the export order of b.
func (b Boundary) Mapper(opts ...facemap.Option) *facemap.Mapper {
	return facemap.New(b.Addresses, opts...)
}

// Tessellation is the outcome of a tessellator run.
type Tessellation struct {
	Nodes  []r3.Vec
	Tetras []mesh.Tetra
	Faces  []mesh.Face
	// FailedFaces lists boundary faces, in 1-based export numbering,
	// that the engine blamed for a failure.
	FailedFaces []int
	// Messages collected from the engine output.
	Messages []string
}

// Mesh builds the mesh model of the tessellation.
func (t *Tessellation) Mesh() (*mesh.Mesh, error) {
	return mesh.New(t.Nodes, t.Tetras, t.Faces)
}

// Tessellator converts a boundary into tetrahedra. Implementations must return
// an error and no tessellation if ctx is cancelled.
type Tessellator interface {
	Tessellate(ctx context.Context, b Boundary) (*Tessellation, error)
}

// NewVolume describes a volume the host should create.
type NewVolume struct {
	ID int
	// Position is a point inside the volume.
	Position r3.Vec
	// Faces enclose the volume.
	Faces  []facemap.Address
	Tetras int
}

// Host is the modelling application receiving discovered volumes.
type Host interface {
	CreateVolume(v NewVolume) error
}

// Highlighter is implemented by hosts that can show faces to the user.
type Highlighter interface {
	HighlightFaces(faces []facemap.Address) error
}

// Report summarizes a FindSubVolumes or Analyze run.
type Report struct {
	// Volumes is the amount of volumes in the mesh, user defined ones included.
	Volumes int
	Created []NewVolume
	// FacesSkipped counts internal faces that had no scene address.
	FacesSkipped int
	// Highlighted counts faces passed to Highlighter.
	Highlighted int
}

// Finder runs sub-volume discovery.
type Finder struct {
	Engine Tessellator
	Host   Host
	Logger *slog.Logger
	// SeedRegions labels Boundary regions after tessellation, for engines that
	// do not attach region attributes to tetrahedra.
	SeedRegions bool
}

func (f *Finder) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// FindSubVolumes tessellates b and creates a host volume for every discovered
// volume. Nothing is created when tessellation fails or the mesh is malformed.
func (f *Finder) FindSubVolumes(ctx context.Context, b Boundary) (*Report, error) {
	if f.Engine == nil || f.Host == nil {
		return nil, errors.New("finder needs an engine and a host")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	log := f.logger()
	tess, err := f.Engine.Tessellate(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("tessellation: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tessellation: %w", err)
	}
	mapper := b.Mapper(facemap.WithLogger(log))
	rep := &Report{}
	if len(tess.FailedFaces) > 0 {
		rep.Highlighted, err = f.highlight(mapper, tess.FailedFaces)
		if err != nil {
			return rep, err
		}
	}
	m, err := tess.Mesh()
	if err != nil {
		return rep, err
	}
	if f.SeedRegions && len(b.Regions) > 0 {
		seeds := make([]volume.Seed, len(b.Regions))
		for i, r := range b.Regions {
			seeds[i] = volume.Seed{Point: r.Point, Label: r.Label}
		}
		m, err = volume.SeedRegions(m, seeds)
		if err != nil {
			return rep, err
		}
	}
	arep, err := f.Analyze(m, mapper)
	if arep != nil {
		arep.Highlighted = rep.Highlighted
	}
	return arep, err
}

func (f *Finder) highlight(mapper *facemap.Mapper, failed []int) (int, error) {
	addrs, _ := mapper.Translate(failed, 1)
	h, ok := f.Host.(Highlighter)
	if !ok {
		f.logger().Info("host can not highlight faces", slog.Int("faces", len(addrs)))
		return 0, nil
	}
	if err := h.HighlightFaces(addrs); err != nil {
		return 0, fmt.Errorf("highlight faces: %w", err)
	}
	return len(addrs), nil
}

// Analyze identifies and splits the volumes of m and creates a host volume for
// each one made only of unlabelled tetrahedra.
func (f *Finder) Analyze(m *mesh.Mesh, mapper *facemap.Mapper) (*Report, error) {
	log := f.logger()
	rep := &Report{}
	if m.NumTetras() == 0 {
		log.Info("mesh has no tetrahedra")
		return rep, nil
	}
	lb := volume.Identify(m)
	res := volume.Split(lb)
	rep.Volumes = res.VolumeCount()
	log.Info("volumes detected", slog.Int("volumes", rep.Volumes), slog.Int("new", len(res.Domains)))
	for _, d := range res.Domains {
		indices := make([]int, len(d.InternalFaces))
		for i, fc := range d.InternalFaces {
			indices[i] = m.Face(fc).Index
		}
		addrs, trep := mapper.Translate(indices, 0)
		rep.FacesSkipped += trep.Skipped
		nv := NewVolume{
			ID:       d.ID,
			Position: d.Centroid,
			Faces:    addrs,
			Tetras:   d.Tetras,
		}
		if f.Host != nil {
			if err := f.Host.CreateVolume(nv); err != nil {
				return rep, fmt.Errorf("create volume %d: %w", d.ID, err)
			}
		}
		rep.Created = append(rep.Created, nv)
	}
	return rep, nil
}
