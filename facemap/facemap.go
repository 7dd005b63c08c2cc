// Package facemap translates the flat face numbers used by a tessellator into
// the (group, face) addresses of the host scene.
package facemap

import (
	"fmt"
	"log/slog"
)

// Address locates a face in the host scene.
type Address struct {
	Group int
	Face  int // position inside the group.
}

func (a Address) String() string { return fmt.Sprintf("g%d:f%d", a.Group, a.Face) }

// IndexOutOfRangeWarning is returned for face numbers outside of the
// boundary export. It marks bad data coming from the tessellator.
type IndexOutOfRangeWarning struct {
	Index int
	Len   int
}

func (w *IndexOutOfRangeWarning) Error() string {
	return fmt.Sprintf("face index %d out of range [0,%d)", w.Index, w.Len)
}

// Mapper holds the face order of a boundary export.
type Mapper struct {
	order []Address
	index map[Address]int
	log   *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger used to report skipped faces.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) { m.log = l }
}

// New returns a Mapper where face i of the export is order[i].
func New(order []Address, opts ...Option) *Mapper {
	m := &Mapper{
		order: append([]Address(nil), order...),
		index: make(map[Address]int, len(order)),
		log:   slog.Default(),
	}
	for i, a := range m.order {
		if _, dup := m.index[a]; !dup {
			m.index[a] = i
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromGroups returns the Mapper of an export that lists every face of group 0,
// then every face of group 1 and so on. sizes[g] is the amount of faces in g.
func FromGroups(sizes []int, opts ...Option) *Mapper {
	var order []Address
	for g, n := range sizes {
		for f := 0; f < n; f++ {
			order = append(order, Address{Group: g, Face: f})
		}
	}
	return New(order, opts...)
}

// Len returns the amount of exported faces.
func (m *Mapper) Len() int { return len(m.order) }

// Address returns the scene address of the 0-based export face i.
func (m *Mapper) Address(i int) (Address, error) {
	if i < 0 || i >= len(m.order) {
		return Address{}, &IndexOutOfRangeWarning{Index: i, Len: len(m.order)}
	}
	return m.order[i], nil
}

// Engine returns the scene address of face n in the tessellator's 1-based numbering.
func (m *Mapper) Engine(n int) (Address, error) {
	return m.Address(n - 1)
}

// Index returns the export position of a scene face.
func (m *Mapper) Index(a Address) (int, bool) {
	i, ok := m.index[a]
	return i, ok
}

// Report summarizes a Translate call.
type Report struct {
	Total    int
	Skipped  int
	Warnings []*IndexOutOfRangeWarning
}

// Translate maps face numbers to scene addresses. base is the number of the
// first export face, 0 or 1. Numbers out of range are skipped and logged.
func (m *Mapper) Translate(indices []int, base int) ([]Address, Report) {
	rep := Report{Total: len(indices)}
	addrs := make([]Address, 0, len(indices))
	for _, n := range indices {
		a, err := m.Address(n - base)
		if err != nil {
			w := err.(*IndexOutOfRangeWarning)
			rep.Skipped++
			rep.Warnings = append(rep.Warnings, w)
			m.log.Debug("skip face", slog.Int("index", n), slog.Int("base", base), slog.Int("exported", len(m.order)))
			continue
		}
		addrs = append(addrs, a)
	}
	if rep.Skipped > 0 {
		m.log.Warn(fmt.Sprintf("skipped %d of %d faces", rep.Skipped, rep.Total), slog.Int("exported", len(m.order)))
	}
	return addrs, rep
}
