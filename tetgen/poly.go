package tetgen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/soypat/tetvol"
)

// Marker returns the facet marker written for face i of b. The magnitude is
// the 1-based export number. Passable faces get a negative marker.
func Marker(b tetvol.Boundary, i int) int {
	if b.IsPassable(i) {
		return -(i + 1)
	}
	return i + 1
}

// decodeMarker undoes Marker. A zero marker has no export address.
func decodeMarker(marker int) (boundary bool, index int) {
	switch {
	case marker > 0:
		return true, marker - 1
	case marker < 0:
		return false, -marker - 1
	}
	return false, -1
}

// WritePoly writes b in TetGen's .poly format with 0-based numbering.
func WritePoly(w io.Writer, b tetvol.Boundary) error {
	if err := b.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# nodes\n%d 3 0 0\n", len(b.Nodes))
	for i, n := range b.Nodes {
		fmt.Fprintf(bw, "%d %.17g %.17g %.17g\n", i, n.X, n.Y, n.Z)
	}
	fmt.Fprintf(bw, "# facets\n%d 1\n", len(b.Faces))
	for i, f := range b.Faces {
		fmt.Fprintf(bw, "1 0 %d\n3 %d %d %d\n", Marker(b, i), f[0], f[1], f[2])
	}
	fmt.Fprintf(bw, "# holes\n0\n")
	fmt.Fprintf(bw, "# regions\n%d\n", len(b.Regions))
	for i, r := range b.Regions {
		maxvol := r.MaxVolume
		if maxvol <= 0 {
			maxvol = -1
		}
		fmt.Fprintf(bw, "%d %.17g %.17g %.17g %d %g\n", i, r.Point.X, r.Point.Y, r.Point.Z, r.Label, maxvol)
	}
	return bw.Flush()
}
