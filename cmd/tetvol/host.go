package main

import (
	"fmt"
	"io"

	"github.com/soypat/tetvol"
	"github.com/soypat/tetvol/facemap"
)

// printHost writes the volumes it is asked to create.
type printHost struct {
	w io.Writer
}

func (h printHost) CreateVolume(v tetvol.NewVolume) error {
	_, err := fmt.Fprintf(h.w, "volume %d: %d tetrahedra, position (%.6g, %.6g, %.6g), %d faces\n",
		v.ID, v.Tetras, v.Position.X, v.Position.Y, v.Position.Z, len(v.Faces))
	for _, f := range v.Faces {
		fmt.Fprintf(h.w, "\t%s\n", f)
	}
	return err
}

func (h printHost) HighlightFaces(faces []facemap.Address) error {
	_, err := fmt.Fprintf(h.w, "faces implicated in mesher failure: %v\n", faces)
	return err
}
