package mesh

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every MalformedMeshError using errors.Is.
var ErrMalformed = errors.New("malformed mesh")

// MalformedMeshError reports a structural defect in mesh input. Identification
// and splitting can not run on a mesh that produced one.
type MalformedMeshError struct {
	// Element is "tetra" or "face".
	Element string
	// Index of the offending element in its input slice.
	Index  int
	Reason string
}

func (e *MalformedMeshError) Error() string {
	return fmt.Sprintf("malformed mesh: %s %d: %s", e.Element, e.Index, e.Reason)
}

func (e *MalformedMeshError) Is(target error) bool { return target == ErrMalformed }

func malformed(element string, index int, format string, a ...any) error {
	return &MalformedMeshError{Element: element, Index: index, Reason: fmt.Sprintf(format, a...)}
}
