package ir

import "fmt"

// ClassificationError reports a domain-type handle that does not fit any
// recognized kind. It is fatal for the whole generation run: no partial
// output is produced.
type ClassificationError struct {
	// Type is the offending type's identity or spelling.
	Type string

	// Reason describes why the handle could not be classified.
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cannot classify type %s: %s", e.Type, e.Reason)
}

// UnsupportedShapeError reports a recognized kind with a sub-case the
// generator does not handle, e.g. a union whose member shapes cannot be
// discriminated at runtime. Fatal, like ClassificationError.
type UnsupportedShapeError struct {
	// Type is the offending type's identity or spelling.
	Type string

	// Shape describes the unsupported sub-case.
	Shape string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported shape for type %s: %s", e.Type, e.Shape)
}
