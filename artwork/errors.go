package artwork

import "errors"

var (
	// ErrEmptyCatalog indicates a catalog was constructed with no shapes.
	ErrEmptyCatalog = errors.New("artwork: catalog requires at least one shape")

	// ErrEmptyShape indicates a shape payload is empty.
	ErrEmptyShape = errors.New("artwork: empty shape payload")

	// ErrShapeIndex indicates a shape index outside [0, Len).
	ErrShapeIndex = errors.New("artwork: shape index out of range")

	// ErrNoShapes indicates a shapes directory held no .svg files.
	ErrNoShapes = errors.New("artwork: no svg files found")
)
