// Package artwork holds the immutable shape catalog and the data-URI
// encoders for on-chain token metadata. Every function here is
// deterministic: identical inputs always produce byte-identical output.
package artwork

import "fmt"

// Catalog is an ordered, immutable list of vector-graphic variants fixed at
// construction. Each raw payload is encoded once and the data URI cached.
type Catalog struct {
	raw     []string
	encoded []string
}

// NewCatalog builds a catalog from raw SVG payloads. At least one shape is
// required and no payload may be empty.
func NewCatalog(shapes []string) (*Catalog, error) {
	if len(shapes) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		raw:     make([]string, len(shapes)),
		encoded: make([]string, len(shapes)),
	}
	for i, s := range shapes {
		if s == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyShape, i)
		}
		c.raw[i] = s
		c.encoded[i] = SVGToDataURI(s)
	}
	return c, nil
}

// Len returns the number of shapes.
func (c *Catalog) Len() int {
	return len(c.raw)
}

// Shape returns the raw SVG payload at index i.
func (c *Catalog) Shape(i int) (string, error) {
	if i < 0 || i >= len(c.raw) {
		return "", fmt.Errorf("%w: %d of %d", ErrShapeIndex, i, len(c.raw))
	}
	return c.raw[i], nil
}

// EncodedShape returns the cached data URI for the shape at index i.
func (c *Catalog) EncodedShape(i int) (string, error) {
	if i < 0 || i >= len(c.encoded) {
		return "", fmt.Errorf("%w: %d of %d", ErrShapeIndex, i, len(c.encoded))
	}
	return c.encoded[i], nil
}
