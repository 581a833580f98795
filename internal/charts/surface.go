package charts

import (
	"fmt"
	"strings"
)

// Default and maximum surface size in CSS pixels.
const (
	DefaultSurfaceWidth  = 800
	DefaultSurfaceHeight = 400
	MaxSurfaceSize       = 4096
)

// Surface is a drawable target a chart widget binds to.
type Surface struct {
	ID     string
	Width  int
	Height int
}

// Size returns the surface dimensions, substituting defaults for unset values.
func (s Surface) Size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = DefaultSurfaceWidth
	}
	if h <= 0 {
		h = DefaultSurfaceHeight
	}
	return w, h
}

// checkSize rejects dimensions the image back ends cannot allocate.
// Zero and negative values select the defaults.
func checkSize(id string, width, height int) error {
	if width > MaxSurfaceSize || height > MaxSurfaceSize {
		return fmt.Errorf("%w: surface %q size %dx%d exceeds %dx%d",
			ErrInvalidInput, id, width, height, MaxSurfaceSize, MaxSurfaceSize)
	}
	return nil
}

// SurfaceResolver looks up surfaces by identifier.
type SurfaceResolver interface {
	Resolve(id string) (Surface, error)
}

// Document is a hosting document with a fixed set of declared surfaces.
// It is not safe for concurrent Declare calls.
type Document struct {
	surfaces map[string]Surface
}

// NewDocument declares the given surfaces.
func NewDocument(surfaces ...Surface) (*Document, error) {
	d := &Document{surfaces: make(map[string]Surface, len(surfaces))}
	for _, s := range surfaces {
		if err := d.Declare(s.ID, s.Width, s.Height); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Declare adds a surface. Redeclaring an id replaces its size.
func (d *Document) Declare(id string, width, height int) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty surface id", ErrInvalidSurface)
	}
	if err := checkSize(id, width, height); err != nil {
		return err
	}
	if d.surfaces == nil {
		d.surfaces = make(map[string]Surface)
	}
	d.surfaces[id] = Surface{ID: id, Width: width, Height: height}
	return nil
}

// Resolve implements SurfaceResolver.
func (d *Document) Resolve(id string) (Surface, error) {
	if strings.TrimSpace(id) == "" {
		return Surface{}, fmt.Errorf("%w: empty surface id", ErrInvalidSurface)
	}
	s, ok := d.surfaces[id]
	if !ok {
		return Surface{}, fmt.Errorf("%w: %q is not declared", ErrInvalidSurface, id)
	}
	return s, nil
}

// OpenSurfaces resolves any non-empty identifier to a surface of a fixed
// size. It serves callers that create the target on demand, such as file
// exports.
type OpenSurfaces struct {
	Width  int
	Height int
}

// Resolve implements SurfaceResolver.
func (o OpenSurfaces) Resolve(id string) (Surface, error) {
	if strings.TrimSpace(id) == "" {
		return Surface{}, fmt.Errorf("%w: empty surface id", ErrInvalidSurface)
	}
	if err := checkSize(id, o.Width, o.Height); err != nil {
		return Surface{}, err
	}
	return Surface{ID: id, Width: o.Width, Height: o.Height}, nil
}
