// Package backend links every registerable acure backend and opens the best
// one available.
//
// Importing this package registers the raster, record, term and x11
// backends:
//
//	import "github.com/gogpu/acure/backend"
//
//	s, name, err := backend.Open(acure.SurfaceOptions{Width: 800, Height: 600})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer backend.Close(s)
//	log.Printf("drawing with %s", name)
//
// # Available Backends
//
//   - "x11": X11 window over the X protocol (needs a display)
//   - "term": terminal cells via tcell (needs a terminal)
//   - "raster": in-memory image, PNG output (always available)
//   - "record": call recorder for tests and dry runs
//
// The gpu backend is not registered: it needs a host WebGPU device.
package backend

import (
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/acure"
	"github.com/gogpu/acure/backend/raster"
	"github.com/gogpu/acure/backend/record"
	"github.com/gogpu/acure/backend/term"
	"github.com/gogpu/acure/backend/x11"
)

// Auto is the backend name that selects the first backend in Priority.
const Auto = "auto"

// Priority is the order in which Open tries backends.
// Screen backends come first; raster always works.
var Priority = []string{x11.Name, term.Name, raster.Name}

// Registered names all backends this package links in.
var Registered = []string{raster.Name, record.Name, term.Name, x11.Name}

// ErrNoBackend is returned when no backend in the list could be created.
var ErrNoBackend = errors.New("backend: no backend available")

// Open creates a surface with the first backend in Priority that succeeds.
// It returns the surface and the name of the backend that created it.
func Open(opts acure.SurfaceOptions) (acure.Surface, string, error) {
	return OpenFirst(Priority, opts)
}

// OpenFirst creates a surface with the first of names that succeeds.
// If all fail the returned error joins ErrNoBackend with every failure.
func OpenFirst(names []string, opts acure.SurfaceOptions) (acure.Surface, string, error) {
	errs := []error{ErrNoBackend}
	for _, name := range names {
		s, err := acure.NewSurface(name, opts)
		if err != nil {
			acure.Logger().Debug("backend: skipped", "backend", name, "err", err)
			errs = append(errs, err)
			continue
		}
		return s, name, nil
	}
	return nil, "", errors.Join(errs...)
}

// OpenNamed creates a surface with name, or with Open when name is Auto.
func OpenNamed(name string, opts acure.SurfaceOptions) (acure.Surface, string, error) {
	if name == Auto {
		return Open(opts)
	}
	s, err := acure.NewSurface(name, opts)
	if err != nil {
		return nil, "", err
	}
	return s, name, nil
}

// Close closes s if it holds resources. Surfaces without a Close method are
// left alone.
func Close(s acure.Surface) error {
	c, ok := s.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("backend: close %T: %w", s, err)
	}
	return nil
}
