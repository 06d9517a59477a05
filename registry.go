package acure

import (
	"fmt"
	"sort"
	"sync"
)

// SurfaceFactory creates a surface from options.
// Factories are registered via Register and called by NewSurface.
type SurfaceFactory func(opts SurfaceOptions) (Surface, error)

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]SurfaceFactory)
)

// Register registers a surface factory under name.
// It is typically called from init() in backend packages, following the
// database/sql driver pattern:
//
//	func init() {
//	    acure.Register("raster", func(opts acure.SurfaceOptions) (acure.Surface, error) {
//	        return New(opts)
//	    })
//	}
//
// Register panics if factory is nil or if name is already registered.
func Register(name string, factory SurfaceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("acure: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("acure: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is primarily useful for tests. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// NewSurface creates a surface with the named backend.
// Zero option fields are filled with defaults before the factory runs.
//
// Example:
//
//	import _ "github.com/gogpu/acure/backend/raster"
//
//	s, err := acure.NewSurface("raster", acure.SurfaceOptions{Width: 800, Height: 600})
func NewSurface(name string, opts SurfaceOptions) (Surface, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("acure: unknown backend %q (forgotten import?)", name)
	}

	s, err := factory(opts.WithDefaults())
	if err != nil {
		return nil, NewBackendError(name, "create", err)
	}
	Logger().Info("acure: surface created", "backend", name)
	return s, nil
}

// MustSurface is like NewSurface but panics on error.
func MustSurface(name string, opts SurfaceOptions) Surface {
	s, err := NewSurface(name, opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Backends returns the sorted names of all registered backends.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}
