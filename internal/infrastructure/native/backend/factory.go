// Package backend selects the native toolkit implementation behind the managed façade.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/MGTheTrain/managed-openssl/internal/domain/native"
	"github.com/MGTheTrain/managed-openssl/internal/infrastructure/native/sim"
	"github.com/MGTheTrain/managed-openssl/internal/pkg/config"
)

// Constructor creates a native library.
type Constructor func() (native.Library, error)

var (
	mu       sync.RWMutex
	registry = map[string]Constructor{
		config.BackendSim: func() (native.Library, error) {
			return sim.New(), nil
		},
	}
)

// Register makes a backend available under name. Backends that need cgo register
// themselves from an init function when they are compiled in.
func Register(name string, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = c
}

// Available returns the sorted names of the compiled-in backends.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewLibrary creates the backend selected by settings.
func NewLibrary(settings *config.NativeSettings) (native.Library, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	mu.RLock()
	c, ok := registry[settings.Backend]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("native backend %q is not compiled in (available: %v)", settings.Backend, Available())
	}

	lib, err := c()
	if err != nil {
		return nil, fmt.Errorf("failed to create native backend %q: %w", settings.Backend, err)
	}
	return lib, nil
}
