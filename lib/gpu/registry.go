package gpu

import (
	"fmt"
	"slices"
	"sync"
)

type DriverFactory func() Driver

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]DriverFactory)
)

// Register makes a driver available under name. Driver packages call it
// from init(); registering a name twice replaces the earlier factory.
func Register(name string, factory DriverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister is used by tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the sorted names of all registered drivers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Get(name string) (Driver, error) {
	registryMu.RLock()
	factory, ok := drivers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no such backend %q (available: %v)", name, Available())
	}
	return factory(), nil
}
