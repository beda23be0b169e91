// Package registry provides a global registry of built-in scenarios.
// Scenario packages register themselves in init() functions, allowing the
// CLI to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/fleetcrawl/internal/scenario"
)

// Info contains metadata about a registered scenario.
type Info struct {
	ID          string
	Title       string
	Description string
	Ticks       uint32
	Ships       int
}

// Factory builds a fresh scenario value. Each call must return independent
// ship buffers since runs mutate them.
type Factory func() scenario.Scenario

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from a package's init() function.
// Panics if a scenario with the same ID is already registered, or if the
// factory produces an invalid scenario.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	s := f()
	if s.ID != id {
		panic(fmt.Sprintf("registry: factory for %q builds scenario %q", id, s.ID))
	}
	if err := scenario.Validate(s); err != nil {
		panic(fmt.Sprintf("registry: scenario %q is invalid: %v", id, err))
	}

	factories[id] = f
	infos[id] = Info{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Ticks:       s.Ticks,
		Ships:       len(s.Ships),
	}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a scenario by its ID.
// Returns an error if the scenario ID is not registered.
func Create(id string) (scenario.Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return scenario.Scenario{}, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
