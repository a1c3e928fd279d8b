// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the hosts
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/letterbox/internal/core"
)

// Scene is the simulation the loop drives. Scenes contain pure logic:
// they never read the wall clock and never touch the terminal.
type Scene interface {
	// ID returns a unique identifier (e.g., "bounce"). Used by the CLI and
	// the run history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset restores the initial state.
	Reset()

	// Step advances the simulation by one fixed step of dt seconds.
	Step(dt float64)

	// Render draws the current state into a screen sized to the logical
	// resolution. The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// Frame returns the number of steps taken since Reset.
	Frame() uint64
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID, already reset.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", id)
	}

	s := f()
	s.Reset()
	return s, nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
