// Package registry provides a global registry for level factories.
// Levels register themselves in init() functions, allowing the platform
// to discover and instantiate levels without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/superstudent/internal/core"
)

// Level is the core interface that all SuperStudent levels must implement.
// Levels contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Level interface {
	// ID returns a unique identifier for this level (e.g., "colors").
	// Used for CLI commands, score storage and checkpoints.
	ID() string

	// Title returns a human-readable name for display (e.g., "Colors").
	Title() string

	// Reset initializes or resets the level state.
	// Called once at start and again on restart.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one frame of in.DT seconds.
	// Pointer events in the frame are in screen cells.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current level state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current level state (score, paused, checkpoint).
	State() core.GameState
}

// Checkpointer is implemented by levels that pause on checkpoints and can
// persist their progress between sessions.
type Checkpointer interface {
	// ResumeFromCheckpoint continues play after the checkpoint screen.
	ResumeFromCheckpoint()

	// SaveProgress returns the state to persist.
	SaveProgress() core.SavedProgress

	// RestoreProgress loads previously saved state.
	RestoreProgress(p core.SavedProgress) error
}

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	ID    string
	Title string
}

// Options carries per-run settings from the command line to a level.
// Empty fields select the level's defaults.
type Options struct {
	ConfigPath string // Custom YAML config file
	Difficulty string // Difficulty preset name
}

// Factory is a function that creates a new instance of a level.
type Factory func(opts Options) Level

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a level factory to the registry.
// Typically called from a level's init() function.
// Panics if a level with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	l := f(Options{})
	titles[id] = l.Title()
}

// List returns information about all registered levels, sorted by ID.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(factories))
	for id := range factories {
		result = append(result, LevelInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new level by its ID.
// Returns an error if the level ID is not registered.
func Create(id string, opts Options) (Level, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown level %q", id)
	}

	return f(opts), nil
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
