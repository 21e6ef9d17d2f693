package core

// RuntimeConfig contains configuration passed to levels at initialization.
// Levels use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the platform (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a level.
// Returned by Level.State() to communicate status to the platform.
type GameState struct {
	Score      int  // Current score
	GameOver   bool // Whether the level has ended
	Paused     bool // Whether the level is paused
	Checkpoint bool // A checkpoint was reached this frame; the platform should pause and show it
}

// Event describes something notable that happened during a step.
// Args are alternating key/value pairs, ready for a structured logger.
type Event struct {
	Name string
	Args []any
}

// StepResult is returned by Level.Step() after each frame.
// Contains the updated state and any events that occurred.
type StepResult struct {
	State  GameState
	Events []Event
}

// SavedProgress is the part of a level's state that survives a checkpoint
// and can be persisted between sessions. Dot positions are not kept.
type SavedProgress struct {
	Target            int   `msgpack:"target"`
	UsedColors        []int `msgpack:"used_colors"`
	HitsOnTarget      int   `msgpack:"hits_on_target"`
	TotalDestroyed    int   `msgpack:"total_destroyed"`
	Score             int   `msgpack:"score"`
	CollisionsEnabled bool  `msgpack:"collisions_enabled"`
}
