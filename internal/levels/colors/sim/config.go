package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/superstudent/internal/core"
)

// ErrInvalidConfig is matched by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("sim: invalid config")

// ConfigError lists every problem found in a Config.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sim: invalid config: %s", strings.Join(e.Problems, "; "))
}

// Is makes errors.Is(err, ErrInvalidConfig) succeed.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// ParticleConfig controls the pooled effect particles.
type ParticleConfig struct {
	Prealloc     int     // Slots created up front
	Max          int     // Hard cap on slots
	CullDistance float64 // Particles farther than this from the origin are released; 0 = width+height

	BurstCount    int // Particles emitted when a target is destroyed
	BurstSpeedMin float64
	BurstSpeedMax float64
	BurstLife     float64 // Seconds
	BurstRadius   float64

	CollisionCount  int // Particles emitted at each approaching contact
	CollisionSpeed  float64
	CollisionLife   float64
	CollisionRadius float64
}

// AntiClusterConfig controls the center avoidance force and the cluster scan.
type AntiClusterConfig struct {
	AvoidRadius float64 // Continuous push applies inside this distance from the center
	AvoidAccel  float64 // Peak acceleration at the exact center, units/s^2
	MinSpeed    float64 // Dots inside the avoid radius are never slower than this

	ScanChance float64 // Probability of running the cluster scan on a given frame
	ScanRadius float64
	Threshold  int // More than this many dots inside ScanRadius triggers dispersal
	ImpulseMin float64
	ImpulseMax float64
	NudgeMin   float64
	NudgeMax   float64
}

// Config holds every tunable of the colors simulation.
// Distances are world units, speeds are units per second, durations are seconds.
type Config struct {
	Width  float64
	Height float64

	Capacity        int // Dot slots in the store
	TargetCount     int // Target dots released by the dispersal
	DistractorCount int // Distractor dots released by the dispersal

	DotRadius   float64
	ClickRadius float64
	SpeedMin    float64 // Per-axis gameplay speed range
	SpeedMax    float64

	HitQuota        int // Target hits before the target color advances
	CheckpointEvery int // Total destructions between checkpoints; 0 disables
	ScorePerHit     int
	RegenTotal      int // Alive dots after a regeneration
	RegenTargets    int // Minimum target-colored dots after a regeneration

	Restitution float64
	Epsilon     float64 // Center distance below which a pair is degenerate
	CellSize    float64
	MaxDelta    float64 // Largest dt accepted by Update

	VibrationDuration  float64
	DispersionDuration float64
	DispersionSpeedMin float64
	DispersionSpeedMax float64
	SpawnJitter        float64
	SpawnSpacing       float64
	SpawnAttempts      int
	RegenSpacing       float64
	RegenAttempts      int
	RegenMinDistance   float64 // Regenerated dots appear at least this far from the center
	RegenEdgeMargin    float64

	MotherRadius    float64
	MotherAmplitude float64

	NotificationDuration float64
	ExplosionRadius      float64
	ExplosionDuration    float64
	MaxExplosions        int

	Particles   ParticleConfig
	AntiCluster AntiClusterConfig

	Palette    []core.NamedColor
	Background core.Color

	Seed int64
}

// DefaultPalette is the five-color palette of the level.
func DefaultPalette() []core.NamedColor {
	return []core.NamedColor{
		{Name: "BLUE", Color: core.ColorBlue},
		{Name: "RED", Color: core.ColorRed},
		{Name: "GREEN", Color: core.ColorGreen},
		{Name: "YELLOW", Color: core.ColorYellow},
		{Name: "PURPLE", Color: core.ColorPurple},
	}
}

// DefaultConfig returns the stock tuning on a 1280x720 field.
func DefaultConfig() Config {
	return Config{
		Width:  1280,
		Height: 720,

		Capacity:        100,
		TargetCount:     25,
		DistractorCount: 75,

		DotRadius:   24,
		ClickRadius: 48,
		SpeedMin:    50,
		SpeedMax:    300,

		HitQuota:        5,
		CheckpointEvery: 10,
		ScorePerHit:     10,
		RegenTotal:      100,
		RegenTargets:    10,

		Restitution: 0.8,
		Epsilon:     1.0,
		CellSize:    100,
		MaxDelta:    0.1,

		VibrationDuration:  0.6,
		DispersionDuration: 0.6,
		DispersionSpeedMin: 750,
		DispersionSpeedMax: 1250,
		SpawnJitter:        20,
		SpawnSpacing:       48,
		SpawnAttempts:      10,
		RegenSpacing:       60,
		RegenAttempts:      20,
		RegenMinDistance:   150,
		RegenEdgeMargin:    10,

		MotherRadius:    90,
		MotherAmplitude: 6,

		NotificationDuration: 2.0,
		ExplosionRadius:      60,
		ExplosionDuration:    0.3,
		MaxExplosions:        5,

		Particles: ParticleConfig{
			Prealloc:        100,
			Max:             200,
			BurstCount:      12,
			BurstSpeedMin:   60,
			BurstSpeedMax:   180,
			BurstLife:       0.5,
			BurstRadius:     4,
			CollisionCount:  3,
			CollisionSpeed:  100,
			CollisionLife:   0.2,
			CollisionRadius: 6,
		},
		AntiCluster: AntiClusterConfig{
			AvoidRadius: 150,
			AvoidAccel:  1250,
			MinSpeed:    50,
			ScanChance:  0.033,
			ScanRadius:  100,
			Threshold:   5,
			ImpulseMin:  250,
			ImpulseMax:  500,
			NudgeMin:    5,
			NudgeMax:    15,
		},

		Palette:    DefaultPalette(),
		Background: core.ColorBlack,
	}
}

// EligibleColors returns the palette indices usable for dots.
func (c Config) EligibleColors() []ColorID {
	ids := make([]ColorID, 0, len(c.Palette))
	for i, nc := range c.Palette {
		if nc.Color != c.Background {
			ids = append(ids, ColorID(i))
		}
	}
	return ids
}

// Validate reports every inconsistency in the configuration.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.DotRadius <= 0 {
		add("dot radius must be positive, got %g", c.DotRadius)
	}
	if c.Width <= 2*c.DotRadius || c.Height <= 2*c.DotRadius {
		add("field %gx%g is too small for dot radius %g", c.Width, c.Height, c.DotRadius)
	}
	if c.ClickRadius < c.DotRadius {
		add("click radius %g is smaller than dot radius %g", c.ClickRadius, c.DotRadius)
	}
	if c.Capacity <= 0 {
		add("capacity must be positive, got %d", c.Capacity)
	}
	if c.TargetCount <= 0 || c.DistractorCount < 0 {
		add("need at least one target and no negative distractors, got %d/%d", c.TargetCount, c.DistractorCount)
	}
	if n := c.TargetCount + c.DistractorCount; n > c.Capacity {
		add("%d dots requested but capacity is %d", n, c.Capacity)
	}
	if c.RegenTotal > c.Capacity {
		add("regeneration total %d exceeds capacity %d", c.RegenTotal, c.Capacity)
	}
	if c.RegenTargets <= 0 || c.RegenTargets > c.RegenTotal {
		add("regeneration targets %d must be in [1, %d]", c.RegenTargets, c.RegenTotal)
	}
	if c.SpeedMin < 0 || c.SpeedMax < c.SpeedMin {
		add("speed range [%g, %g] is invalid", c.SpeedMin, c.SpeedMax)
	}
	if c.HitQuota <= 0 {
		add("hit quota must be positive, got %d", c.HitQuota)
	}
	if c.CheckpointEvery < 0 {
		add("checkpoint interval must not be negative, got %d", c.CheckpointEvery)
	}
	if c.Restitution < 0 || c.Restitution >= 1 {
		add("restitution must be in [0, 1), got %g", c.Restitution)
	}
	if c.Epsilon <= 0 {
		add("epsilon must be positive, got %g", c.Epsilon)
	}
	if c.CellSize < 2*c.DotRadius {
		add("cell size %g must be at least twice the dot radius %g", c.CellSize, c.DotRadius)
	}
	if c.MaxDelta <= 0 {
		add("max delta must be positive, got %g", c.MaxDelta)
	}
	if c.Particles.Max <= 0 || c.Particles.Prealloc < 0 || c.Particles.Prealloc > c.Particles.Max {
		add("particle pool %d/%d is invalid", c.Particles.Prealloc, c.Particles.Max)
	}
	if c.MaxExplosions <= 0 {
		add("max explosions must be positive, got %d", c.MaxExplosions)
	}
	if len(c.EligibleColors()) < 2 {
		add("palette needs at least two colors besides the background, got %d", len(c.EligibleColors()))
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
