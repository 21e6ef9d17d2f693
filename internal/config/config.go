// Package config provides YAML-based level configuration loading and
// difficulty management for SuperStudent.
package config

// ColorsConfig contains all configuration for the colors level.
type ColorsConfig struct {
	Field       FieldConfig       `yaml:"field"`
	Dots        DotsConfig        `yaml:"dots"`
	Rules       RulesConfig       `yaml:"rules"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Intro       IntroConfig       `yaml:"intro"`
	Effects     EffectsConfig     `yaml:"effects"`
	AntiCluster AntiClusterConfig `yaml:"anti_cluster"`
	Palette     []PaletteEntry    `yaml:"palette"`
	Background  string            `yaml:"background"`
	Difficulty  DifficultyConfig  `yaml:"difficulty"`
}

// FieldConfig is the size of the playing field in world units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DotsConfig defines the dot population and dot geometry.
type DotsConfig struct {
	Capacity    int     `yaml:"capacity"`
	Targets     int     `yaml:"targets"`
	Distractors int     `yaml:"distractors"`
	Radius      float64 `yaml:"radius"`
	ClickRadius float64 `yaml:"click_radius"`
	SpeedMin    float64 `yaml:"speed_min"` // Per axis, units/s
	SpeedMax    float64 `yaml:"speed_max"`
}

// RulesConfig defines scoring, target rotation and regeneration.
type RulesConfig struct {
	HitQuota        int `yaml:"hit_quota"`
	CheckpointEvery int `yaml:"checkpoint_every"` // 0 disables checkpoints
	ScorePerHit     int `yaml:"score_per_hit"`
	RegenTotal      int `yaml:"regen_total"`
	RegenTargets    int `yaml:"regen_targets"`
}

// PhysicsConfig defines collision and integration parameters.
type PhysicsConfig struct {
	Restitution float64 `yaml:"restitution"`
	Epsilon     float64 `yaml:"epsilon"`
	CellSize    float64 `yaml:"cell_size"`
	MaxDelta    float64 `yaml:"max_delta"`
}

// IntroConfig defines the mother dot and the dispersal.
type IntroConfig struct {
	Vibration          float64 `yaml:"vibration"`  // Seconds
	Dispersion         float64 `yaml:"dispersion"` // Seconds
	DispersionSpeedMin float64 `yaml:"dispersion_speed_min"`
	DispersionSpeedMax float64 `yaml:"dispersion_speed_max"`
	MotherRadius       float64 `yaml:"mother_radius"`
	MotherAmplitude    float64 `yaml:"mother_amplitude"`
}

// EffectsConfig defines notifications, explosions and the particle pool.
type EffectsConfig struct {
	Notification      float64 `yaml:"notification"` // Seconds
	ExplosionRadius   float64 `yaml:"explosion_radius"`
	ExplosionDuration float64 `yaml:"explosion_duration"`
	MaxExplosions     int     `yaml:"max_explosions"`
	ParticlesPrealloc int     `yaml:"particles_prealloc"`
	ParticlesMax      int     `yaml:"particles_max"`
	BurstCount        int     `yaml:"burst_count"`
	CollisionSparks   int     `yaml:"collision_sparks"`
}

// AntiClusterConfig defines the center avoidance and cluster dispersal.
type AntiClusterConfig struct {
	AvoidRadius float64 `yaml:"avoid_radius"`
	AvoidAccel  float64 `yaml:"avoid_accel"`
	MinSpeed    float64 `yaml:"min_speed"`
	ScanChance  float64 `yaml:"scan_chance"`
	ScanRadius  float64 `yaml:"scan_radius"`
	Threshold   int     `yaml:"threshold"`
}

// PaletteEntry is a named color given as "#rrggbb".
type PaletteEntry struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/frames at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to dot speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}
