package config

import (
	_ "embed"
)

//go:embed defaults/colors.yaml
var defaultColorsYAML []byte

// DefaultColorsConfig returns the default colors level configuration.
func DefaultColorsConfig() ColorsConfig {
	return ColorsConfig{
		Field: FieldConfig{
			Width:  1280,
			Height: 720,
		},
		Dots: DotsConfig{
			Capacity:    100,
			Targets:     25,
			Distractors: 75,
			Radius:      24,
			ClickRadius: 48,
			SpeedMin:    50,
			SpeedMax:    300,
		},
		Rules: RulesConfig{
			HitQuota:        5,
			CheckpointEvery: 10,
			ScorePerHit:     10,
			RegenTotal:      100,
			RegenTargets:    10,
		},
		Physics: PhysicsConfig{
			Restitution: 0.8,
			Epsilon:     1.0,
			CellSize:    100,
			MaxDelta:    0.1,
		},
		Intro: IntroConfig{
			Vibration:          0.6,
			Dispersion:         0.6,
			DispersionSpeedMin: 750,
			DispersionSpeedMax: 1250,
			MotherRadius:       90,
			MotherAmplitude:    6,
		},
		Effects: EffectsConfig{
			Notification:      2.0,
			ExplosionRadius:   60,
			ExplosionDuration: 0.3,
			MaxExplosions:     5,
			ParticlesPrealloc: 100,
			ParticlesMax:      200,
			BurstCount:        12,
			CollisionSparks:   3,
		},
		AntiCluster: AntiClusterConfig{
			AvoidRadius: 150,
			AvoidAccel:  1250,
			MinSpeed:    50,
			ScanChance:  0.033,
			ScanRadius:  100,
			Threshold:   5,
		},
		Palette: []PaletteEntry{
			{Name: "BLUE", Hex: "#0000ff"},
			{Name: "RED", Hex: "#ff0000"},
			{Name: "GREEN", Hex: "#00c800"},
			{Name: "YELLOW", Hex: "#ffff00"},
			{Name: "PURPLE", Hex: "#8000ff"},
		},
		Background: "#000000",
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}
