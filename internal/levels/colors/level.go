// Package colors implements the Colors level: a mother dot releases a
// swarm of colored dots and the player destroys the ones matching the
// announced target color.
package colors

import (
	"fmt"

	"github.com/vovakirdan/superstudent/internal/config"
	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/levels/colors/sim"
	"github.com/vovakirdan/superstudent/internal/registry"
)

// LevelID is the registry and storage key of the level.
const LevelID = "colors"

// hudRows is the number of screen rows above the playfield.
const hudRows = 1

// presetFor maps a difficulty flag value to a preset. Unknown or empty
// values keep the difficulty of the config file.
func presetFor(name string) config.DifficultyPreset {
	switch p := config.DifficultyPreset(name); p {
	case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		return p
	default:
		return ""
	}
}

// Level adapts the colors simulation to the platform: it loads the YAML
// config, maps screen cells to world units and draws into a core.Screen.
type Level struct {
	configPath string
	preset     config.DifficultyPreset

	runtime    core.RuntimeConfig
	cfg        config.ColorsConfig
	sim        *sim.Simulation
	difficulty *config.DifficultyManager

	paused     bool
	checkpoint bool
	frames     int
	pending    []core.Event
}

// New creates a new colors level instance.
func New(opts registry.Options) *Level {
	return &Level{
		configPath: opts.ConfigPath,
		preset:     presetFor(opts.Difficulty),
	}
}

// ID returns the unique identifier for this level.
func (l *Level) ID() string {
	return LevelID
}

// Title returns the display name for this level.
func (l *Level) Title() string {
	return "Colors"
}

// Reset loads the configuration and starts a fresh run.
// A broken config file falls back to the defaults and reports a
// "config fallback" event on the next step.
func (l *Level) Reset(runtime core.RuntimeConfig) {
	l.runtime = runtime
	l.pending = l.pending[:0]

	cfg, err := config.LoadColors(l.configPath)
	if err != nil {
		l.warn(err)
		cfg = config.DefaultColorsConfig()
	}
	if l.preset != "" {
		config.ApplyColorsPreset(&cfg, l.preset)
	}

	sc, err := SimConfig(cfg, runtime.Seed)
	if err == nil {
		l.sim, err = sim.New(sc)
	}
	if err != nil {
		l.warn(err)
		cfg = config.DefaultColorsConfig()
		sc = sim.DefaultConfig()
		sc.Seed = runtime.Seed
		if l.sim, err = sim.New(sc); err != nil {
			panic(fmt.Sprintf("colors: default config rejected: %v", err))
		}
	}

	l.cfg = cfg
	l.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	l.sim.SetSpeedScale(l.difficulty.Speed(1, 0, 0))

	l.paused = false
	l.checkpoint = false
	l.frames = 0
}

func (l *Level) warn(err error) {
	l.pending = append(l.pending, core.Event{
		Name: "config fallback",
		Args: []any{"err", err},
	})
}

// SimConfig converts the YAML configuration into simulation parameters.
// Values the file does not cover keep their simulation defaults.
func SimConfig(cfg config.ColorsConfig, seed int64) (sim.Config, error) {
	sc := sim.DefaultConfig()

	palette, bg, err := cfg.ResolvePalette()
	if err != nil {
		return sc, fmt.Errorf("colors: %w", err)
	}
	sc.Palette = palette
	sc.Background = bg
	sc.Seed = seed

	sc.Width, sc.Height = cfg.Field.Width, cfg.Field.Height

	sc.Capacity = cfg.Dots.Capacity
	sc.TargetCount = cfg.Dots.Targets
	sc.DistractorCount = cfg.Dots.Distractors
	sc.DotRadius = cfg.Dots.Radius
	sc.ClickRadius = cfg.Dots.ClickRadius
	sc.SpeedMin, sc.SpeedMax = cfg.Dots.SpeedMin, cfg.Dots.SpeedMax

	sc.HitQuota = cfg.Rules.HitQuota
	sc.CheckpointEvery = cfg.Rules.CheckpointEvery
	sc.ScorePerHit = cfg.Rules.ScorePerHit
	sc.RegenTotal = cfg.Rules.RegenTotal
	sc.RegenTargets = cfg.Rules.RegenTargets

	sc.Restitution = cfg.Physics.Restitution
	sc.Epsilon = cfg.Physics.Epsilon
	sc.CellSize = cfg.Physics.CellSize
	sc.MaxDelta = cfg.Physics.MaxDelta

	sc.VibrationDuration = cfg.Intro.Vibration
	sc.DispersionDuration = cfg.Intro.Dispersion
	sc.DispersionSpeedMin = cfg.Intro.DispersionSpeedMin
	sc.DispersionSpeedMax = cfg.Intro.DispersionSpeedMax
	sc.MotherRadius = cfg.Intro.MotherRadius
	sc.MotherAmplitude = cfg.Intro.MotherAmplitude

	sc.NotificationDuration = cfg.Effects.Notification
	sc.ExplosionRadius = cfg.Effects.ExplosionRadius
	sc.ExplosionDuration = cfg.Effects.ExplosionDuration
	sc.MaxExplosions = cfg.Effects.MaxExplosions
	sc.Particles.Prealloc = cfg.Effects.ParticlesPrealloc
	sc.Particles.Max = cfg.Effects.ParticlesMax
	sc.Particles.BurstCount = cfg.Effects.BurstCount
	sc.Particles.CollisionCount = cfg.Effects.CollisionSparks

	sc.AntiCluster.AvoidRadius = cfg.AntiCluster.AvoidRadius
	sc.AntiCluster.AvoidAccel = cfg.AntiCluster.AvoidAccel
	sc.AntiCluster.MinSpeed = cfg.AntiCluster.MinSpeed
	sc.AntiCluster.ScanChance = cfg.AntiCluster.ScanChance
	sc.AntiCluster.ScanRadius = cfg.AntiCluster.ScanRadius
	sc.AntiCluster.Threshold = cfg.AntiCluster.Threshold

	if err := sc.Validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// Step advances the level by one frame.
func (l *Level) Step(in core.InputFrame) core.StepResult {
	if l.checkpoint {
		if in.Has(core.ActionConfirm) || hasPress(in) {
			l.checkpoint = false
			l.sim.ResumeFromCheckpoint()
		}
		return l.result()
	}

	if in.Has(core.ActionPause) {
		l.paused = !l.paused
		l.pending = append(l.pending, core.Event{Name: "paused", Args: []any{"paused", l.paused}})
	}
	if l.paused {
		return l.result()
	}

	for _, ev := range in.Pointer {
		if !in.World {
			var ok bool
			if ev.Pos, ok = l.toWorld(ev.Pos); !ok {
				continue
			}
		}
		l.sim.HandleInput(ev)
	}

	l.sim.Update(in.DT)
	l.frames++

	if l.difficulty.IsEnabled() {
		p := l.sim.Progress()
		l.sim.SetSpeedScale(l.difficulty.Speed(1, p.Score, l.frames))
	}

	if l.sim.ConsumeCheckpoint() {
		l.checkpoint = true
	}
	return l.result()
}

func hasPress(in core.InputFrame) bool {
	for _, ev := range in.Pointer {
		if ev.Kind == core.PointerDown {
			return true
		}
	}
	return false
}

func (l *Level) result() core.StepResult {
	drained := l.sim.DrainEvents()
	var events []core.Event
	if n := len(l.pending) + len(drained); n > 0 {
		events = make([]core.Event, 0, n)
		events = append(events, l.pending...)
		events = append(events, drained...)
	}
	l.pending = l.pending[:0]
	return core.StepResult{State: l.State(), Events: events}
}

// toWorld maps a screen cell to the world point at its center.
// Cells on the HUD rows are rejected.
func (l *Level) toWorld(cell core.Vec2) (core.Vec2, bool) {
	w, h := l.playfield()
	row := cell.Y - hudRows
	if w <= 0 || h <= 0 || row < 0 || cell.X < 0 || cell.X >= float64(w) || row >= float64(h) {
		return core.Vec2{}, false
	}
	sc := l.sim.Config()
	return core.V(
		(cell.X+0.5)*sc.Width/float64(w),
		(row+0.5)*sc.Height/float64(h),
	), true
}

// playfield returns the size in cells of the area below the HUD.
func (l *Level) playfield() (int, int) {
	return l.runtime.ScreenW, l.runtime.ScreenH - hudRows
}

// State returns the current level state.
func (l *Level) State() core.GameState {
	score := 0
	if l.sim != nil {
		score = l.sim.Progress().Score
	}
	return core.GameState{
		Score:      score,
		Paused:     l.paused,
		Checkpoint: l.checkpoint,
	}
}

// Resize updates the terminal size without restarting the run.
func (l *Level) Resize(width, height int) {
	l.runtime.ScreenW = width
	l.runtime.ScreenH = height
}

// Sim exposes the simulation to renderers that draw in world units.
func (l *Level) Sim() *sim.Simulation {
	return l.sim
}

// ResumeFromCheckpoint continues play after the checkpoint screen.
func (l *Level) ResumeFromCheckpoint() {
	if l.checkpoint {
		l.checkpoint = false
		l.sim.ResumeFromCheckpoint()
	}
}

// SaveProgress returns the state to persist.
func (l *Level) SaveProgress() core.SavedProgress {
	return l.sim.SaveProgress()
}

// RestoreProgress loads previously saved state.
func (l *Level) RestoreProgress(p core.SavedProgress) error {
	return l.sim.RestoreProgress(p)
}

var _ registry.Checkpointer = (*Level)(nil)

func init() {
	registry.Register(LevelID, func(opts registry.Options) registry.Level {
		return New(opts)
	})
}
