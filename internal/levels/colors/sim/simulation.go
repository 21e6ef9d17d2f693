// Package sim is the colors level engine: dots that move, bounce and collide,
// a phase state machine from the opening vibration to free-roam gameplay,
// target color selection, and pooled visual effects.
//
// A Simulation is single-threaded. The owner calls HandleInput for each
// pointer event and Update once per frame, then reads state for drawing.
package sim

import (
	"math"

	"github.com/vovakirdan/superstudent/internal/core"
)

const maxPendingEvents = 256

// Stats are running counters useful for logs and tests.
type Stats struct {
	Collisions        int // Contacts resolved since Reset
	ClusterDispersals int // Cluster scans that pushed dots
	DroppedParticles  int // Effects lost to a full pool
	Regenerations     int
}

// Simulation owns all state of one colors level.
type Simulation struct {
	cfg    Config
	center core.Vec2
	rng    *RNG

	phase      Phase
	phaseTimer float64

	store      *DotStore
	grid       *SpatialGrid
	resolver   CollisionResolver
	cluster    *AntiClusterController
	cycle      *TargetColorCycle
	particles  *ParticleManager
	explosions *Explosions
	notice     Notification
	mother     *MotherDot

	collisionsEnabled bool
	checkpoint        bool
	targetsLeft       int
	totalDestroyed    int
	score             int
	speedScale        float64

	frame   uint64
	elapsed float64
	stats   Stats
	events  []core.Event
}

// New validates cfg and builds a simulation in the mother vibration phase.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cull := cfg.Particles.CullDistance
	if cull <= 0 {
		cull = cfg.Width + cfg.Height
	}

	s := &Simulation{
		cfg:        cfg,
		center:     core.V(cfg.Width/2, cfg.Height/2),
		store:      NewDotStore(cfg.Capacity),
		grid:       NewSpatialGrid(cfg.CellSize),
		resolver:   CollisionResolver{Restitution: cfg.Restitution, Epsilon: cfg.Epsilon},
		particles:  NewParticleManager(cfg.Particles.Prealloc, cfg.Particles.Max, cull),
		explosions: NewExplosions(cfg.MaxExplosions),
		events:     make([]core.Event, 0, 16),
	}
	s.cluster = NewAntiClusterController(cfg.AntiCluster, s.center)
	s.Reset()
	return s, nil
}

// Reset returns the level to its initial state with a fresh color sweep.
// Must be called between frames.
func (s *Simulation) Reset() {
	s.rng = NewRNG(s.cfg.Seed)
	s.store.Clear()
	s.particles.Clear()
	s.explosions.Clear()
	s.cycle = NewTargetColorCycle(s.cfg.EligibleColors(), s.cfg.HitQuota, s.rng)
	s.mother = NewMotherDot(s.center, s.cfg.MotherRadius, s.cfg.MotherAmplitude, s.cfg.Seed)
	s.notice = Notification{}

	s.collisionsEnabled = false
	s.checkpoint = false
	s.targetsLeft = 0
	s.totalDestroyed = 0
	s.score = 0
	s.speedScale = 1
	s.frame = 0
	s.elapsed = 0
	s.stats = Stats{}
	s.events = s.events[:0]

	s.phase = PhaseMotherVibration
	s.phaseTimer = s.cfg.VibrationDuration
}

// Update advances the simulation by dt seconds. Negative or NaN dt counts as
// zero and dt above MaxDelta is clamped.
func (s *Simulation) Update(dt float64) {
	dt = s.clampDelta(dt)
	s.frame++
	s.elapsed += dt

	switch s.phase {
	case PhaseMotherVibration:
		s.updateVibration(dt)
	case PhaseWaitingForClick:
		// Idle until HandleInput sees a press.
	case PhaseDispersion:
		s.updateDispersion(dt)
	case PhaseGameplay:
		s.updateGameplay(dt)
	}

	s.particles.Update(dt)
	s.explosions.Update(dt)
	s.notice.update(dt)
}

func (s *Simulation) clampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if dt > s.cfg.MaxDelta {
		return s.cfg.MaxDelta
	}
	return dt
}

// HandleInput reacts to a pointer event in world coordinates. Only presses
// matter: the first one starts the dispersal, later ones are hit tested.
func (s *Simulation) HandleInput(ev core.InputEvent) {
	if ev.Kind != core.PointerDown {
		return
	}
	switch s.phase {
	case PhaseWaitingForClick:
		s.startDispersion()
	case PhaseGameplay:
		s.hitTest(ev.Pos)
	}
}

func (s *Simulation) enterPhase(p Phase) {
	prev := s.phase
	s.phase = p
	switch p {
	case PhaseMotherVibration:
		s.phaseTimer = s.cfg.VibrationDuration
		s.mother.reset()
	case PhaseDispersion:
		s.phaseTimer = s.cfg.DispersionDuration
	default:
		s.phaseTimer = 0
	}
	s.emit("phase changed", "from", prev.String(), "to", p.String())
}

func (s *Simulation) updateVibration(dt float64) {
	s.mother.Update(dt)
	s.phaseTimer -= dt
	if s.phaseTimer <= 0 {
		s.enterPhase(PhaseWaitingForClick)
	}
}

func (s *Simulation) updateGameplay(dt float64) {
	if s.targetsLeft == 0 {
		s.regenerate()
	}

	s.store.Each(func(d *Dot) {
		s.cluster.Avoid(d, dt, s.rng)
		d.Pos = d.Pos.Add(d.Vel.Scale(dt))
		s.bounce(d)
	})

	s.grid.Rebuild(s.store)
	if s.collisionsEnabled {
		s.resolveCollisions()
	}

	if n := s.cluster.Scan(s.store, s.rng); n > 0 {
		s.stats.ClusterDispersals++
		s.emit("cluster dispersed", "dots", n)
	}
}

// bounce reflects d off the field edges and puts it back inside.
func (s *Simulation) bounce(d *Dot) {
	r := d.Radius
	if d.Pos.X-r < 0 {
		d.Pos.X = r
		d.Vel.X = math.Abs(d.Vel.X)
	} else if d.Pos.X+r > s.cfg.Width {
		d.Pos.X = s.cfg.Width - r
		d.Vel.X = -math.Abs(d.Vel.X)
	}
	if d.Pos.Y-r < 0 {
		d.Pos.Y = r
		d.Vel.Y = math.Abs(d.Vel.Y)
	} else if d.Pos.Y+r > s.cfg.Height {
		d.Pos.Y = s.cfg.Height - r
		d.Vel.Y = -math.Abs(d.Vel.Y)
	}
}

func (s *Simulation) resolveCollisions() {
	s.grid.ForEachCandidate(s.store, func(a, b *Dot) {
		c, ok := s.resolver.Resolve(a, b, s.rng)
		if !ok {
			return
		}
		s.stats.Collisions++
		if c.Approaching {
			s.collisionParticles(c.Point, a.Color, b.Color)
		}
	})
}

// hitTest destroys the nearest target dot whose click radius contains p.
// Misses and non-target hits change nothing.
func (s *Simulation) hitTest(p core.Vec2) bool {
	var best *Dot
	bestDist := math.Inf(1)
	s.store.Each(func(d *Dot) {
		if !d.Target {
			return
		}
		dist := d.Pos.Dist(p)
		if dist <= d.ClickRadius && dist < bestDist {
			best, bestDist = d, dist
		}
	})
	if best == nil {
		return false
	}
	s.destroy(best)
	return true
}

func (s *Simulation) destroy(d *Dot) {
	pos, color := d.Pos, s.cfg.Palette[d.Color]
	s.store.Kill(d.ID)
	s.targetsLeft--
	s.totalDestroyed++
	s.score += s.cfg.ScorePerHit

	s.burst(pos, color.Color)
	s.explosions.Add(pos, color.Color, s.cfg.ExplosionRadius, s.cfg.ExplosionDuration)

	hits := s.cycle.RecordHit()
	s.emit("target destroyed",
		"dot", d.ID,
		"color", color.Name,
		"hits", hits,
		"total", s.totalDestroyed,
	)

	if s.cycle.ThresholdReached() {
		s.advanceTarget("quota reached")
	}

	if every := s.cfg.CheckpointEvery; every > 0 && s.totalDestroyed%every == 0 {
		s.checkpoint = true
		s.emit("checkpoint", "total", s.totalDestroyed, "score", s.score)
	}
}

// advanceTarget moves to the next color of the sweep. The first change of
// the level arms collisions.
func (s *Simulation) advanceTarget(reason string) {
	prev := s.cycle.Current()
	next := s.cycle.Next()
	if !s.collisionsEnabled {
		s.collisionsEnabled = true
		s.emit("collisions enabled")
	}
	s.retarget()
	s.notice.show(next, s.cfg.NotificationDuration)
	s.emit("target changed",
		"from", s.cfg.Palette[prev].Name,
		"to", s.cfg.Palette[next].Name,
		"reason", reason,
		"targets", s.targetsLeft,
	)
}

// retarget flags alive dots of the current color and recounts them.
func (s *Simulation) retarget() {
	target := s.cycle.Current()
	n := 0
	s.store.Each(func(d *Dot) {
		d.Target = d.Color == target
		if d.Target {
			n++
		}
	})
	s.targetsLeft = n
}

func (s *Simulation) emit(name string, args ...any) {
	if len(s.events) >= maxPendingEvents {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append(s.events, core.Event{Name: name, Args: args})
}

// DrainEvents returns the events raised since the previous call.
func (s *Simulation) DrainEvents() []core.Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]core.Event, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}

// ConsumeCheckpoint reports a pending checkpoint request and clears it.
func (s *Simulation) ConsumeCheckpoint() bool {
	c := s.checkpoint
	s.checkpoint = false
	return c
}

// CheckpointPending reports a checkpoint request without clearing it.
func (s *Simulation) CheckpointPending() bool {
	return s.checkpoint
}

// ResumeFromCheckpoint shows the target notification again and recounts
// targets. Collision state is kept.
func (s *Simulation) ResumeFromCheckpoint() {
	if s.phase == PhaseGameplay {
		s.retarget()
	}
	s.notice.show(s.cycle.Current(), s.cfg.NotificationDuration)
	s.emit("resumed", "target", s.TargetColor().Name, "targets", s.targetsLeft)
}

// SetSpeedScale multiplies the speed of dots created from now on.
func (s *Simulation) SetSpeedScale(f float64) {
	if f > 0 && !math.IsInf(f, 0) {
		s.speedScale = f
	}
}

// Phase returns the active phase.
func (s *Simulation) Phase() Phase {
	return s.phase
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config {
	return s.cfg
}

// Frame returns the number of Update calls since Reset.
func (s *Simulation) Frame() uint64 {
	return s.frame
}

// Elapsed returns the simulated seconds since Reset.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Stats returns the running counters.
func (s *Simulation) Stats() Stats {
	return s.stats
}

// CollisionsEnabled reports whether dots collide with each other yet.
func (s *Simulation) CollisionsEnabled() bool {
	return s.collisionsEnabled
}

// TargetColor returns the active target color.
func (s *Simulation) TargetColor() core.NamedColor {
	return s.cfg.Palette[s.cycle.Current()]
}

// ColorOf returns the palette entry for id.
func (s *Simulation) ColorOf(id ColorID) core.NamedColor {
	return s.cfg.Palette[id]
}

// EachDot calls fn with a copy of every alive dot in id order.
func (s *Simulation) EachDot(fn func(d Dot)) {
	s.store.Each(func(d *Dot) { fn(*d) })
}

// EachParticle calls fn with a copy of every active particle.
func (s *Simulation) EachParticle(fn func(p Particle)) {
	s.particles.Each(func(p *Particle) { fn(*p) })
}

// EachExplosion calls fn for every live explosion ring.
func (s *Simulation) EachExplosion(fn func(e Explosion)) {
	s.explosions.Each(fn)
}

// Notification returns the target notification; check Active before drawing.
func (s *Simulation) Notification() Notification {
	return s.notice
}

// Mother returns the mother dot position and radius, and whether it is shown.
func (s *Simulation) Mother() (core.Vec2, float64, bool) {
	switch s.phase {
	case PhaseMotherVibration:
		return s.mother.Pos(), s.mother.Radius, true
	case PhaseWaitingForClick:
		return s.mother.Center, s.mother.Radius, true
	default:
		return core.Vec2{}, 0, false
	}
}
