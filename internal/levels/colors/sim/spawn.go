package sim

import (
	"math"

	"github.com/vovakirdan/superstudent/internal/core"
)

// DistractorSplit divides total distractors over k colors. Every color gets
// total/k and the first total%k colors get one more.
func DistractorSplit(total, k int) []int {
	if k <= 0 {
		return nil
	}
	out := make([]int, k)
	per, extra := total/k, total%k
	for i := range out {
		out[i] = per
		if i < extra {
			out[i]++
		}
	}
	return out
}

// dispersalColors lists the color of every dot released by the mother dot:
// targets first, then the distractors grouped by color.
func dispersalColors(target ColorID, distractors []ColorID, targets, total int) []ColorID {
	out := make([]ColorID, 0, targets+total)
	for i := 0; i < targets; i++ {
		out = append(out, target)
	}
	for i, n := range DistractorSplit(total, len(distractors)) {
		for j := 0; j < n; j++ {
			out = append(out, distractors[i])
		}
	}
	return out
}

func (s *Simulation) startDispersion() {
	s.store.Clear()
	s.grid.Rebuild(s.store)

	target := s.cycle.Current()
	colors := dispersalColors(target, s.cycle.Distractors(), s.cfg.TargetCount, s.cfg.DistractorCount)
	for _, c := range colors {
		vel := core.FromAngle(s.rng.Angle()).Scale(s.rng.Range(s.cfg.DispersionSpeedMin, s.cfg.DispersionSpeedMax))
		s.store.Spawn(Dot{
			Pos:         s.center,
			Vel:         vel,
			Radius:      s.cfg.DotRadius,
			ClickRadius: s.cfg.ClickRadius,
			Color:       c,
			Target:      c == target,
		})
	}
	s.targetsLeft = s.store.Count(func(d *Dot) bool { return d.Target })

	s.enterPhase(PhaseDispersion)
	s.emit("dispersion started", "dots", s.store.Alive(), "target", s.cfg.Palette[target].Name)
}

func (s *Simulation) updateDispersion(dt float64) {
	s.store.Each(func(d *Dot) {
		d.Pos = s.clampInField(d.Pos.Add(d.Vel.Scale(dt)), d.Radius)
	})
	s.phaseTimer -= dt
	if s.phaseTimer <= 0 {
		s.finishDispersion()
	}
}

// finishDispersion settles the rays into their gameplay positions and hands
// every dot an outward-biased gameplay velocity.
func (s *Simulation) finishDispersion() {
	j := s.cfg.SpawnJitter
	s.store.Each(func(d *Dot) {
		p := d.Pos.Add(core.V(s.rng.Range(-j, j), s.rng.Range(-j, j)))
		p = s.clampInField(p, d.Radius)
		for attempt := 0; attempt < s.cfg.SpawnAttempts; attempt++ {
			if s.clearOf(p, s.cfg.SpawnSpacing, d.ID) {
				break
			}
			p = s.clampInField(p.Add(core.FromAngle(s.rng.Angle()).Scale(10)), d.Radius)
		}
		d.Pos = p
		d.Vel = s.outwardVelocity(p)
	})
	s.retarget()
	s.enterPhase(PhaseGameplay)
}

// regenerate refills the field once no target is left. If the current color
// already scored hits the target advances first; otherwise the same color is
// topped up.
func (s *Simulation) regenerate() {
	if s.cycle.Hits() > 0 {
		s.advanceTarget("targets exhausted")
	}

	target := s.cycle.Current()
	existing := s.store.Count(func(d *Dot) bool { return d.Color == target })
	needTargets := max(s.cfg.RegenTargets-existing, 0)
	alive := s.store.Alive()
	want := max(s.cfg.RegenTotal-alive, needTargets)
	if free := s.store.Cap() - alive; want > free {
		want = free
	}

	distractors := s.cycle.Distractors()
	created, targetsCreated := 0, 0
	for i := 0; i < want; i++ {
		c := target
		if targetsCreated >= needTargets {
			c = distractors[s.rng.Intn(len(distractors))]
		}
		p := s.regenPosition()
		if _, ok := s.store.Spawn(Dot{
			Pos:         p,
			Vel:         s.randomVelocity(),
			Radius:      s.cfg.DotRadius,
			ClickRadius: s.cfg.ClickRadius,
			Color:       c,
		}); !ok {
			break
		}
		created++
		if c == target {
			targetsCreated++
		}
	}

	// A full store cannot take new targets, so repaint distractors instead.
	recolored := 0
	if short := needTargets - targetsCreated; short > 0 {
		s.store.Each(func(d *Dot) {
			if recolored < short && d.Color != target {
				d.Color = target
				recolored++
			}
		})
	}

	s.retarget()
	s.notice.show(target, s.cfg.NotificationDuration)
	s.stats.Regenerations++
	s.emit("regenerated",
		"created", created,
		"recolored", recolored,
		"targets", s.targetsLeft,
		"alive", s.store.Alive(),
	)
}

// regenPosition picks a spot on a ring around the center, away from other
// dots when possible.
func (s *Simulation) regenPosition() core.Vec2 {
	r := s.cfg.DotRadius
	j := s.cfg.SpawnJitter
	lo := s.cfg.RegenMinDistance
	hi := math.Min(s.cfg.Width, s.cfg.Height)/2 - 2*r
	if hi < lo {
		hi = lo
	}

	var p core.Vec2
	for attempt := 0; attempt < s.cfg.RegenAttempts; attempt++ {
		p = s.center.Add(core.FromAngle(s.rng.Angle()).Scale(s.rng.Range(lo, hi)))
		p = p.Add(core.V(s.rng.Range(-j, j), s.rng.Range(-j, j)))
		p = s.clampInField(p, r+s.cfg.RegenEdgeMargin)
		if s.clearOf(p, s.cfg.RegenSpacing, s.store.Cap()) {
			break
		}
	}
	return p
}

// clearOf reports whether p is at least spacing away from every alive dot
// with an id below limit.
func (s *Simulation) clearOf(p core.Vec2, spacing float64, limit int) bool {
	sp2 := spacing * spacing
	ok := true
	s.store.Each(func(d *Dot) {
		if ok && d.ID < limit && d.Pos.Sub(p).LenSq() < sp2 {
			ok = false
		}
	})
	return ok
}

func (s *Simulation) clampInField(p core.Vec2, margin float64) core.Vec2 {
	return core.V(
		core.ClampF(p.X, margin, s.cfg.Width-margin),
		core.ClampF(p.Y, margin, s.cfg.Height-margin),
	)
}

func (s *Simulation) axisSpeed() float64 {
	return s.rng.Range(s.cfg.SpeedMin, s.cfg.SpeedMax) * s.speedScale
}

func (s *Simulation) randomVelocity() core.Vec2 {
	return core.V(s.axisSpeed()*s.rng.Sign(), s.axisSpeed()*s.rng.Sign())
}

// outwardVelocity points each axis away from the center.
func (s *Simulation) outwardVelocity(p core.Vec2) core.Vec2 {
	sign := func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return s.rng.Sign()
		}
	}
	n := p.Sub(s.center)
	return core.V(s.axisSpeed()*sign(n.X), s.axisSpeed()*sign(n.Y))
}

// burst sprays particles around a destroyed dot.
func (s *Simulation) burst(pos core.Vec2, color core.Color) {
	pc := s.cfg.Particles
	if pc.BurstCount <= 0 {
		return
	}
	step := 2 * math.Pi / float64(pc.BurstCount)
	for i := 0; i < pc.BurstCount; i++ {
		dir := core.FromAngle(float64(i)*step + s.rng.Range(-step/4, step/4))
		vel := dir.Scale(s.rng.Range(pc.BurstSpeedMin, pc.BurstSpeedMax))
		if !s.particles.Emit(pos, vel, color, pc.BurstRadius, pc.BurstLife) {
			s.stats.DroppedParticles += pc.BurstCount - i
			return
		}
	}
}

// collisionParticles emits sparks at a contact point in the colors of the
// two dots involved.
func (s *Simulation) collisionParticles(at core.Vec2, a, b ColorID) {
	pc := s.cfg.Particles
	for i := 0; i < pc.CollisionCount; i++ {
		c := a
		if s.rng.Intn(2) == 1 {
			c = b
		}
		vel := core.V(
			s.rng.Range(-pc.CollisionSpeed, pc.CollisionSpeed),
			s.rng.Range(-pc.CollisionSpeed, pc.CollisionSpeed),
		)
		radius := pc.CollisionRadius * s.rng.Range(0.5, 1)
		if !s.particles.Emit(at, vel, s.cfg.Palette[c].Color, radius, pc.CollisionLife) {
			s.stats.DroppedParticles += pc.CollisionCount - i
			return
		}
	}
}
