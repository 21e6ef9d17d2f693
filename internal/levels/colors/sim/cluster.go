package sim

import (
	"math"

	"github.com/vovakirdan/superstudent/internal/core"
)

// AntiClusterController keeps dots from piling up in the middle of the field.
//
// Avoid is a continuous push applied to every dot near the center each frame.
// Scan runs only with probability ScanChance per frame; when it finds more
// than Threshold dots within ScanRadius it kicks all of them outward.
type AntiClusterController struct {
	cfg    AntiClusterConfig
	center core.Vec2
}

// NewAntiClusterController creates a controller for the given field center.
func NewAntiClusterController(cfg AntiClusterConfig, center core.Vec2) *AntiClusterController {
	return &AntiClusterController{cfg: cfg, center: center}
}

// outward returns the unit vector from the center toward p and the distance.
// A dot sitting on the center gets a random direction.
func (c *AntiClusterController) outward(p core.Vec2, rng *RNG) (core.Vec2, float64) {
	d := p.Sub(c.center)
	dist := d.Len()
	if dist == 0 {
		return core.FromAngle(rng.Angle()), 0
	}
	return d.Scale(1 / dist), dist
}

// Avoid accelerates d away from the center with a force that grows
// quadratically as the dot gets closer, and enforces MinSpeed inside the
// avoid radius.
func (c *AntiClusterController) Avoid(d *Dot, dt float64, rng *RNG) {
	if c.cfg.AvoidRadius <= 0 {
		return
	}
	n, dist := c.outward(d.Pos, rng)
	if dist >= c.cfg.AvoidRadius {
		return
	}

	f := 1 - dist/c.cfg.AvoidRadius
	d.Vel = d.Vel.Add(n.Scale(f * f * c.cfg.AvoidAccel * dt))

	switch speed := d.Vel.Len(); {
	case speed == 0:
		d.Vel = n.Scale(c.cfg.MinSpeed)
	case speed < c.cfg.MinSpeed:
		d.Vel = d.Vel.Scale(c.cfg.MinSpeed / speed)
	}
}

// Scan occasionally checks for a central cluster and disperses it.
// Returns the number of dots pushed, 0 when the scan did not run or found
// nothing to do.
func (c *AntiClusterController) Scan(store *DotStore, rng *RNG) int {
	if rng.Float64() >= c.cfg.ScanChance {
		return 0
	}

	r2 := c.cfg.ScanRadius * c.cfg.ScanRadius
	inside := store.Count(func(d *Dot) bool {
		return d.Pos.Sub(c.center).LenSq() < r2
	})
	if inside <= c.cfg.Threshold {
		return 0
	}

	store.Each(func(d *Dot) {
		if d.Pos.Sub(c.center).LenSq() >= r2 {
			return
		}
		n, dist := c.outward(d.Pos, rng)
		prox := 1 - dist/c.cfg.ScanRadius
		impulse := c.cfg.ImpulseMin + (c.cfg.ImpulseMax-c.cfg.ImpulseMin)*prox*prox
		d.Vel = d.Vel.Add(n.Scale(impulse))

		if d.Vel.Len() < c.cfg.MinSpeed || d.Vel.Dot(n) <= 0 {
			dir := core.FromAngle(math.Atan2(n.Y, n.X) + rng.Range(-math.Pi/4, math.Pi/4))
			d.Vel = dir.Scale(rng.Range(c.cfg.ImpulseMin, c.cfg.ImpulseMax))
		}

		d.Pos = d.Pos.Add(n.Scale(rng.Range(c.cfg.NudgeMin, c.cfg.NudgeMax)))
	})
	return inside
}
