package sim

import "github.com/vovakirdan/superstudent/internal/core"

// Contact describes a resolved collision.
type Contact struct {
	Point       core.Vec2 // Midpoint between the two centers after separation
	Approaching bool      // Velocities were exchanged
	Degenerate  bool      // Centers were closer than Epsilon; separated along a random axis
}

// CollisionResolver is the narrow phase and the collision response.
type CollisionResolver struct {
	Restitution float64
	Epsilon     float64
}

// Resolve separates a and b if they overlap and, when they are moving toward
// each other, exchanges their normal velocity components scaled by
// Restitution. Reports false when the dots do not touch.
func (r CollisionResolver) Resolve(a, b *Dot, rng *RNG) (Contact, bool) {
	delta := a.Pos.Sub(b.Pos)
	sum := a.Radius + b.Radius
	distSq := delta.LenSq()
	if distSq >= sum*sum {
		return Contact{}, false
	}

	dist := delta.Len()
	if dist < r.Epsilon {
		n := core.FromAngle(rng.Angle())
		a.Pos = a.Pos.Add(n.Scale(a.Radius))
		b.Pos = b.Pos.Sub(n.Scale(b.Radius))
		return Contact{
			Point:      a.Pos.Add(b.Pos).Scale(0.5),
			Degenerate: true,
		}, true
	}

	n := delta.Scale(1 / dist)
	half := (sum - dist) / 2
	a.Pos = a.Pos.Add(n.Scale(half))
	b.Pos = b.Pos.Sub(n.Scale(half))

	van := a.Vel.Dot(n)
	vbn := b.Vel.Dot(n)
	approaching := van-vbn < 0
	if approaching {
		a.Vel = a.Vel.Sub(n.Scale(van)).Add(n.Scale(r.Restitution * vbn))
		b.Vel = b.Vel.Sub(n.Scale(vbn)).Add(n.Scale(r.Restitution * van))
	}

	return Contact{
		Point:       a.Pos.Add(b.Pos).Scale(0.5),
		Approaching: approaching,
	}, true
}
