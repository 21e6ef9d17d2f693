package sim

import "github.com/vovakirdan/superstudent/internal/core"

// Explosion is an expanding ring left by a destroyed dot.
type Explosion struct {
	Pos       core.Vec2
	Color     core.Color
	Radius    float64
	MaxRadius float64
	Life      float64
	Duration  float64
}

// Opacity fades linearly with remaining life.
func (e Explosion) Opacity() uint8 {
	if e.Duration <= 0 {
		return 0
	}
	return uint8(255 * core.ClampF(e.Life/e.Duration, 0, 1))
}

// Explosions holds at most max rings; adding to a full set evicts the oldest.
type Explosions struct {
	items []Explosion
	max   int
}

// NewExplosions creates an empty set with the given cap.
func NewExplosions(max int) *Explosions {
	return &Explosions{items: make([]Explosion, 0, max), max: max}
}

// Add starts a new ring.
func (x *Explosions) Add(pos core.Vec2, color core.Color, maxRadius, duration float64) {
	if len(x.items) >= x.max {
		copy(x.items, x.items[1:])
		x.items = x.items[:len(x.items)-1]
	}
	x.items = append(x.items, Explosion{
		Pos:       pos,
		Color:     color,
		Radius:    1,
		MaxRadius: maxRadius,
		Life:      duration,
		Duration:  duration,
	})
}

// Update grows the rings and drops the finished ones.
func (x *Explosions) Update(dt float64) {
	kept := x.items[:0]
	for _, e := range x.items {
		e.Life -= dt
		if e.Life <= 0 {
			continue
		}
		e.Radius = 1 + (e.MaxRadius-1)*(1-e.Life/e.Duration)
		kept = append(kept, e)
	}
	x.items = kept
}

// Len returns the number of live rings.
func (x *Explosions) Len() int {
	return len(x.items)
}

// Each calls fn for every live ring, oldest first.
func (x *Explosions) Each(fn func(e Explosion)) {
	for _, e := range x.items {
		fn(e)
	}
}

// Clear removes every ring.
func (x *Explosions) Clear() {
	x.items = x.items[:0]
}

// Notification announces the current target color. It stays fully opaque
// for the first half of its duration and fades out over the second half.
type Notification struct {
	Color     ColorID
	Remaining float64
	Duration  float64
}

// Active reports whether the notification should be drawn.
func (n Notification) Active() bool {
	return n.Remaining > 0
}

// Alpha returns the current opacity.
func (n Notification) Alpha() uint8 {
	if n.Remaining <= 0 || n.Duration <= 0 {
		return 0
	}
	half := n.Duration / 2
	if n.Remaining >= half {
		return 255
	}
	return uint8(255 * n.Remaining / half)
}

func (n *Notification) show(color ColorID, duration float64) {
	n.Color = color
	n.Duration = duration
	n.Remaining = duration
}

func (n *Notification) update(dt float64) {
	if n.Remaining > 0 {
		n.Remaining -= dt
	}
}
