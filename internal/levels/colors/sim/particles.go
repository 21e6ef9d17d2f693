package sim

import "github.com/vovakirdan/superstudent/internal/core"

// Particle is a short-lived visual effect.
type Particle struct {
	Pos     core.Vec2
	Vel     core.Vec2
	Color   core.Color
	Radius  float64
	Life    float64 // Remaining seconds, never above MaxLife
	MaxLife float64
	Active  bool

	slot int
}

// Opacity returns 255 * remaining / initial lifetime.
func (p *Particle) Opacity() uint8 {
	if p.MaxLife <= 0 || p.Life <= 0 {
		return 0
	}
	return uint8(255 * core.ClampF(p.Life/p.MaxLife, 0, 1))
}

// ParticleManager is a bounded particle pool. Slots are preallocated and the
// pool grows on demand up to max; the backing array is sized for max up front
// so pointers handed out by Acquire stay valid.
type ParticleManager struct {
	pool   []Particle
	free   []int
	max    int
	cull   float64
	active int
}

// NewParticleManager creates a pool with prealloc slots that can grow to max.
// Particles farther than cullDistance from the origin are released.
func NewParticleManager(prealloc, max int, cullDistance float64) *ParticleManager {
	if prealloc > max {
		prealloc = max
	}
	m := &ParticleManager{
		pool: make([]Particle, prealloc, max),
		free: make([]int, 0, max),
		max:  max,
		cull: cullDistance,
	}
	m.Clear()
	return m
}

// Clear releases every particle.
func (m *ParticleManager) Clear() {
	m.free = m.free[:0]
	for i := len(m.pool) - 1; i >= 0; i-- {
		m.pool[i] = Particle{slot: i}
		m.free = append(m.free, i)
	}
	m.active = 0
}

// Acquire returns a free particle marked active. When every slot is busy the
// pool grows by one up to max; beyond that it returns false and the caller
// drops the effect.
func (m *ParticleManager) Acquire() (*Particle, bool) {
	var i int
	switch {
	case len(m.free) > 0:
		i = m.free[len(m.free)-1]
		m.free = m.free[:len(m.free)-1]
	case len(m.pool) < m.max:
		i = len(m.pool)
		m.pool = append(m.pool, Particle{slot: i})
	default:
		return nil, false
	}
	p := &m.pool[i]
	*p = Particle{slot: i, Active: true}
	m.active++
	return p, true
}

// Emit acquires a particle and initializes it. Returns false when dropped.
func (m *ParticleManager) Emit(pos, vel core.Vec2, color core.Color, radius, life float64) bool {
	p, ok := m.Acquire()
	if !ok {
		return false
	}
	p.Pos = pos
	p.Vel = vel
	p.Color = color
	p.Radius = radius
	p.Life = life
	p.MaxLife = life
	return true
}

// Release returns p to the pool. Releasing an inactive particle is a no-op.
func (m *ParticleManager) Release(p *Particle) {
	if p == nil || !p.Active {
		return
	}
	p.Active = false
	m.free = append(m.free, p.slot)
	m.active--
}

// Update moves particles, ages them and releases the expired or culled ones.
func (m *ParticleManager) Update(dt float64) {
	cull2 := m.cull * m.cull
	for i := range m.pool {
		p := &m.pool[i]
		if !p.Active {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Life -= dt
		if p.Life <= 0 || (m.cull > 0 && p.Pos.LenSq() > cull2) {
			m.Release(p)
		}
	}
}

// Each calls fn for every active particle.
func (m *ParticleManager) Each(fn func(p *Particle)) {
	for i := range m.pool {
		if m.pool[i].Active {
			fn(&m.pool[i])
		}
	}
}

// Active returns the number of active particles.
func (m *ParticleManager) Active() int {
	return m.active
}

// Size returns the number of allocated slots.
func (m *ParticleManager) Size() int {
	return len(m.pool)
}

// Max returns the slot limit.
func (m *ParticleManager) Max() int {
	return m.max
}
