package sim

import "math"

// Snapshot captures the simulation state for determinism testing.
type Snapshot struct {
	Frame             uint64
	Phase             Phase
	Target            ColorID
	HitsOnTarget      int
	TotalDestroyed    int
	Score             int
	TargetsLeft       int
	CollisionsEnabled bool
	ActiveParticles   int
	Explosions        int
	RNGState          uint64

	// Per alive dot: id, color, x, y, vx, vy.
	DotData []float64
}

// Snapshot returns the current snapshot.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:             s.frame,
		Phase:             s.phase,
		Target:            s.cycle.Current(),
		HitsOnTarget:      s.cycle.Hits(),
		TotalDestroyed:    s.totalDestroyed,
		Score:             s.score,
		TargetsLeft:       s.targetsLeft,
		CollisionsEnabled: s.collisionsEnabled,
		ActiveParticles:   s.particles.Active(),
		Explosions:        s.explosions.Len(),
		RNGState:          s.rng.State(),
		DotData:           make([]float64, 0, s.store.Alive()*6),
	}
	s.store.Each(func(d *Dot) {
		snap.DotData = append(snap.DotData,
			float64(d.ID), float64(d.Color),
			d.Pos.X, d.Pos.Y, d.Vel.X, d.Vel.Y,
		)
	})
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Frame
	h = h*31 + uint64(snap.Phase)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Target)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.HitsOnTarget)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.TotalDestroyed) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)          //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.TargetsLeft)    //#nosec G115 -- hash computation
	if snap.CollisionsEnabled {
		h = h*31 + 1
	}
	h = h*31 + uint64(snap.ActiveParticles) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Explosions)      //#nosec G115 -- hash computation

	for _, v := range snap.DotData {
		h = h*31 + math.Float64bits(v)
	}

	h = h*31 + snap.RNGState

	return h
}
