package sim

import "math"

// RNG is a deterministic pseudo-random number generator (64-bit LCG).
// Every random choice in the simulation goes through one RNG so a seed
// plus a fixed dt sequence reproduces a run exactly.
type RNG struct {
	state uint64
}

// NewRNG creates an RNG with the given seed.
func NewRNG(seed int64) *RNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &RNG{state: s}
}

// Next generates the next random uint64.
func (r *RNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a random int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	// High bits of an LCG are far better distributed than the low ones.
	return int((r.Next() >> 33) % uint64(n)) //#nosec G115 -- n is always positive
}

// Float64 returns a random float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Next()>>11) / float64(1<<53)
}

// Range returns a random float64 in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Angle returns a random angle in [0, 2*pi).
func (r *RNG) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}

// Sign returns -1 or 1 with equal probability.
func (r *RNG) Sign() float64 {
	if r.Next()>>63 == 0 {
		return -1
	}
	return 1
}

// State returns the internal state for snapshots.
func (r *RNG) State() uint64 {
	return r.state
}
