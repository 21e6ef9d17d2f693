package sim

import (
	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/superstudent/internal/core"
)

// Perlin parameters for the vibration: alpha, beta and octaves.
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 3
	noiseFreq    = 25 // Samples per second along the noise line
)

// MotherDot is the single large dot shown before the dispersal. Its jitter
// comes from seeded Perlin noise so it is smooth and reproducible.
type MotherDot struct {
	Center    core.Vec2
	Radius    float64
	Amplitude float64

	noise *perlin.Perlin
	t     float64
}

// NewMotherDot creates a mother dot at center.
func NewMotherDot(center core.Vec2, radius, amplitude float64, seed int64) *MotherDot {
	return &MotherDot{
		Center:    center,
		Radius:    radius,
		Amplitude: amplitude,
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Update advances the vibration clock.
func (m *MotherDot) Update(dt float64) {
	m.t += dt
}

// Offset returns the current displacement from Center, each axis within
// [-Amplitude, Amplitude].
func (m *MotherDot) Offset() core.Vec2 {
	x := m.noise.Noise1D(m.t * noiseFreq)
	y := m.noise.Noise2D(m.t*noiseFreq, 17.3)
	return core.V(
		core.ClampF(x*2, -1, 1)*m.Amplitude,
		core.ClampF(y*2, -1, 1)*m.Amplitude,
	)
}

// Pos returns the vibrating position.
func (m *MotherDot) Pos() core.Vec2 {
	return m.Center.Add(m.Offset())
}

// reset rewinds the vibration clock.
func (m *MotherDot) reset() {
	m.t = 0
}
