package forecast

import "math/rand/v2"

// NoiseSource supplies the zero-mean perturbation added to every
// prediction after the first.
type NoiseSource interface {
	Perturb() float64
}

// NoNoise is the deterministic source: it always returns 0.
type NoNoise struct{}

// Perturb implements NoiseSource.
func (NoNoise) Perturb() float64 { return 0 }

// UniformNoise draws uniformly from [-Amplitude/2, Amplitude/2).
// It is not safe for concurrent use; give each goroutine its own source.
type UniformNoise struct {
	Amplitude float64
	rng       *rand.Rand
}

// DefaultNoiseAmplitude is the width of the perturbation band used when
// none is configured.
const DefaultNoiseAmplitude = 2000

// NewUniformNoise returns a seeded uniform noise source. The same seed and
// amplitude always yield the same sequence.
func NewUniformNoise(amplitude float64, seed uint64) *UniformNoise {
	return &UniformNoise{
		Amplitude: amplitude,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Perturb implements NoiseSource.
func (u *UniformNoise) Perturb() float64 {
	if u == nil || u.Amplitude == 0 {
		return 0
	}
	return (u.rng.Float64() - 0.5) * u.Amplitude
}
