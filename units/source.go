package units

import (
	rng "github.com/leesper/go_rng"
)

// Source is a seedable pseudorandom source for the stochastic unit kinds.
// Each model owns its own Source so that sampling from one model never
// perturbs the draw sequence of another. Not safe for concurrent use.
type Source struct {
	uniform  *rng.UniformGenerator
	gaussian *rng.GaussianGenerator
}

// NewSource returns a Source seeded with seed. Equal seeds yield equal draw
// sequences.
func NewSource(seed int64) *Source {
	return &Source{
		uniform:  rng.NewUniformGenerator(seed),
		gaussian: rng.NewGaussianGenerator(seed),
	}
}

// Float32 draws uniformly from [0, 1).
func (s *Source) Float32() float32 { return s.uniform.Float32() }

// Float32Range draws uniformly from [lo, hi).
func (s *Source) Float32Range(lo, hi float32) float32 { return s.uniform.Float32Range(lo, hi) }

// Gaussian draws from a normal distribution with the given mean and
// standard deviation.
func (s *Source) Gaussian(mean, stddev float32) float32 {
	return float32(s.gaussian.Gaussian(float64(mean), float64(stddev)))
}
