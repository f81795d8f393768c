package randomizer

import "math/rand"

// GaussianNoise perturbs a rate by a zero-mean gaussian multiplier, std
// dev stdDev. A stdDev of 0 disables it entirely.
type GaussianNoise struct {
	rng    *rand.Rand
	stdDev float64
}

// NewGaussianNoise creates a gaussian noise source seeded by seed.
func NewGaussianNoise(seed int64, stdDev float64) *GaussianNoise {
	return &GaussianNoise{
		rng:    rand.New(rand.NewSource(seed)),
		stdDev: stdDev,
	}
}

// AddRandomness perturbs rate by noise ~ N(0, stdDev), clamped to
// [0, maxRate].
func (s *GaussianNoise) AddRandomness(rate, maxRate float64) float64 {
	if s.stdDev == 0 {
		return rate
	}

	noise := s.rng.NormFloat64() * s.stdDev
	result := rate * (1.0 + noise)

	if result < 0 {
		result = 0
	}
	if result > maxRate {
		result = maxRate
	}
	return result
}
