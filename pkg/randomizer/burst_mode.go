package randomizer

import "math/rand"

// BurstRandomizer occasionally multiplies the rate by burstIntensity for a
// random run of iterations, modeling a sudden load spike.
type BurstRandomizer struct {
	rng *rand.Rand

	burstProbability float64
	burstDurationMin int
	burstDurationMax int
	burstIntensity   float64

	inBurstMode          bool
	burstIterationsLeft  int
}

// NewBurstRandomizer creates a burst randomizer seeded by seed.
func NewBurstRandomizer(seed int64, burstProbability float64, burstDurationMin, burstDurationMax int, burstIntensity float64) *BurstRandomizer {
	return &BurstRandomizer{
		rng:              rand.New(rand.NewSource(seed)),
		burstProbability: burstProbability,
		burstDurationMin: burstDurationMin,
		burstDurationMax: burstDurationMax,
		burstIntensity:   burstIntensity,
	}
}

// Reset clears any in-progress burst.
func (s *BurstRandomizer) Reset() {
	s.inBurstMode = false
	s.burstIterationsLeft = 0
}

// AddRandomness perturbs rate by burstIntensity while a burst is active,
// clamped to [0, maxRate]. A new burst starts with probability
// burstProbability on any iteration not already in one.
func (s *BurstRandomizer) AddRandomness(rate, maxRate float64) float64 {
	if s.burstProbability == 0 {
		return rate
	}

	if s.inBurstMode {
		s.burstIterationsLeft--
		if s.burstIterationsLeft <= 0 {
			s.inBurstMode = false
		}
	} else if s.rng.Float64() < s.burstProbability {
		s.inBurstMode = true
		s.burstIterationsLeft = s.burstDurationMin + s.rng.Intn(s.burstDurationMax-s.burstDurationMin+1)
	}

	if s.inBurstMode {
		result := rate * s.burstIntensity
		if result < 0 {
			result = 0
		}
		if result > maxRate {
			result = maxRate
		}
		return result
	}
	return rate
}
