package randomizer_test

import (
	"testing"

	"github.com/kpeeters/poet/pkg/randomizer"
)

func TestGaussianNoise(t *testing.T) {
	gaussianNoise := randomizer.NewGaussianNoise(12345, 0.1)
	rate := 1_000_000.0
	maxRate := rate * 3 / 2

	changed := false
	for i := 0; i < 1000; i++ {
		randomizedRate := gaussianNoise.AddRandomness(rate, maxRate)
		if randomizedRate > maxRate {
			t.Errorf("randomized rate exceeds max rate: %v", randomizedRate)
		}
		if randomizedRate != rate {
			changed = true
		}
		rate = randomizedRate
	}
	if !changed {
		t.Error("expected gaussian noise to perturb the rate at least once over 1000 iterations")
	}
}
