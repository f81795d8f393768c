// Package randomizer perturbs the synthetic rate streams pkg/scenario
// generates, so a run exercises the controller against sensor noise and
// sudden load spikes instead of a perfectly clean signal. Adapted from
// the teacher's gas-usage randomizer: the domain value being perturbed is
// a measured rate, not a per-block gas amount, but the noise/burst model
// is unchanged.
package randomizer

// Randomizer perturbs a rate measurement, clamped to [0, maxRate].
type Randomizer interface {
	AddRandomness(rate, maxRate float64) float64
}

// CompoundRandomizer chains several Randomizers, feeding each one's output
// into the next.
type CompoundRandomizer struct {
	randomizers []Randomizer
}

// NewCompoundRandomizer builds a CompoundRandomizer from the given chain.
func NewCompoundRandomizer(randomizers ...Randomizer) *CompoundRandomizer {
	return &CompoundRandomizer{randomizers: randomizers}
}

// AddRandomness runs rate through every randomizer in the chain in order.
func (r *CompoundRandomizer) AddRandomness(rate, maxRate float64) float64 {
	for _, randomizer := range r.randomizers {
		rate = randomizer.AddRandomness(rate, maxRate)
	}
	return rate
}
