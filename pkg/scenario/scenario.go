// Package scenario generates synthetic per-iteration rate streams to
// drive the controller in the demo host, the way the teacher's
// pkg/scenarios package generates synthetic per-block gas-usage streams.
// The domain value changed (a rate instead of gas used per block) but the
// named-pattern-plus-optional-randomness shape is the same.
package scenario

import (
	"fmt"
	"math"

	"github.com/kpeeters/poet/pkg/hostconfig"
	"github.com/kpeeters/poet/pkg/randomizer"
)

// Scenario is a named sequence of per-iteration rate measurements.
type Scenario struct {
	Name        string
	Description string
	Rates       []float64
}

// Generator builds Scenarios, optionally perturbing them with a
// randomizer built from the host config's Randomizer settings.
type Generator struct {
	baseline float64
	rng      randomizer.Randomizer
}

// NewGenerator builds a Generator around perfGoal (the baseline rate
// scenarios are expressed as multipliers of) and cfg's randomizer
// settings.
func NewGenerator(perfGoal float64, cfg hostconfig.RandomizerConfig) *Generator {
	var chain []randomizer.Randomizer
	if cfg.GaussianNoise > 0 {
		chain = append(chain, randomizer.NewGaussianNoise(cfg.Seed, cfg.GaussianNoise))
	}
	if cfg.BurstProbability > 0 {
		chain = append(chain, randomizer.NewBurstRandomizer(
			cfg.Seed+1, cfg.BurstProbability, cfg.BurstDurationMin, cfg.BurstDurationMax, cfg.BurstIntensity))
	}

	return &Generator{
		baseline: perfGoal,
		rng:      randomizer.NewCompoundRandomizer(chain...),
	}
}

// Generate builds n iterations of the named scenario (step, ramp, sine, or
// noisy), applying the Generator's randomizer if configured.
func (g *Generator) Generate(name string, n int) (Scenario, error) {
	var rates []float64
	var description string

	switch name {
	case "step":
		description = "Rate steps from half the goal to double the goal partway through the run"
		rates = g.step(n)
	case "ramp":
		description = "Rate ramps linearly from zero to double the goal and back down"
		rates = g.ramp(n)
	case "sine":
		description = "Rate oscillates sinusoidally around the goal"
		rates = g.sine(n)
	case "noisy":
		description = "Rate holds steady at the goal, relying entirely on the randomizer for variation"
		rates = g.flat(n)
	default:
		return Scenario{}, fmt.Errorf("scenario: unknown scenario %q", name)
	}

	maxRate := g.baseline * 4
	for i, r := range rates {
		rates[i] = g.rng.AddRandomness(r, maxRate)
	}

	return Scenario{Name: name, Description: description, Rates: rates}, nil
}

func (g *Generator) flat(n int) []float64 {
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = g.baseline
	}
	return rates
}

func (g *Generator) step(n int) []float64 {
	rates := make([]float64, n)
	mid := n / 2
	for i := range rates {
		if i < mid {
			rates[i] = g.baseline * 0.5
		} else {
			rates[i] = g.baseline * 2.0
		}
	}
	return rates
}

func (g *Generator) ramp(n int) []float64 {
	rates := make([]float64, n)
	half := n / 2
	for i := range rates {
		if i < half {
			rates[i] = g.baseline * 2.0 * float64(i) / float64(half)
		} else {
			rates[i] = g.baseline * 2.0 * float64(n-i) / float64(n-half)
		}
	}
	return rates
}

func (g *Generator) sine(n int) []float64 {
	rates := make([]float64, n)
	for i := range rates {
		phase := 2 * math.Pi * float64(i) / float64(n) * 4
		rates[i] = g.baseline * (1.0 + 0.5*math.Sin(phase))
	}
	return rates
}

// ValidNames returns the scenario names Generate accepts.
func ValidNames() []string {
	return []string{"step", "ramp", "sine", "noisy"}
}
