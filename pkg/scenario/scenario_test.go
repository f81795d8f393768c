package scenario

import (
	"testing"

	"github.com/kpeeters/poet/pkg/hostconfig"
)

func TestGenerateKnownScenarios(t *testing.T) {
	g := NewGenerator(10.0, hostconfig.RandomizerConfig{})
	for _, name := range ValidNames() {
		s, err := g.Generate(name, 50)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(s.Rates) != 50 {
			t.Errorf("%s: expected 50 rates, got %d", name, len(s.Rates))
		}
	}
}

func TestGenerateRejectsUnknownScenario(t *testing.T) {
	g := NewGenerator(10.0, hostconfig.RandomizerConfig{})
	if _, err := g.Generate("bogus", 10); err == nil {
		t.Error("expected an error for an unknown scenario name")
	}
}

func TestNoiseAndBurstPerturbTheStream(t *testing.T) {
	g := NewGenerator(10.0, hostconfig.RandomizerConfig{
		Seed:             1,
		GaussianNoise:    0.2,
		BurstProbability: 0.3,
		BurstDurationMin: 2,
		BurstDurationMax: 5,
		BurstIntensity:   3,
	})
	s, err := g.Generate("noisy", 100)
	if err != nil {
		t.Fatal(err)
	}

	changed := false
	for _, r := range s.Rates {
		if r != 10.0 {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("expected the randomizer to perturb at least one rate")
	}
}
