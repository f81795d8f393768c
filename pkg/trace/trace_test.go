package trace

import (
	"testing"

	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/translator"
)

func realOf(x float64) poetmath.Real { return poetmath.FromFloat64(x) }

func TestValidateRejectsEmptyDataSet(t *testing.T) {
	ds := &DataSet{}
	if err := Validate(ds); err == nil {
		t.Error("expected an error for an empty dataset")
	}
}

func TestSimulateAgainstDataSetProducesTimeline(t *testing.T) {
	samples := make([]Sample, 30)
	for i := range samples {
		samples[i] = Sample{Tag: uint64(i), Perf: 1.0, Pwr: 0}
	}

	ds := &DataSet{
		PerfGoal: 2.0,
		Period:   1,
		ControlStates: []translator.ControlState{
			{ID: 0, Speedup: realOf(1), Cost: realOf(1)},
			{ID: 1, Speedup: realOf(2), Cost: realOf(2)},
		},
		Samples: samples,
	}

	result, err := SimulateAgainstDataSet(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Timeline) != 30 {
		t.Errorf("expected a 30-point timeline, got %d", len(result.Timeline))
	}
	if result.FinalSpeedup < 1 {
		t.Errorf("expected a converged speedup >= 1, got %v", result.FinalSpeedup)
	}
}
