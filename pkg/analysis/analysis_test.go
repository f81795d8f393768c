package analysis

import (
	"testing"

	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/scenario"
	"github.com/kpeeters/poet/pkg/translator"
)

func testStates() []translator.ControlState {
	return []translator.ControlState{
		{ID: 0, Speedup: poetmath.FromFloat64(1), Cost: poetmath.FromFloat64(1)},
		{ID: 1, Speedup: poetmath.FromFloat64(2), Cost: poetmath.FromFloat64(2)},
	}
}

func TestRunDetailedAnalysisComputesStats(t *testing.T) {
	a := NewAnalyzer(testStates(), 1)
	s := scenario.Scenario{Name: "flat", Rates: []float64{1, 1, 1, 1, 1}}

	result, err := a.RunDetailedAnalysis(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalIterations != 5 {
		t.Errorf("expected 5 iterations, got %d", result.TotalIterations)
	}
	if result.AvgTrackingError != 0 {
		t.Errorf("expected zero tracking error when the rate matches the goal, got %v", result.AvgTrackingError)
	}
}

func TestRunDetailedAnalysisRejectsEmptyScenario(t *testing.T) {
	a := NewAnalyzer(testStates(), 1)
	if _, err := a.RunDetailedAnalysis(scenario.Scenario{Name: "empty"}, 1); err == nil {
		t.Error("expected an error for a scenario with no samples")
	}
}
