package visualization

import (
	"os"
	"testing"
)

func testRunData(n int) RunData {
	data := RunData{
		Iterations: make([]float64, n),
		Rates:      make([]float64, n),
		Speedups:   make([]float64, n),
		Workloads:  make([]float64, n),
		AppliedIDs: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		data.Iterations[i] = float64(i)
		data.Rates[i] = 10
		data.Speedups[i] = 1 + float64(i)*0.01
		data.Workloads[i] = 0.5
		data.AppliedIDs[i] = 0
	}
	return data
}

func TestNewGenerator(t *testing.T) {
	generator := NewGenerator()
	if generator == nil {
		t.Fatal("NewGenerator() returned nil")
	}
	var _ ChartGenerator = generator
}

func TestGenerateRunChart(t *testing.T) {
	generator := NewGenerator()
	testFile := "test_run_chart.html"
	defer os.Remove(testFile)

	if err := generator.GenerateRunChart("test", testRunData(10), testFile); err != nil {
		t.Fatalf("GenerateRunChart failed: %v", err)
	}
	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("chart file was not created")
	}
}

func TestGenerateRunChartWithLogScale(t *testing.T) {
	generator := NewGenerator()
	testFile := "test_run_chart_log.html"
	defer os.Remove(testFile)

	if err := generator.GenerateRunChartWithLogScale("test", testRunData(10), testFile); err != nil {
		t.Fatalf("GenerateRunChartWithLogScale failed: %v", err)
	}
	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("chart file was not created")
	}
}

func TestGenerateReplayComparisonChart(t *testing.T) {
	generator := NewGenerator()
	testFile := "test_replay_comparison.html"
	defer os.Remove(testFile)

	live := testRunData(10)
	replayed := testRunData(10)
	if err := generator.GenerateReplayComparisonChart("test", live, replayed, testFile); err != nil {
		t.Fatalf("GenerateReplayComparisonChart failed: %v", err)
	}
	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("chart file was not created")
	}
}

func TestGenerateReplayComparisonChartRejectsMismatchedLengths(t *testing.T) {
	generator := NewGenerator()
	testFile := "test_replay_mismatch.html"
	defer os.Remove(testFile)

	if err := generator.GenerateReplayComparisonChart("test", testRunData(10), testRunData(5), testFile); err == nil {
		t.Fatal("expected an error for mismatched run lengths")
	}
}
