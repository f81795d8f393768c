// Package analysis runs a scenario through the controller and reports
// summary statistics — mean/volatility of the speedup and workload
// estimate, tracking error, and how it correlates with the configuration
// cost paid to achieve it. Adapted from the teacher's pkg/analysis:
// Result and Analyzer keep the same shape, but the statistics functions
// are now gonum/stat calls over a controller run instead of hand-rolled
// helpers over a fee-adjuster run.
package analysis

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/kpeeters/poet/pkg/poet"
	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/scenario"
	"github.com/kpeeters/poet/pkg/translator"
)

// Result contains detailed analysis of a scenario run.
type Result struct {
	ScenarioName       string
	TotalIterations    int
	AvgSpeedup         float64
	MinSpeedup         float64
	MaxSpeedup         float64
	SpeedupVolatility  float64
	AvgWorkload        float64
	WorkloadVolatility float64
	AvgTrackingError   float64
	ErrorCostCorr      float64
	ApplyCount         int
	FinalID            uint32
}

// Analyzer drives a scenario through a freshly initialized controller and
// collects the per-iteration series needed to compute Result.
type Analyzer struct {
	controlStates []translator.ControlState
	period        uint32
}

// NewAnalyzer builds an Analyzer that will run scenarios against the
// given control states and recompute period.
func NewAnalyzer(controlStates []translator.ControlState, period uint32) *Analyzer {
	return &Analyzer{controlStates: controlStates, period: period}
}

// RunDetailedAnalysis drives s through the controller against perfGoal
// and returns a comprehensive Result.
func (a *Analyzer) RunDetailedAnalysis(s scenario.Scenario, perfGoal float64) (Result, error) {
	costByID := make(map[uint32]float64, len(a.controlStates))
	for _, st := range a.controlStates {
		costByID[st.ID] = st.Cost.ToFloat64()
	}

	var speedups, workloads, trackingErrors, costs []float64
	applyCount := 0

	st, err := poet.Init(poet.Config{
		PerfGoal:      poetmath.FromFloat64(perfGoal),
		ControlStates: a.controlStates,
		Period:        a.period,
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			applyCount++
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("analysis: initializing controller: %w", err)
	}
	defer st.Destroy()

	for i, rate := range s.Rates {
		st.ApplyControl(uint64(i), poetmath.FromFloat64(rate), poetmath.Zero)

		speedups = append(speedups, st.Speedup().ToFloat64())
		workloads = append(workloads, st.Workload().ToFloat64())
		trackingErrors = append(trackingErrors, perfGoal-rate)
		costs = append(costs, costByID[st.LastAppliedID()])
	}

	n := len(s.Rates)
	if n == 0 {
		return Result{}, fmt.Errorf("analysis: scenario %q has no samples", s.Name)
	}

	avgSpeedup, speedupVolatility := stat.MeanStdDev(speedups, nil)
	avgWorkload, workloadVolatility := stat.MeanStdDev(workloads, nil)
	avgTrackingError := stat.Mean(trackingErrors, nil)

	errorCostCorr := 0.0
	if speedupVolatility > 0 {
		errorCostCorr = stat.Correlation(trackingErrors, costs, nil)
	}

	return Result{
		ScenarioName:       s.Name,
		TotalIterations:    n,
		AvgSpeedup:         avgSpeedup,
		MinSpeedup:         floatMin(speedups),
		MaxSpeedup:         floatMax(speedups),
		SpeedupVolatility:  speedupVolatility,
		AvgWorkload:        avgWorkload,
		WorkloadVolatility: workloadVolatility,
		AvgTrackingError:   avgTrackingError,
		ErrorCostCorr:      errorCostCorr,
		ApplyCount:         applyCount,
		FinalID:            st.LastAppliedID(),
	}, nil
}

// PrintResults prints a tabular summary followed by a detailed breakdown
// per scenario, mirroring the teacher's two-pass (summary table, then
// per-scenario detail) report layout.
func PrintResults(results []Result) {
	fmt.Printf("\n" + strings.Repeat("=", 80) + "\n")
	fmt.Printf("COMPREHENSIVE ANALYSIS SUMMARY\n")
	fmt.Printf(strings.Repeat("=", 80) + "\n")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Scenario\tAvg Speedup\tSpeedup StdDev\tAvg Tracking Error\tApply Count")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%d\n",
			r.ScenarioName, r.AvgSpeedup, r.SpeedupVolatility, r.AvgTrackingError, r.ApplyCount)
	}
	w.Flush()

	for _, r := range results {
		fmt.Printf("\n" + strings.Repeat("-", 60) + "\n")
		fmt.Printf("DETAILED ANALYSIS: %s\n", r.ScenarioName)
		fmt.Printf(strings.Repeat("-", 60) + "\n")

		fmt.Printf("Iterations: %d\n", r.TotalIterations)
		fmt.Printf("Speedup: avg %.3f, range %.3f - %.3f, stddev %.3f\n",
			r.AvgSpeedup, r.MinSpeedup, r.MaxSpeedup, r.SpeedupVolatility)
		fmt.Printf("Workload estimate: avg %.3f, stddev %.3f\n", r.AvgWorkload, r.WorkloadVolatility)
		fmt.Printf("Tracking error: avg %.3f\n", r.AvgTrackingError)
		fmt.Printf("Error/cost correlation: %.3f\n", r.ErrorCostCorr)
		fmt.Printf("Configuration changes: %d, final id: %d\n", r.ApplyCount, r.FinalID)
	}
}

func floatMin(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func floatMax(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
