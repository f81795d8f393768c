// Package trace replays a recorded sequence of (tag, perf, pwr)
// measurements against a poet.State, the way the teacher's
// pkg/blockchain package replays a recorded sequence of real Base-chain
// blocks against a fee adjuster. The RPC client and fetcher that build
// such a dataset from a live chain have no analogue here — a trace is
// assumed to already be on disk (captured by a host's own
// instrumentation) — so only the DataSet type and the simulate-against-
// dataset procedure are carried over; see DESIGN.md for why the fetch
// path was dropped rather than adapted.
package trace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kpeeters/poet/pkg/poet"
	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/translator"
)

// Sample is one recorded iteration: the rate and power measured, and the
// iteration tag it was measured at.
type Sample struct {
	Tag  uint64  `json:"tag"`
	Perf float64 `json:"perf"`
	Pwr  float64 `json:"pwr"`
}

// DataSet is a recorded trace: a run's control states, its perf goal and
// period, and the samples captured while it executed.
type DataSet struct {
	PerfGoal      float64                   `json:"perfGoal"`
	Period        uint32                    `json:"period"`
	ControlStates []translator.ControlState `json:"controlStates"`
	Samples       []Sample                  `json:"samples"`
}

// Load reads a DataSet from a JSON file.
func Load(path string) (*DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trace: reading %s: %w", path, err)
	}
	var ds DataSet
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("trace: parsing %s: %w", path, err)
	}
	if err := Validate(&ds); err != nil {
		return nil, fmt.Errorf("trace: %s: %w", path, err)
	}
	return &ds, nil
}

// Validate checks that a DataSet is internally consistent before it is
// replayed.
func Validate(ds *DataSet) error {
	if ds.PerfGoal <= 0 {
		return fmt.Errorf("perfGoal must be > 0")
	}
	if ds.Period == 0 {
		return fmt.Errorf("period must be > 0")
	}
	if len(ds.ControlStates) == 0 {
		return fmt.Errorf("controlStates must be non-empty")
	}
	if len(ds.Samples) == 0 {
		return fmt.Errorf("samples must be non-empty")
	}
	return nil
}

// AppliedPoint records which configuration was active at a given tag.
type AppliedPoint struct {
	Tag     uint64
	ID      uint32
	Speedup float64
}

// Result summarizes a replay: the full id-applied timeline plus how many
// times the engine actually changed configuration.
type Result struct {
	Timeline     []AppliedPoint
	ApplyCount   int
	FinalID      uint32
	FinalSpeedup float64
}

// SimulateAgainstDataSet replays ds through a freshly Init'd poet.State
// and reports the configuration timeline the engine would have driven.
// Unlike the teacher's blockchain simulator (which feeds a recorded gas
// trace into a fee adjuster to compare simulated vs. actual fees), there
// is no "actual" id to compare against here — the point of a trace replay
// is to test controller behavior against a real, previously-observed rate
// signal, offline and deterministically.
func SimulateAgainstDataSet(ds *DataSet) (*Result, error) {
	if err := Validate(ds); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	byID := make(map[uint32]translator.ControlState, len(ds.ControlStates))
	for _, st := range ds.ControlStates {
		byID[st.ID] = st
	}

	result := &Result{Timeline: make([]AppliedPoint, 0, len(ds.Samples))}

	state, err := poet.Init(poet.Config{
		PerfGoal:      poetmath.FromFloat64(ds.PerfGoal),
		ControlStates: ds.ControlStates,
		Period:        ds.Period,
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			result.ApplyCount++
		},
	})
	if err != nil {
		return nil, fmt.Errorf("trace: initializing controller: %w", err)
	}
	defer state.Destroy()

	for _, sample := range ds.Samples {
		state.ApplyControl(sample.Tag, poetmath.FromFloat64(sample.Perf), poetmath.FromFloat64(sample.Pwr))

		id := state.LastAppliedID()
		speedup := 0.0
		if st, ok := byID[id]; ok {
			speedup = st.Speedup.ToFloat64()
		}
		result.Timeline = append(result.Timeline, AppliedPoint{Tag: sample.Tag, ID: id, Speedup: speedup})
	}

	last := result.Timeline[len(result.Timeline)-1]
	result.FinalID = last.ID
	result.FinalSpeedup = last.Speedup

	return result, nil
}
