// Package scheduler implements POET's apply-scheduling policy: it amortizes
// the translator's once-per-period split across the following `period`
// iterations, emitting at most one apply callback per call. Grounded on
// the scheduling half of poet_apply_control in
// original_source/src/poet.c.
package scheduler

import "github.com/kpeeters/poet/pkg/translator"

// State is the scheduler's per-run mutable state (§3). CurrentAction
// cycles 0..Period-1; 0 means "recompute this iteration".
type State struct {
	LowerID       uint32
	UpperID       uint32
	HasLower      bool
	HasUpper      bool
	LowStateIters uint32
	LastAppliedID uint32
	CurrentAction uint32
	Period        uint32
}

// New creates scheduler state for the given period and initial applied
// id. CurrentAction starts at initialAction; poet.Init passes
// constants.CurrentActionStart (1), so the very first ApplyControl call
// does not recompute.
func New(period, initialAction, lastAppliedID uint32) *State {
	return &State{
		LastAppliedID: lastAppliedID,
		CurrentAction: initialAction,
		Period:        period,
	}
}

// ApplyRecompute installs a freshly computed split (§4.4's output) as the
// scheduler's active decision for the next Period iterations.
func (s *State) ApplyRecompute(split translator.Split) {
	s.LowerID = split.LowerID
	s.UpperID = split.UpperID
	s.HasLower = split.HasLower
	s.HasUpper = split.HasUpper
	s.LowStateIters = split.LowStateIters
}

// ApplyFunc realizes a configuration change on the host system. It is
// invoked with the opaque apply context, the total number of control
// states, the newly-chosen id, and the previously-applied id. It is
// called at most once per Tick, and never when newID == lastID.
type ApplyFunc func(ctx any, numStates uint32, newID, lastID uint32)

// Tick runs one iteration of the scheduling policy (step 3-5 of §4.5):
// picks the configuration to realize this iteration (preferring the
// lower state while its owed iteration count is nonzero), calls apply if
// the selection changed and apply is non-nil and not suppressed, updates
// LastAppliedID, and advances CurrentAction. The caller checks
// RecomputeDue before Tick to decide whether to recompute; Tick itself is
// not gated on it and always performs the realize/apply/advance steps
// regardless of whether a recompute just happened.
func (s *State) Tick(ctx any, numStates uint32, apply ApplyFunc, applySuppressed bool) {
	var chosenID uint32
	chosen := false

	if s.LowStateIters > 0 {
		chosenID = s.LowerID
		chosen = true
		s.LowStateIters--
	} else if s.HasUpper {
		chosenID = s.UpperID
		chosen = true
	}

	if chosen && chosenID != s.LastAppliedID {
		if apply != nil && !applySuppressed {
			apply(ctx, numStates, chosenID, s.LastAppliedID)
		}
		s.LastAppliedID = chosenID
	}

	s.CurrentAction = (s.CurrentAction + 1) % s.Period
}

// RecomputeDue reports whether this is the iteration on which the engine
// should re-run Kalman -> controller -> translator (CurrentAction == 0).
func (s *State) RecomputeDue() bool {
	return s.CurrentAction == 0
}
