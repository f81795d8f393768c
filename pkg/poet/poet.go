// Package poet is the public surface of the control engine: Init, Destroy,
// SetPerformanceGoal, and ApplyControl, wiring the Kalman workload
// estimator, speedup controller, translator, and apply scheduler together
// per the decoupled (perf, pwr, period)-at-Init API described in the
// design notes — not the older heartbeat-handle-coupled variant, which is
// an out-of-scope migration concern. Grounded on poet_init / poet_destroy
// / poet_apply_control in original_source/src/poet.c.
package poet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kpeeters/poet/pkg/constants"
	"github.com/kpeeters/poet/pkg/controller"
	"github.com/kpeeters/poet/pkg/kalman"
	"github.com/kpeeters/poet/pkg/poetlog"
	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/scheduler"
	"github.com/kpeeters/poet/pkg/translator"
)

// Environment variable kill switches, checked fresh on every ApplyControl
// call — never cached, so a host or test can flip them between calls.
const (
	EnvDisableControl = "POET_DISABLE_CONTROL"
	EnvDisableApply   = "POET_DISABLE_APPLY"
)

// ErrInvalidArgument is returned by Init when a precondition is violated.
// ErrAllocation is returned when a resource the constructor needs (the log
// file, in this implementation) could not be acquired; any partially
// opened resources are unwound before it is returned.
var (
	ErrInvalidArgument = errors.New("poet: invalid argument")
	ErrAllocation      = errors.New("poet: allocation failure")
)

// ApplyFunc realizes a chosen configuration on the host system. It is
// invoked at most once per ApplyControl call and never when newID ==
// lastID. ctx is the opaque, host-owned apply context passed to Init.
type ApplyFunc = scheduler.ApplyFunc

// CurrentFunc reports the host's currently-active control state id. ok
// mirrors the C current_fn's 0-for-success return convention: ok == true
// means id is valid and should seed last_applied_id; ok == false falls
// back to the default (the highest-id, highest-speedup state).
type CurrentFunc func(ctx any, numStates uint32) (id uint32, ok bool)

// Config describes everything Init needs: the performance goal, the
// host-characterized control states, the apply/current-state callbacks
// and their opaque context, the scheduling period, and optional data-log
// settings. Tuning is optional; the zero value selects constants.Fast.
type Config struct {
	PerfGoal      poetmath.Real
	ControlStates []translator.ControlState

	ApplyCtx  any
	ApplyFn   ApplyFunc
	CurrentFn CurrentFunc

	Period      uint32
	BufferDepth uint32
	LogPath     string

	Tuning constants.Tuning
}

// State is the live controller: the single mutable object an
// embedding host drives by calling ApplyControl once per iteration. It is
// not safe for concurrent use — the host must serialize calls (§5).
type State struct {
	RunID uuid.UUID

	perfGoal      poetmath.Real
	controlStates []translator.ControlState
	numStates     uint32

	applyCtx any
	applyFn  ApplyFunc

	filter     *kalman.FilterState
	controller *controller.State
	scheduler  *scheduler.State

	lastWorkload poetmath.Real

	logFile *os.File
	logRing *poetlog.Ring
	logger  *logrus.Entry
}

// Init validates cfg, allocates a State, and seeds its filter, controller,
// and scheduler. It opens and truncates cfg.LogPath (if set) and writes
// the column header before returning.
func Init(cfg Config) (*State, error) {
	if cfg.PerfGoal <= poetmath.Zero {
		return nil, fmt.Errorf("%w: perf_goal must be > 0", ErrInvalidArgument)
	}
	if len(cfg.ControlStates) == 0 {
		return nil, fmt.Errorf("%w: control_states must be non-empty", ErrInvalidArgument)
	}
	if cfg.Period == 0 {
		return nil, fmt.Errorf("%w: period must be > 0", ErrInvalidArgument)
	}
	if cfg.LogPath != "" && cfg.BufferDepth == 0 {
		return nil, fmt.Errorf("%w: buffer_depth must be > 0 when log_path is set", ErrInvalidArgument)
	}

	numStates := uint32(len(cfg.ControlStates))

	var logFile *os.File
	var logRing *poetlog.Ring
	if cfg.LogPath != "" {
		f, err := os.Create(cfg.LogPath)
		if err != nil {
			return nil, fmt.Errorf("%w: opening log file: %v", ErrAllocation, err)
		}
		if _, err := io.WriteString(f, poetlog.Header+"\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: writing log header: %v", ErrAllocation, err)
		}
		logFile = f
		logRing = poetlog.NewRing(cfg.BufferDepth, cfg.Period, f)
	}

	uMax := translator.MaxSpeedup(cfg.ControlStates)

	lastID := numStates - 1
	if cfg.CurrentFn != nil {
		if id, ok := cfg.CurrentFn(cfg.ApplyCtx, numStates); ok {
			lastID = id
		}
	}
	if lastID >= numStates {
		lastID = numStates - 1
	}
	initialSpeedup := cfg.ControlStates[lastID].Speedup

	ctrl := controller.New(initialSpeedup, uMax)
	if cfg.Tuning != (constants.Tuning{}) {
		ctrl.Tuning = cfg.Tuning
	}

	runID := uuid.New()
	logger := logrus.WithFields(logrus.Fields{
		"component": "poet",
		"run_id":    runID,
	})
	logger.WithFields(logrus.Fields{
		"num_states": numStates,
		"period":     cfg.Period,
		"last_id":    lastID,
		"perf_goal":  cfg.PerfGoal.ToFloat64(),
	}).Info("poet: controller initialized")

	return &State{
		RunID:         runID,
		perfGoal:      cfg.PerfGoal,
		controlStates: cfg.ControlStates,
		numStates:     numStates,
		applyCtx:      cfg.ApplyCtx,
		applyFn:       cfg.ApplyFn,
		filter:        kalman.NewFilterState(),
		controller:    ctrl,
		scheduler:     scheduler.New(cfg.Period, constants.CurrentActionStart, lastID),
		logFile:       logFile,
		logRing:       logRing,
		logger:        logger,
	}, nil
}

// Destroy flushes any partially-filled log batch and closes the log file.
// The original C poet_destroy does not flush a partial batch — a trailing
// fraction of a period's telemetry is simply lost. This implementation
// flushes on Destroy instead, an intentional, documented deviation: losing
// the tail of a run's data silently is worse than emitting a short final
// batch.
func (s *State) Destroy() error {
	if s == nil {
		return nil
	}
	s.logger.Info("poet: destroying controller")

	if s.logRing != nil {
		if err := s.logRing.Flush(); err != nil {
			return fmt.Errorf("poet: flushing log on destroy: %w", err)
		}
	}
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}

// SetPerformanceGoal updates the target rate. A non-positive goal is
// silently ignored, matching the permissive runtime validation policy
// (§7): steady-state calls never fail, they no-op.
func (s *State) SetPerformanceGoal(newGoal poetmath.Real) {
	if s == nil || newGoal <= poetmath.Zero {
		return
	}
	s.perfGoal = newGoal
}

// ApplyControl runs one iteration of the engine: on a period boundary it
// recomputes the Kalman/controller/translator chain and logs a record,
// then the scheduler picks (at most) one configuration to realize this
// iteration and advances current_action. tag must be monotonically
// increasing across calls; pwr is accepted and threaded through but not
// consumed by the current compensator (reserved for a future power-aware
// variant — see the design notes on the unused pwr parameter).
func (s *State) ApplyControl(tag uint64, perf, pwr poetmath.Real) {
	if s == nil {
		return
	}
	_ = pwr

	if os.Getenv(EnvDisableControl) != "" {
		return
	}

	if s.scheduler.RecomputeDue() {
		w := s.filter.EstimateWorkload(perf, s.controller.U)
		u := s.controller.Compute(perf, s.perfGoal, w)
		split := translator.SelectPair(s.controlStates, u, s.scheduler.Period)
		s.scheduler.ApplyRecompute(split)
		s.lastWorkload = w

		if s.logRing != nil {
			lowerID, upperID := int64(-1), int64(-1)
			if split.HasLower {
				lowerID = int64(split.LowerID)
			}
			if split.HasUpper {
				upperID = int64(split.UpperID)
			}
			rec := poetlog.Record{
				Tag:           tag,
				ActRate:       perf,
				Filter:        *s.filter,
				Controller:    poetlog.Snapshot(s.controller),
				Workload:      w,
				LowerID:       lowerID,
				UpperID:       upperID,
				LowStateIters: split.LowStateIters,
			}
			if err := s.logRing.Push(rec); err != nil {
				s.logger.WithError(err).Warn("poet: failed to write control-loop log record")
			}
		}
	}

	applySuppressed := os.Getenv(EnvDisableApply) != ""
	s.scheduler.Tick(s.applyCtx, s.numStates, s.applyFn, applySuppressed)
}

// Speedup returns the controller's current desired speedup u.
func (s *State) Speedup() poetmath.Real { return s.controller.U }

// Workload returns the Kalman-estimated base workload as of the last
// recompute.
func (s *State) Workload() poetmath.Real { return s.lastWorkload }

// LastAppliedID returns the control state id the scheduler most recently
// selected (or the seed id, if none has been selected yet). It is updated
// even when ApplyFunc is nil or suppressed by POET_DISABLE_APPLY.
func (s *State) LastAppliedID() uint32 { return s.scheduler.LastAppliedID }

// ReplaceControlStates atomically repoints the engine at a new set of
// control states — a supplemented feature the C source has no analogue
// for, made safe by the fact that PoetState already holds the control-state
// array as a borrowed, non-owning reference (§3, §5). states is validated
// exactly as Init validates its ControlStates argument. Any of the
// scheduler's currently-tracked ids that no longer exist in states are
// remapped to the state whose speedup is nearest the controller's current
// u, rather than left dangling.
func (s *State) ReplaceControlStates(states []translator.ControlState) error {
	if s == nil {
		return fmt.Errorf("%w: nil controller state", ErrInvalidArgument)
	}
	if len(states) == 0 {
		return fmt.Errorf("%w: control_states must be non-empty", ErrInvalidArgument)
	}

	byID := make(map[uint32]translator.ControlState, len(states))
	for _, st := range states {
		byID[st.ID] = st
	}

	remap := func(id uint32) uint32 {
		if _, ok := byID[id]; ok {
			return id
		}
		return nearestID(states, s.controller.U)
	}

	s.controlStates = states
	s.numStates = uint32(len(states))
	s.controller.UMax = translator.MaxSpeedup(states)
	s.scheduler.LastAppliedID = remap(s.scheduler.LastAppliedID)
	s.scheduler.LowerID = remap(s.scheduler.LowerID)
	s.scheduler.UpperID = remap(s.scheduler.UpperID)

	s.logger.WithField("num_states", s.numStates).Info("poet: control states replaced")
	return nil
}

func nearestID(states []translator.ControlState, target poetmath.Real) uint32 {
	best := states[0]
	bestDiff := absReal(best.Speedup.Sub(target))
	for _, st := range states[1:] {
		if diff := absReal(st.Speedup.Sub(target)); diff < bestDiff {
			best, bestDiff = st, diff
		}
	}
	return best.ID
}

func absReal(r poetmath.Real) poetmath.Real {
	if r < poetmath.Zero {
		return poetmath.Zero.Sub(r)
	}
	return r
}
