package poet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kpeeters/poet/pkg/poetmath"
	"github.com/kpeeters/poet/pkg/translator"
)

func rf(x float64) poetmath.Real { return poetmath.FromFloat64(x) }

func testStates() []translator.ControlState {
	return []translator.ControlState{
		{ID: 0, Speedup: rf(1), Cost: rf(1)},
		{ID: 1, Speedup: rf(2), Cost: rf(2)},
	}
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero perf goal", Config{PerfGoal: rf(0), ControlStates: testStates(), Period: 1}},
		{"no control states", Config{PerfGoal: rf(1), Period: 1}},
		{"zero period", Config{PerfGoal: rf(1), ControlStates: testStates()}},
		{"log path without buffer depth", Config{PerfGoal: rf(1), ControlStates: testStates(), Period: 1, LogPath: "x.log"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Init(c.cfg); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestInitDefaultsLastIDToHighest(t *testing.T) {
	s, err := Init(Config{PerfGoal: rf(2), ControlStates: testStates(), Period: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if s.LastAppliedID() != 1 {
		t.Errorf("expected default last_id = N-1 = 1, got %d", s.LastAppliedID())
	}
	if s.Speedup() != rf(2) {
		t.Errorf("expected initial speedup to seed from the default last_id's state, got %v", s.Speedup().ToFloat64())
	}
}

func TestInitHonorsCurrentFn(t *testing.T) {
	cfg := Config{
		PerfGoal:      rf(2),
		ControlStates: testStates(),
		Period:        1,
		CurrentFn: func(ctx any, numStates uint32) (uint32, bool) {
			return 0, true
		},
	}
	s, err := Init(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	if s.LastAppliedID() != 0 {
		t.Errorf("expected current_fn's id to win, got %d", s.LastAppliedID())
	}
}

func TestApplyControlInvokesApplyOnChange(t *testing.T) {
	var calls int
	var lastNew, lastOld uint32
	cfg := Config{
		PerfGoal:      rf(2),
		ControlStates: testStates(),
		Period:        1,
		CurrentFn: func(ctx any, numStates uint32) (uint32, bool) {
			return 0, true // seed at the slow state, so a higher goal forces a change
		},
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			calls++
			lastNew, lastOld = newID, lastID
		},
	}
	s, err := Init(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	for i := 0; i < 5; i++ {
		s.ApplyControl(uint64(i), rf(1), rf(0))
	}

	if calls == 0 {
		t.Fatal("expected the apply callback to fire as the engine ramps speedup toward perf_goal=2")
	}
	if lastNew == lastOld {
		t.Errorf("apply should not have been called with newID == lastID")
	}
}

func TestDisableControlEnvVarSuppressesEverything(t *testing.T) {
	os.Setenv(EnvDisableControl, "1")
	defer os.Unsetenv(EnvDisableControl)

	var calls int
	cfg := Config{
		PerfGoal:      rf(2),
		ControlStates: testStates(),
		Period:        1,
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			calls++
		},
	}
	s, err := Init(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	startID := s.LastAppliedID()
	for i := 0; i < 100; i++ {
		s.ApplyControl(uint64(i), rf(1), rf(0))
	}

	if calls != 0 {
		t.Errorf("expected no apply calls with %s set, got %d", EnvDisableControl, calls)
	}
	if s.LastAppliedID() != startID {
		t.Errorf("last_applied_id should be unchanged, got %d want %d", s.LastAppliedID(), startID)
	}
}

func TestDisableApplySuppressesCallbackButStillLogs(t *testing.T) {
	os.Setenv(EnvDisableApply, "1")
	defer os.Unsetenv(EnvDisableApply)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "poet.log")

	var calls int
	cfg := Config{
		PerfGoal:      rf(2),
		ControlStates: testStates(),
		Period:        1,
		BufferDepth:   4,
		LogPath:       logPath,
		CurrentFn: func(ctx any, numStates uint32) (uint32, bool) {
			return 0, true // seed low, so the ramp toward perf_goal=2 would normally trigger an apply
		},
		ApplyFn: func(ctx any, numStates uint32, newID, lastID uint32) {
			calls++
		},
	}
	s, err := Init(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		s.ApplyControl(uint64(i), rf(1), rf(0))
	}
	if err := s.Destroy(); err != nil {
		t.Fatal(err)
	}

	if calls != 0 {
		t.Errorf("expected zero apply calls with %s set, got %d", EnvDisableApply, calls)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected log content even with apply disabled")
	}
}

func TestSetPerformanceGoalIgnoresNonPositive(t *testing.T) {
	s, err := Init(Config{PerfGoal: rf(2), ControlStates: testStates(), Period: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	s.SetPerformanceGoal(rf(0))
	if s.perfGoal != rf(2) {
		t.Errorf("expected perf_goal unchanged after a non-positive SetPerformanceGoal, got %v", s.perfGoal.ToFloat64())
	}
	s.SetPerformanceGoal(rf(5))
	if s.perfGoal != rf(5) {
		t.Errorf("expected perf_goal = 5, got %v", s.perfGoal.ToFloat64())
	}
}

func TestReplaceControlStatesRemapsDanglingIDs(t *testing.T) {
	s, err := Init(Config{PerfGoal: rf(2), ControlStates: testStates(), Period: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	newStates := []translator.ControlState{
		{ID: 2, Speedup: rf(1), Cost: rf(1)},
		{ID: 3, Speedup: rf(3), Cost: rf(4)},
	}
	if err := s.ReplaceControlStates(newStates); err != nil {
		t.Fatal(err)
	}

	if s.LastAppliedID() != 2 && s.LastAppliedID() != 3 {
		t.Errorf("expected last_applied_id remapped into the new id space, got %d", s.LastAppliedID())
	}
}
