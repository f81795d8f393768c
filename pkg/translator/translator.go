// Package translator turns a desired speedup into a cost-minimizing pair
// of pre-characterized configurations and a time-division split between
// them. Grounded on translate_n2_with_time and calculate_time_division in
// original_source/src/poet.c.
package translator

import "github.com/kpeeters/poet/pkg/poetmath"

// ControlState is a host-characterized operating point (§3). Ids must be
// 0..N-1 consecutive; that invariant is enforced by the config loader
// (pkg/hostconfig), not here.
type ControlState struct {
	ID      uint32
	Speedup poetmath.Real
	Cost    poetmath.Real
}

// MaxSpeedup returns u_max = max(1, max(speedup)) across states: the
// result is 1 if states is empty or every speedup is below 1 (callers are
// expected to have already validated len(states) > 0).
func MaxSpeedup(states []ControlState) poetmath.Real {
	max := poetmath.One
	for _, s := range states {
		if s.Speedup >= max {
			max = s.Speedup
		}
	}
	return max
}

// Split is the result of picking a (lower, upper) pair and apportioning a
// period between them.
type Split struct {
	LowerID      uint32
	UpperID      uint32
	HasLower     bool
	HasUpper     bool
	LowStateIters uint32
}

// timeDivision computes, for a candidate (lower, upper) pair, the
// fraction of the period spent in lower and the resulting iteration
// count, per §4.4's split formula. period is supplied as a Real already
// converted via poetmath.FromInt.
func timeDivision(lower, upper, target, period poetmath.Real) uint32 {
	if upper == lower {
		return 0
	}
	// x = (upper*lower - target*lower) / (upper*target - target*lower)
	x := upper.Mul(lower).Sub(target.Mul(lower)).Div(upper.Mul(target).Sub(target.Mul(lower)))
	n := x.Mul(period).RoundToInt()
	if n < 0 {
		return 0
	}
	if n > int(period.RoundToInt()) {
		return uint32(period.RoundToInt())
	}
	return uint32(n)
}

// ResolveSplit mirrors calculate_time_division's defensive handling for a
// partially-determined pair: if only one of lowerID/upperID is known, the
// unset side is treated as equal to the set side before computing the
// split. byID looks a ControlState up by id; it returns (zero, false) if
// the id is not found.
func ResolveSplit(byID func(uint32) (ControlState, bool), lowerID, upperID *uint32, target poetmath.Real, period uint32) (Split, bool) {
	if lowerID == nil && upperID == nil {
		return Split{}, false
	}
	if upperID == nil {
		upperID = lowerID
	} else if lowerID == nil {
		lowerID = upperID
	}

	lower, ok := byID(*lowerID)
	if !ok {
		return Split{}, false
	}
	upper, ok := byID(*upperID)
	if !ok {
		return Split{}, false
	}

	rPeriod := poetmath.FromInt(int(period))
	lowIters := timeDivision(lower.Speedup, upper.Speedup, target, rPeriod)
	return Split{
		LowerID:       lower.ID,
		UpperID:       upper.ID,
		HasLower:      true,
		HasUpper:      true,
		LowStateIters: lowIters,
	}, true
}

// SelectPair enumerates all (lower, upper) pairs bracketing target in
// O(N^2) and returns the one minimizing per-period cost (§4.4). period is
// the scheduler's iteration count per recompute. If no state's speedup is
// >= target (target exceeds u_max — the controller's clamp in §4.3
// normally prevents this), HasLower and HasUpper are both false rather
// than the function panicking or choosing an arbitrary pair.
func SelectPair(states []ControlState, target poetmath.Real, period uint32) Split {
	best := Split{}
	bestCost := poetmath.Big
	found := false

	rPeriod := poetmath.FromInt(int(period))

	for _, upper := range states {
		if upper.Speedup < target {
			continue
		}
		for _, lower := range states {
			if lower.Speedup > target {
				continue
			}

			lowIters := timeDivision(lower.Speedup, upper.Speedup, target, rPeriod)
			rLow := poetmath.FromInt(int(lowIters))
			rHigh := rPeriod.Sub(rLow)

			cost := rLow.Div(lower.Speedup).Mul(lower.Cost).Add(rHigh.Div(upper.Speedup).Mul(upper.Cost))

			if cost < bestCost {
				bestCost = cost
				best = Split{
					LowerID:       lower.ID,
					UpperID:       upper.ID,
					HasLower:      true,
					HasUpper:      true,
					LowStateIters: lowIters,
				}
				found = true
			}
		}
	}

	if !found {
		return Split{}
	}
	return best
}
