// Package constants holds the tuning constants for the POET control
// engine: Kalman process/measurement noise, compensator pole/zero
// locations, and the seed values used to initialize filter and
// controller state. Values are pinned to
// original_source/src/poet_constants.h.
package constants

import "github.com/kpeeters/poet/pkg/poetmath"

// Kalman workload estimator seeds and noise parameters (§4.2).
var (
	XHatMinusStart = poetmath.FromFloat64(0.0)
	XHatStart      = poetmath.FromFloat64(0.2)
	Q              = poetmath.FromFloat64(0.00001)
	PStart         = poetmath.FromFloat64(1.0)
	PMinusStart    = poetmath.FromFloat64(0.0)
	HStart         = poetmath.FromFloat64(0.0)
	R              = poetmath.FromFloat64(0.01)
	KStart         = poetmath.FromFloat64(0.0)
)

// Speedup controller pole/zero locations and seeds (§4.3). FAST is the
// deadbeat configuration (P1=P2=Z1=0, MU=1) and is the library default;
// Slow and the alternate tuning are kept for hosts that want a gentler
// response, matching the #if FAST / #elif SLOW / #else ladder in
// poet_constants.h.
var (
	P1 = poetmath.FromFloat64(0.0)
	P2 = poetmath.FromFloat64(0.0)
	Z1 = poetmath.FromFloat64(0.0)
	MU = poetmath.FromFloat64(1.0)

	EStart  = poetmath.FromFloat64(1.0)
	EOStart = poetmath.FromFloat64(1.0)
)

// Tuning is one pole/zero preset. Slow and Alternate below are the other
// two ladders the C source gates behind #elif SLOW / #else. Exposed as named presets
// rather than build tags so a host can select a tuning at Init time.
type Tuning struct {
	P1, P2, Z1, MU poetmath.Real
}

var (
	Fast = Tuning{
		P1: poetmath.FromFloat64(0.0),
		P2: poetmath.FromFloat64(0.0),
		Z1: poetmath.FromFloat64(0.0),
		MU: poetmath.FromFloat64(1.0),
	}
	Slow = Tuning{
		P1: poetmath.FromFloat64(0.1),
		P2: poetmath.FromFloat64(0.8),
		Z1: poetmath.FromFloat64(0.7),
		MU: poetmath.FromFloat64(1.0),
	}
	Alternate = Tuning{
		P1: poetmath.FromFloat64(-0.5),
		P2: poetmath.FromFloat64(0.0),
		Z1: poetmath.FromFloat64(0.0),
		MU: poetmath.FromFloat64(1.0),
	}
)

// CurrentActionStart is the scheduler's initial current_action. Starting
// at 1 (not 0) means the first apply_control call does not recompute; the
// first recompute happens once current_action wraps back to 0 after a
// full period.
const CurrentActionStart = 1
