// Package kalman implements the one-dimensional Kalman filter POET uses to
// estimate an application's base per-iteration workload, independent of
// whatever speedup was applied while the measurement was taken. Grounded
// on estimate_base_workload in original_source/src/poet.c.
package kalman

import (
	"github.com/kpeeters/poet/pkg/constants"
	"github.com/kpeeters/poet/pkg/poetmath"
)

// FilterState is the mutable state of the scalar Kalman filter (§3).
type FilterState struct {
	XHatMinus poetmath.Real
	XHat      poetmath.Real
	PMinus    poetmath.Real
	H         poetmath.Real
	K         poetmath.Real
	P         poetmath.Real
}

// NewFilterState seeds a FilterState per the constants component:
// XHatStart=0.2, PStart=1.0, everything else zero.
func NewFilterState() *FilterState {
	return &FilterState{
		XHatMinus: constants.XHatMinusStart,
		XHat:      constants.XHatStart,
		PMinus:    constants.PMinusStart,
		H:         constants.HStart,
		K:         constants.KStart,
		P:         constants.PStart,
	}
}

// EstimateWorkload runs one Kalman update step and returns the estimated
// base workload w = 1 / x_hat. currentRate is the observed rate y;
// lastAppliedSpeedup is h_k, the speedup that was in effect while that
// rate was measured — using it as the observation matrix H (rather than a
// constant 1) is what lets the estimate account for the plant gain; using
// a plain 1 instead would make the compensator blind to it.
func (fs *FilterState) EstimateWorkload(currentRate, lastAppliedSpeedup poetmath.Real) poetmath.Real {
	fs.XHatMinus = fs.XHat
	fs.PMinus = fs.P.Add(constants.Q)

	fs.H = lastAppliedSpeedup
	denominator := fs.H.Mul(fs.PMinus).Mul(fs.H).Add(constants.R)
	fs.K = fs.PMinus.Mul(fs.H).Div(denominator)

	innovation := currentRate.Sub(fs.H.Mul(fs.XHatMinus))
	fs.XHat = fs.XHatMinus.Add(fs.K.Mul(innovation))

	fs.P = poetmath.One.Sub(fs.K.Mul(fs.H)).Mul(fs.PMinus)

	return poetmath.One.Div(fs.XHat)
}
