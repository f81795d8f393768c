// Package controller implements POET's fixed-structure 2-pole/1-zero
// speedup compensator, grounded on calculate_xup in
// original_source/src/poet.c.
package controller

import (
	"github.com/kpeeters/poet/pkg/constants"
	"github.com/kpeeters/poet/pkg/poetmath"
)

// State holds the lagged speedups and errors the compensator needs across
// calls (§3). UMax is the largest speedup among the host's control
// states; the compensator's output is always clamped to [1, UMax].
type State struct {
	U, UO, UOO poetmath.Real
	E, EO      poetmath.Real
	UMax       poetmath.Real

	Tuning constants.Tuning
}

// New seeds controller state so that u = uo = uoo = initialSpeedup and
// e = eo = 1, per §3. Tuning defaults to constants.Fast (the deadbeat
// form); assign State.Tuning to switch presets.
func New(initialSpeedup, uMax poetmath.Real) *State {
	return &State{
		U:      initialSpeedup,
		UO:     initialSpeedup,
		UOO:    initialSpeedup,
		E:      constants.EStart,
		EO:     constants.EOStart,
		UMax:   uMax,
		Tuning: constants.Fast,
	}
}

// Compute runs one step of the compensator: given the current measured
// rate and the target rate, plus the Kalman-estimated workload w, it
// produces a new desired speedup u, clamped to [1, UMax], and rotates the
// lag state (uoo <- uo, uo <- u, eo <- e) for the next call.
func (s *State) Compute(currentRate, desiredRate, w poetmath.Real) poetmath.Real {
	p1, p2, z1, mu := s.Tuning.P1, s.Tuning.P2, s.Tuning.Z1, s.Tuning.MU

	a := p1.Mul(z1).Add(p2.Mul(z1)).Sub(mu.Mul(p1).Mul(p2)).Add(mu.Mul(p2)).Sub(p2).Add(mu.Mul(p1)).Sub(p1).Sub(mu)
	b := mu.Mul(p1).Mul(p2).Mul(z1).Sub(p1.Mul(p2).Mul(z1)).Sub(mu.Mul(p2).Mul(z1)).Sub(mu.Mul(p1).Mul(z1)).Add(mu.Mul(z1)).Add(p1.Mul(p2))
	c := mu.Sub(mu.Mul(p1)).Mul(p2).Add(mu.Mul(p1)).Sub(mu).Mul(w)
	d := mu.Mul(p1).Sub(mu).Mul(p2).Sub(mu.Mul(p1)).Add(mu).Mul(w).Mul(z1)
	f := poetmath.One.Div(z1.Sub(poetmath.One))

	s.E = desiredRate.Sub(currentRate)

	u := f.Mul(a.Mul(s.UO).Add(b.Mul(s.UOO)).Add(c.Mul(s.E)).Add(d.Mul(s.EO)))

	// Speedups less than one have no effect.
	if u < poetmath.One {
		u = poetmath.One
	}
	// A speedup greater than the maximum is not achievable.
	if u > s.UMax {
		u = s.UMax
	}
	s.U = u

	s.UOO = s.UO
	s.UO = s.U
	s.EO = s.E

	return s.U
}
