//go:build !fixedpoint

package poetmath

import "math"

// Real is the scalar type used throughout the control engine. This build
// uses IEEE-754 double precision directly; see real_fixed.go for the
// Q16.16 fixed-point backing selected by the "fixedpoint" build tag.
type Real float64

// Zero, One, and Two are the small constants the controller math leans on.
const (
	Zero Real = 0
	One  Real = 1
	Two  Real = 2
)

// Big is an upper bound on per-period cost, used to seed the translator's
// best-cost search. Float mode only needs to dominate realistic costs, not
// saturate a fixed register, so 1e5 is generous without being degenerate.
const Big Real = 100000.0

func (r Real) Add(o Real) Real { return r + o }
func (r Real) Sub(o Real) Real { return r - o }
func (r Real) Mul(o Real) Real { return r * o }
func (r Real) Div(o Real) Real { return r / o }

// FromFloat64 constructs a Real from a float64 literal or measurement.
func FromFloat64(x float64) Real { return Real(x) }

// ToFloat64 recovers the underlying float64, exactly in this build.
func (r Real) ToFloat64() float64 { return float64(r) }

// FromInt is an exact int -> Real conversion.
func FromInt(n int) Real { return Real(n) }

// RoundToInt is floor(x + 0.5), matching the fixed-point build's
// (x + 0.5) >> 16 arithmetic-shift rounding (round-half-up, not
// half-away-from-zero: -2.5 rounds to -2, not -3).
func (r Real) RoundToInt() int {
	return int(math.Floor(float64(r) + 0.5))
}
