//go:build fixedpoint

package poetmath

import "math"

// Real is a Q16.16 signed fixed-point number: the low 16 bits are the
// fractional part, the remaining 16 (plus sign) are the integer part.
// Selected at build time via the "fixedpoint" tag; see real_float.go for
// the float64 backing used otherwise. Semantics are pinned to
// original_source/inc/poet_math.h's FP_* macros.
type Real int32

const (
	maxFP int64 = 0x7FFFFFFF
	minFP int64 = -0x80000000
	shift      = 16
)

const (
	Zero Real = 0
	One  Real = 1 << shift
	Two  Real = 2 << shift
)

// Big mirrors BIG_REAL_T under FIXED_POINT: the largest representable value.
const Big Real = 0x7FFFFFFF

// Saturate gates overflow saturation on Add/Sub/Mul/Div, mirroring the
// POET_MATH_OVERFLOW compile-time macro in the C source. It is a runtime
// flag here rather than a second build tag so both behaviors can be
// exercised from the same test binary. Default on.
var Saturate = true

// FromFloat64 rounds half-away-from-zero: FP(x) = (x*2^16 + sign(x)*0.5).
func FromFloat64(x float64) Real {
	if x >= 0 {
		return Real(x*65536.0 + 0.5)
	}
	return Real(x*65536.0 - 0.5)
}

// ToFloat64 recovers an approximate double; within 0.0005 of the original
// for |x| < 32768 per the numeric kernel's round-trip contract.
func (r Real) ToFloat64() float64 {
	return float64(r) / 65536.0
}

// FromInt is exact: shifting an integer into Q16.16 loses no information
// for values that fit in the 16 integer bits.
func FromInt(n int) Real { return Real(int64(n) << shift) }

// RoundToInt implements (x + 0.5) >> 16, i.e. round-half-up in fixed space.
func (r Real) RoundToInt() int {
	return int((int64(r) + (1 << (shift - 1))) >> shift)
}

func (r Real) Add(o Real) Real {
	sum := r + o
	if Saturate {
		ri, oi, si := int32(r), int32(o), int32(sum)
		// Overflow only happens when operands share a sign and the sum's
		// sign differs from it.
		if (ri^oi)&math.MinInt32 == 0 && (ri^si)&math.MinInt32 != 0 {
			if r > 0 {
				return Real(maxFP)
			}
			return Real(minFP)
		}
	}
	return sum
}

func (r Real) Sub(o Real) Real {
	diff := r - o
	if Saturate {
		ri, oi, di := int32(r), int32(o), int32(diff)
		if (ri^oi)&math.MinInt32 != 0 && (ri^di)&math.MinInt32 != 0 {
			if r > 0 {
				return Real(maxFP)
			}
			return Real(minFP)
		}
	}
	return diff
}

func (r Real) Mul(o Real) Real {
	prod := int64(r) * int64(o)
	answer := Real(prod >> shift)
	if Saturate {
		upper := prod >> 47
		if (prod < 0 && upper != -1) || (prod > 0 && upper != 0) {
			if (r >= 0) == (o >= 0) {
				return Real(maxFP)
			}
			return Real(minFP)
		}
	}
	return answer
}

func (r Real) Div(o Real) Real {
	quotient := (int64(r) << shift) / int64(o)
	answer := Real(quotient)
	if Saturate {
		if quotient > maxFP || quotient < minFP {
			if (r >= 0) == (o >= 0) {
				return Real(maxFP)
			}
			return Real(minFP)
		}
	}
	return answer
}
