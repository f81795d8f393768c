package poetmath

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 1, -1, 0.5, -0.5, 123.456, -999.999, 32767.9} {
		got := FromFloat64(x).ToFloat64()
		if math.Abs(got-x) > 0.0005 {
			t.Errorf("FromFloat64(%v).ToFloat64() = %v, want within 0.0005", x, got)
		}
	}
}

func TestAddSubIdentity(t *testing.T) {
	a := FromFloat64(12.5)
	s := FromFloat64(40.25)
	got := a.Add(s.Sub(a))
	want := s
	if math.Abs(got.ToFloat64()-want.ToFloat64()) > 0.0005 {
		t.Errorf("a + (s - a) = %v, want %v", got.ToFloat64(), want.ToFloat64())
	}
}

func TestDivMulIdentity(t *testing.T) {
	a := FromFloat64(3.0)
	b := FromFloat64(7.0)
	got := a.Mul(b).Div(b)
	if math.Abs(got.ToFloat64()-a.ToFloat64()) > 0.0005*math.Abs(a.ToFloat64()) {
		t.Errorf("Mul(a,b).Div(b) = %v, want %v", got.ToFloat64(), a.ToFloat64())
	}
}

func TestFromInt(t *testing.T) {
	got := FromInt(5).ToFloat64()
	if got != 5 {
		t.Errorf("FromInt(5).ToFloat64() = %v, want 5", got)
	}
}

func TestRoundToInt(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{2.5, 3},
		{2.4, 2},
		{-2.5, -2},
		{0.0, 0},
	}
	for _, c := range cases {
		got := FromFloat64(c.in).RoundToInt()
		if got != c.want {
			t.Errorf("FromFloat64(%v).RoundToInt() = %d, want %d", c.in, got, c.want)
		}
	}
}
