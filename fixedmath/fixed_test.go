package fixedmath

import "testing"

func TestFromIntRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, -1, 42, -42, 2000, -2000} {
		got := FromInt(n).AsInt()
		if got != n {
			t.Errorf("FromInt(%d).AsInt() = %d, want %d", n, got, n)
		}
	}
}

func TestMulDivIdentity(t *testing.T) {
	a := FromInt(7)
	b := FromInt(3)
	got := a.Mul(b).Div(b)
	if got.AsInt() != 7 {
		t.Errorf("a.Mul(b).Div(b) = %v, want 7", got.AsFloat64())
	}
}

func TestDivByZeroSaturates(t *testing.T) {
	if FromInt(5).Div(Zero) != Max {
		t.Error("positive / 0 should saturate to Max")
	}
	if FromInt(-5).Div(Zero) != Min {
		t.Error("negative / 0 should saturate to Min")
	}
}

func TestClamp(t *testing.T) {
	lo, hi := FromInt(0), FromInt(10)
	if Clamp(FromInt(-5), lo, hi) != lo {
		t.Error("clamp below range should return lo")
	}
	if Clamp(FromInt(15), lo, hi) != hi {
		t.Error("clamp above range should return hi")
	}
	if Clamp(FromInt(5), lo, hi) != FromInt(5) {
		t.Error("clamp within range should be unchanged")
	}
}

func TestAbs(t *testing.T) {
	if FromInt(-3).Abs() != FromInt(3) {
		t.Error("Abs(-3) should be 3")
	}
	if FromInt(3).Abs() != FromInt(3) {
		t.Error("Abs(3) should be 3")
	}
}
