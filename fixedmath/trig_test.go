package fixedmath

import "testing"

func TestPIApproximation(t *testing.T) {
	got := PI.AsFloat64()
	if got < 3.14 || got > 3.145 {
		t.Errorf("PI = %v, want approximately 3.142", got)
	}
}

// TestSinCosIdentity checks sin(x)^2 + cos(x)^2 == 1 (within table
// rounding) at every integer degree the forward table is built from.
func TestSinCosIdentity(t *testing.T) {
	for deg := 0; deg <= 360; deg += 1 {
		d := FromInt(deg)
		s := Sin(d)
		c := Cos(d)
		sum := s.Mul(s).Add(c.Mul(c))
		if !AlmostEqual(sum, One, FromRaw(4)) {
			t.Errorf("sin(%d)^2+cos(%d)^2 = %v, want ~1", deg, deg, sum.AsFloat64())
		}
	}
}

func TestAsinInverse(t *testing.T) {
	for deg := -80; deg <= 80; deg += 10 {
		d := FromInt(deg)
		s := Sin(d)
		back := Asin(s)
		if !AlmostEqual(back, d, FromInt(2)) {
			t.Errorf("Asin(Sin(%d)) = %v, want ~%d", deg, back.AsFloat64(), deg)
		}
	}
}

func TestAtan2Quadrants(t *testing.T) {
	cases := []struct {
		y, x FixedNum
		want float64
	}{
		{Zero, One, 0},
		{One, Zero, 90},
		{Zero, FromInt(-1), 180},
		{FromInt(-1), Zero, -90},
	}
	for _, c := range cases {
		got := Atan2(c.y, c.x).AsFloat64()
		if got < c.want-2 || got > c.want+2 {
			t.Errorf("Atan2(%v,%v) = %v, want ~%v", c.y.AsFloat64(), c.x.AsFloat64(), got, c.want)
		}
	}
}

func TestSqrtBounds(t *testing.T) {
	for _, a := range []int64{0, 1, 2, 3, 4, 100, 123456, 999999999} {
		s := int64(SqrtInt64(a))
		if s*s > a {
			t.Errorf("sqrt(%d)=%d but sqrt^2 > a", a, s)
		}
		if (s+1)*(s+1) <= a {
			t.Errorf("sqrt(%d)=%d but (sqrt+1)^2 <= a", a, s)
		}
	}
}

func TestSqrtFixed(t *testing.T) {
	four := FromInt(4)
	got := Sqrt(four)
	if got.AsInt() != 2 {
		t.Errorf("Sqrt(4) = %v, want 2", got.AsFloat64())
	}
}
