package fixedmath

import "testing"

func almostEqualMat(a, b Mat2D, eps FixedNum) bool {
	return AlmostEqual(a.A, b.A, eps) && AlmostEqual(a.B, b.B, eps) &&
		AlmostEqual(a.C, b.C, eps) && AlmostEqual(a.D, b.D, eps) &&
		AlmostEqual(a.X, b.X, eps) && AlmostEqual(a.Y, b.Y, eps)
}

func TestMatInverseIdentity(t *testing.T) {
	cases := []Mat2D{}
	var m Mat2D
	m.SetTransform(Vec2{FromInt(3), FromInt(-4)}, FromInt(35), Vec2{FromInt(2), FromInt(2)})
	cases = append(cases, m)

	var m2 Mat2D
	m2.SetTransform(Vec2{FromInt(-10), FromInt(5)}, FromInt(90), Vec2{One, One})
	cases = append(cases, m2)

	for i, src := range cases {
		inv := src.Inverted()
		var product Mat2D
		product.Multiply(src, inv)
		if !almostEqualMat(product, Mat2DIdentity, FromRaw(8)) {
			t.Errorf("case %d: src * inverse(src) = %+v, want identity", i, product)
		}
	}
}

func TestMatTranslationInverseNonZero(t *testing.T) {
	// Regression: a naive in-place inverseFrom reusing its own
	// just-overwritten x when computing y silently corrupts the
	// translation whenever it is non-zero. This exercises that path.
	var m Mat2D
	m.SetTransform(Vec2{FromInt(5), FromInt(7)}, FromInt(0), Vec2{One, One})

	inv := m.Inverted()
	p := Vec2{FromInt(5), FromInt(7)}
	back := inv.TransformPoint(p)
	if !AlmostEqual(back.X, Zero, FromRaw(4)) || !AlmostEqual(back.Y, Zero, FromRaw(4)) {
		t.Errorf("inverse(translate(5,7)).transformPoint(5,7) = %v, want ~(0,0)", back)
	}
}
