package fixedmath

// Mat2D is a 3x2 affine matrix (linear block a,b,c,d plus translation
// x,y) representing translate+rotate+scale composition in the X-Z
// plane, the fixed-point analogue of a 2D affine transform matrix.
//
//	[x']   [p.x]   [a c]   [x]
//	[y'] = [p.y] * [b d] + [y]
type Mat2D struct {
	A, B, C, D FixedNum
	X, Y       FixedNum
}

var Mat2DIdentity = Mat2D{A: One, D: One}

// SetTransform builds a,b,c,d,x,y from a position/rotation(degrees)/
// scale triple: the pose every RigidBody caches each tick.
func (m *Mat2D) SetTransform(position Vec2, rotationDeg FixedNum, scale Vec2) {
	sinR := Sin(rotationDeg)
	cosR := Cos(rotationDeg)

	m.A = cosR.Mul(scale.X)
	m.B = sinR.Mul(scale.X)
	m.C = sinR.Neg().Mul(scale.Y)
	m.D = cosR.Mul(scale.Y)
	m.X = position.X
	m.Y = position.Y
}

func (m *Mat2D) SetRotate(degree FixedNum) {
	sinR := Sin(degree)
	cosR := Cos(degree)
	m.A, m.B = cosR, sinR
	m.C, m.D = sinR.Neg(), cosR
	m.X, m.Y = Zero, Zero
}

// Inverse computes the inverse of src into the receiver. Unlike the
// source this was ported from, the translation component is derived
// strictly from the already-inverted linear block applied to src's own
// translation (t' = -A^-1 * t) rather than reusing the receiver's own
// (possibly just-overwritten) x/y fields — the source's in-place
// inverseFrom reads its own x after already assigning a new x, silently
// using the wrong value whenever translation is non-zero. Passing src
// as a distinct value (as here) and deriving t' in one shot avoids that
// class of bug entirely.
func (m *Mat2D) Inverse(src Mat2D) {
	invDet := One.Div(src.A.Mul(src.D).Sub(src.B.Mul(src.C)))

	a := src.D.Mul(invDet)
	b := src.B.Neg().Mul(invDet)
	c := src.C.Neg().Mul(invDet)
	d := src.A.Mul(invDet)

	m.A, m.B, m.C, m.D = a, b, c, d
	m.X = src.X.Mul(a).Add(src.Y.Mul(c)).Neg()
	m.Y = src.X.Mul(b).Add(src.Y.Mul(d)).Neg()
}

func (m Mat2D) Inverted() Mat2D {
	var out Mat2D
	out.Inverse(m)
	return out
}

// Multiply sets the receiver to t1 * t2 (apply t1 first, then t2).
func (m *Mat2D) Multiply(t1, t2 Mat2D) {
	m.A = t1.A.Mul(t2.A).Add(t1.B.Mul(t2.C))
	m.B = t1.A.Mul(t2.B).Add(t1.B.Mul(t2.D))
	m.C = t1.C.Mul(t2.A).Add(t1.D.Mul(t2.C))
	m.D = t1.C.Mul(t2.B).Add(t1.D.Mul(t2.D))
	m.X = t1.X.Mul(t2.A).Add(t1.Y.Mul(t2.C)).Add(t2.X)
	m.Y = t1.X.Mul(t2.B).Add(t1.Y.Mul(t2.D)).Add(t2.Y)
}

func (m Mat2D) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		p.X.Mul(m.A).Add(p.Y.Mul(m.C)).Add(m.X),
		p.X.Mul(m.B).Add(p.Y.Mul(m.D)).Add(m.Y),
	}
}

func (m Mat2D) TransformVector(p Vec2) Vec2 {
	return Vec2{
		p.X.Mul(m.A).Add(p.Y.Mul(m.C)),
		p.X.Mul(m.B).Add(p.Y.Mul(m.D)),
	}
}
