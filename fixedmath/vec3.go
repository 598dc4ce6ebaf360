package fixedmath

// Vec3 carries the Y coordinate (held constant in the simulation plane)
// alongside the X-Z components that actually participate in physics
// math. Most physics code narrows to Vec2 via XZ() and widens back with
// WithXZ, preserving whatever Y a caller set (or the world's locked
// global Y, see World.SetWorldY), or with Vec3FromXZ, which sets Y to 0.
type Vec3 struct {
	X, Y, Z FixedNum
}

var Vec3Zero = Vec3{}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)} }
func (v Vec3) Neg() Vec3       { return Vec3{v.X.Neg(), v.Y.Neg(), v.Z.Neg()} }
func (v Vec3) Scale(s FixedNum) Vec3 {
	return Vec3{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

func (v Vec3) Dot(o Vec3) FixedNum {
	t := int64(v.X)*int64(o.X) + int64(v.Y)*int64(o.Y) + int64(v.Z)*int64(o.Z)
	return FromRaw(down(t))
}

// CrossXZ is the scalar (X-Z plane) cross product x*vz - z*vx, the only
// cross product meaningful for a planar simulation with rotation about Y.
func (v Vec3) CrossXZ(o Vec3) FixedNum {
	t := int64(v.X)*int64(o.Z) - int64(v.Z)*int64(o.X)
	return FromRaw(down(t))
}

func (v Vec3) LengthSq() FixedNum {
	t := int64(v.X)*int64(v.X) + int64(v.Y)*int64(v.Y) + int64(v.Z)*int64(v.Z)
	return FromRaw(down(t))
}

func (v Vec3) Length() FixedNum {
	t := int64(v.X)*int64(v.X) + int64(v.Y)*int64(v.Y) + int64(v.Z)*int64(v.Z)
	return FromRaw(SqrtInt64(t))
}

func (v Vec3) AlmostEqual(o Vec3, epsilon FixedNum) bool {
	d := v.Sub(o)
	return d.X >= epsilon.Neg() && d.X <= epsilon &&
		d.Y >= epsilon.Neg() && d.Y <= epsilon &&
		d.Z >= epsilon.Neg() && d.Z <= epsilon
}

// XZ projects onto the simulation plane.
func (v Vec3) XZ() Vec2 { return Vec2{v.X, v.Z} }

// WithXZ returns v with its X/Z replaced, Y untouched.
func (v Vec3) WithXZ(p Vec2) Vec3 { return Vec3{p.X, v.Y, p.Y} }

// Vec3FromXZ builds a Vec3 with Y = 0 from a planar point.
func Vec3FromXZ(p Vec2) Vec3 { return Vec3{p.X, Zero, p.Y} }
