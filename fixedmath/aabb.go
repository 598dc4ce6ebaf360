package fixedmath

// AABB is a 2D axis-aligned box over the simulation plane.
type AABB struct {
	Min, Max Vec2
}

// NewAABBFromPoint returns a degenerate box at a single point.
func NewAABBFromPoint(p Vec2) AABB { return AABB{Min: p, Max: p} }

// NewAABBFromCenterRadius builds a box centered on p with the given
// half-extent on both axes (used by Circle colliders).
func NewAABBFromCenterRadius(center Vec2, radius FixedNum) AABB {
	return AABB{
		Min: Vec2{center.X.Sub(radius), center.Y.Sub(radius)},
		Max: Vec2{center.X.Add(radius), center.Y.Add(radius)},
	}
}

func (b AABB) IsValid() bool { return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y }

// ResetAABB returns the canonical empty box: min = +inf, max = -inf, such
// that any subsequent Add immediately becomes the true bound.
func ResetAABB() AABB {
	return AABB{Min: Vec2{Max, Max}, Max: Vec2{Min, Min}}
}

// ResetWithPoints orders p0/p1 per axis into min/max.
func ResetWithPoints(p0, p1 Vec2) AABB {
	var b AABB
	if p0.X < p1.X {
		b.Min.X, b.Max.X = p0.X, p1.X
	} else {
		b.Min.X, b.Max.X = p1.X, p0.X
	}
	if p0.Y < p1.Y {
		b.Min.Y, b.Max.Y = p0.Y, p1.Y
	} else {
		b.Min.Y, b.Max.Y = p1.Y, p0.Y
	}
	return b
}

// Normalize swaps min/max per axis if inverted and pads a zero-width
// dimension by DistanceEpsilon so the box never degenerates to a line.
func (b AABB) Normalize() AABB {
	if b.Min.X > b.Max.X {
		b.Min.X, b.Max.X = b.Max.X, b.Min.X
	}
	if b.Min.Y > b.Max.Y {
		b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
	}
	if b.Max.X == b.Min.X {
		b.Min.X = b.Min.X.Sub(DistanceEpsilon)
		b.Max.X = b.Max.X.Add(DistanceEpsilon)
	}
	if b.Max.Y == b.Min.Y {
		b.Min.Y = b.Min.Y.Sub(DistanceEpsilon)
		b.Max.Y = b.Max.Y.Add(DistanceEpsilon)
	}
	return b
}

func (b AABB) Center() Vec2 {
	return b.Max.Add(b.Min).Scale(Half)
}

func (b AABB) Diameter() Vec2 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Area() FixedNum {
	return b.Max.X.Sub(b.Min.X).Mul(b.Max.Y.Sub(b.Min.Y))
}

// Sub intersects b with o (may produce an invalid box if disjoint).
func (b AABB) Sub(o AABB) AABB {
	return AABB{
		Min: Vec2{Max2(b.Min.X, o.Min.X), Max2(b.Min.Y, o.Min.Y)},
		Max: Vec2{Min2(b.Max.X, o.Max.X), Min2(b.Max.Y, o.Max.Y)},
	}
}

// Union returns the union box of b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec2{Min2(b.Min.X, o.Min.X), Min2(b.Min.Y, o.Min.Y)},
		Max: Vec2{Max2(b.Max.X, o.Max.X), Max2(b.Max.Y, o.Max.Y)},
	}
}

// AddPoint returns the union of b with a point.
func (b AABB) AddPoint(p Vec2) AABB {
	return AABB{
		Min: Vec2{Min2(b.Min.X, p.X), Min2(b.Min.Y, p.Y)},
		Max: Vec2{Max2(b.Max.X, p.X), Max2(b.Max.Y, p.Y)},
	}
}

func (b AABB) Expand(dx, dy FixedNum) AABB {
	return AABB{
		Min: Vec2{b.Min.X.Sub(dx), b.Min.Y.Sub(dy)},
		Max: Vec2{b.Max.X.Add(dx), b.Max.Y.Add(dy)},
	}
}

// Intersects is the open-interval overlap test.
func (b AABB) Intersects(o AABB) bool {
	return !(b.Max.X <= o.Min.X || b.Max.Y <= o.Min.Y || b.Min.X >= o.Max.X || b.Min.Y >= o.Max.Y)
}

// Contains reports whether o lies entirely within b.
func (b AABB) Contains(o AABB) bool {
	return !(o.Min.X < b.Min.X || o.Max.X > b.Max.X || o.Min.Y < b.Min.Y || o.Max.Y > b.Max.Y)
}

// ClipLine clips the segment [start,end] to the box, returning both
// endpoints moved to the portion of the segment inside the box. Returns false
// if the segment misses the box entirely. Ported exactly from the
// source's axis-by-axis branch form (not the parametric variant used by
// getDistance) to preserve its exact rounding path for degenerate/
// axis-parallel rays.
func (b AABB) ClipLine(start, end Vec2) (Vec2, Vec2, bool) {
	o := start
	delta := end.Sub(start)

	switch {
	case delta.X > 0:
		if start.X < b.Min.X {
			start.X = b.Min.X
			start.Y = start.X.Sub(o.X).Mul(delta.Y).Div(delta.X).Add(o.Y)
		}
		if end.X > b.Max.X {
			end.X = b.Max.X
			end.Y = end.X.Sub(o.X).Mul(delta.Y).Div(delta.X).Add(o.Y)
		}
		if start.X > end.X {
			return start, end, false
		}
	case delta.X < 0:
		if start.X > b.Max.X {
			start.X = b.Max.X
			start.Y = start.X.Sub(o.X).Mul(delta.Y).Div(delta.X).Add(o.Y)
		}
		if end.X < b.Min.X {
			end.X = b.Min.X
			end.Y = end.X.Sub(o.X).Mul(delta.Y).Div(delta.X).Add(o.Y)
		}
		if start.X < end.X {
			return start, end, false
		}
	default:
		if start.X < b.Min.X || start.X > b.Max.X {
			return start, end, false
		}
	}

	switch {
	case delta.Y > 0:
		if start.Y < b.Min.Y {
			start.Y = b.Min.Y
			start.X = start.Y.Sub(o.Y).Mul(delta.X).Div(delta.Y).Add(o.X)
		}
		if end.Y > b.Max.Y {
			end.Y = b.Max.Y
			end.X = end.Y.Sub(o.Y).Mul(delta.X).Div(delta.Y).Add(o.X)
		}
		if start.Y > end.Y {
			return start, end, false
		}
	case delta.Y < 0:
		if start.Y > b.Max.Y {
			start.Y = b.Max.Y
			start.X = start.Y.Sub(o.Y).Mul(delta.X).Div(delta.Y).Add(o.X)
		}
		if end.Y < b.Min.Y {
			end.Y = b.Min.Y
			end.X = end.Y.Sub(o.Y).Mul(delta.X).Div(delta.Y).Add(o.X)
		}
		if start.Y < end.Y {
			return start, end, false
		}
	default:
		if start.Y < b.Min.Y || start.Y > b.Max.Y {
			return start, end, false
		}
	}

	return start, end, true
}

// GetDistance returns the parametric t_min in [0,1] at which the ray
// start->end enters the box, or Max if it misses. Used by the BVH ray
// query for best-first ordering of candidate children.
func (b AABB) GetDistance(start, end Vec2) FixedNum {
	tMin := Zero
	tMax := One

	delta := end.Sub(start)

	minArr := [2]FixedNum{b.Min.X, b.Min.Y}
	maxArr := [2]FixedNum{b.Max.X, b.Max.Y}
	startArr := [2]FixedNum{start.X, start.Y}
	deltaArr := [2]FixedNum{delta.X, delta.Y}

	for i := 0; i < 2; i++ {
		if deltaArr[i] != 0 {
			dMin := minArr[i].Sub(startArr[i]).Div(deltaArr[i])
			dMax := maxArr[i].Sub(startArr[i]).Div(deltaArr[i])
			if dMin > dMax {
				dMin, dMax = dMax, dMin
			}
			tMin = Max2(tMin, dMin)
			tMax = Min2(tMax, dMax)
		} else if startArr[i] < minArr[i] || startArr[i] > maxArr[i] {
			return Max
		}
	}

	if tMin > tMax || tMax < 0 || tMin > One {
		return Max
	}
	return tMin
}

// TransformByAffine transforms the four corners by mat and re-unions
// them into a fresh axis-aligned box.
func (b AABB) TransformByAffine(mat Mat2D) AABB {
	corners := [4]Vec2{
		{b.Min.X, b.Max.Y}, // left-top
		{b.Min.X, b.Min.Y}, // left-bottom
		{b.Max.X, b.Min.Y}, // right-bottom
		{b.Max.X, b.Max.Y}, // right-top
	}
	out := ResetAABB()
	for _, c := range corners {
		out = out.AddPoint(mat.TransformPoint(c))
	}
	return out
}

func (b AABB) Equal(o AABB) bool { return b.Min.Equal(o.Min) && b.Max.Equal(o.Max) }
