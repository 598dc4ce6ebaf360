package fixedmath

// Ray is a 2D ray with a precomputed unit normal and travelled distance,
// used by rayCast and the BVH's best-first ray query.
type Ray struct {
	Start, End Vec2
	Normal     Vec2
	Distance   FixedNum
}

func NewRay(start, end Vec2) Ray {
	r := Ray{Start: start, End: end}
	r.recompute()
	return r
}

func NewRayFromDirection(start, normal Vec2, distance FixedNum) Ray {
	return Ray{
		Start:    start,
		End:      start.Add(normal.Scale(distance)),
		Normal:   normal,
		Distance: distance,
	}
}

func (r *Ray) Set(start, end Vec2) {
	r.Start, r.End = start, end
	r.recompute()
}

func (r *Ray) recompute() {
	delta := r.End.Sub(r.Start)
	r.Distance = delta.Length()
	if r.Distance > 0 {
		r.Normal = delta.DivScalar(r.Distance)
	} else {
		r.Normal = Vec2Zero
	}
}
