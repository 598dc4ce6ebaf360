// Package actor implements the collider and rigid-body layer: the
// tagged shape variant, the collider that owns one and carries
// collision-filter/material data, and the body that owns a list of
// colliders and integrates its own motion.
package actor

import (
	"github.com/lumenforge/fixphys/fixedmath"
	"github.com/lumenforge/fixphys/gjk"
)

// ShapeType tags the three collider variants. There is no interface
// dispatch here — one struct carries the union of fields the three
// variants need and Type selects which are meaningful, per the
// "tagged variant for shapes" design note.
type ShapeType int

const (
	ShapeCircle ShapeType = iota
	ShapeSegment
	ShapePolygon
)

func (t ShapeType) String() string {
	switch t {
	case ShapeCircle:
		return "Circle"
	case ShapeSegment:
		return "Segment"
	case ShapePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Shape is the geometric payload of a Collider, in both local
// (body-relative) and world space. UpdateTransform recomputes the
// world-space fields and bounds from the owning body's affine matrix.
type Shape struct {
	Type ShapeType

	// Circle
	LocalCenter fixedmath.Vec3
	LocalRadius fixedmath.FixedNum
	worldCenter fixedmath.Vec2
	worldRadius fixedmath.FixedNum

	// Segment
	LocalStart, LocalEnd fixedmath.Vec3
	worldStart, worldEnd fixedmath.Vec2

	// ConvexPolygon (CCW, convex — not validated/fixed up here, per
	// the source's unimplemented convertToConvex)
	LocalVertices []fixedmath.Vec3
	worldVertices []fixedmath.Vec2

	bounds fixedmath.AABB
}

// NewCircleShape builds a circle collider shape with the given local
// center and radius.
func NewCircleShape(radius fixedmath.FixedNum, center fixedmath.Vec3) Shape {
	return Shape{Type: ShapeCircle, LocalRadius: radius, LocalCenter: center}
}

// NewSegmentShape builds a segment collider shape between two local
// endpoints.
func NewSegmentShape(a, b fixedmath.Vec3) Shape {
	return Shape{Type: ShapeSegment, LocalStart: a, LocalEnd: b}
}

// NewPolygonShape builds a convex polygon shape from CCW local
// vertices.
func NewPolygonShape(vertices []fixedmath.Vec3) Shape {
	verts := make([]fixedmath.Vec3, len(vertices))
	copy(verts, vertices)
	return Shape{
		Type:          ShapePolygon,
		LocalVertices: verts,
		worldVertices: make([]fixedmath.Vec2, len(verts)),
	}
}

// NewBoxShape is a convenience matching the source's width/height box
// constructor: a 4-vertex CCW rectangle centered on the origin.
func NewBoxShape(width, height fixedmath.FixedNum) Shape {
	dx := width.DivInt(2)
	dy := height.DivInt(2)
	return NewPolygonShape([]fixedmath.Vec3{
		{X: dx.Neg(), Z: dy.Neg()},
		{X: dx, Z: dy.Neg()},
		{X: dx, Z: dy},
		{X: dx.Neg(), Z: dy},
	})
}

// UpdateTransform recomputes world-space pose and the shape's world
// AABB from the owning body's affine matrix.
func (s *Shape) UpdateTransform(mat fixedmath.Mat2D) {
	switch s.Type {
	case ShapeCircle:
		local := s.LocalCenter.XZ()
		s.worldCenter = mat.TransformPoint(local)
		corner := mat.TransformPoint(fixedmath.Vec2{X: local.X.Add(s.LocalRadius), Y: local.Y})
		s.worldRadius = s.worldCenter.DistanceTo(corner)
		s.bounds = fixedmath.NewAABBFromCenterRadius(s.worldCenter, s.worldRadius)

	case ShapeSegment:
		s.worldStart = mat.TransformPoint(s.LocalStart.XZ())
		s.worldEnd = mat.TransformPoint(s.LocalEnd.XZ())
		s.bounds = fixedmath.ResetWithPoints(s.worldStart, s.worldEnd).Normalize()

	case ShapePolygon:
		box := fixedmath.ResetAABB()
		for i, v := range s.LocalVertices {
			p := mat.TransformPoint(v.XZ())
			s.worldVertices[i] = p
			box = box.AddPoint(p)
		}
		s.bounds = box
	}
}

// Bounds returns the shape's current world-space AABB.
func (s *Shape) Bounds() fixedmath.AABB { return s.bounds }

// WorldCenter and WorldRadius expose a Circle's world-space center and
// radius, for the Circle-Circle narrow-phase fast path. Meaningless on
// other shape types.
func (s *Shape) WorldCenter() fixedmath.Vec2    { return s.worldCenter }
func (s *Shape) WorldRadius() fixedmath.FixedNum { return s.worldRadius }

// Endpoints exposes a Segment's world-space endpoints, for the
// Segment-Circle and Segment-Segment narrow-phase fast paths.
// Meaningless on other shape types.
func (s *Shape) Endpoints() (fixedmath.Vec2, fixedmath.Vec2) {
	return s.worldStart, s.worldEnd
}

// Vertices exposes a ConvexPolygon's world-space vertex ring, for
// queries that need the raw geometry rather than just support/contains.
// Meaningless on other shape types.
func (s *Shape) Vertices() []fixedmath.Vec2 { return s.worldVertices }

// FirstVertex returns an arbitrary world-space point on the shape,
// used by GJK to seed the first support direction when the two
// shapes' bound centers coincide.
func (s *Shape) FirstVertex() fixedmath.Vec2 {
	switch s.Type {
	case ShapeCircle:
		return s.worldCenter.Add(fixedmath.Vec2{X: s.worldRadius})
	case ShapeSegment:
		return s.worldStart
	default:
		return s.worldVertices[0]
	}
}

// SupportInDirection returns the farthest point of the shape along dir
// — the GJK support function.
func (s *Shape) SupportInDirection(dir fixedmath.Vec2) fixedmath.Vec2 {
	switch s.Type {
	case ShapeCircle:
		l := dir.Length()
		if l.IsZero() {
			return s.worldCenter.Add(fixedmath.Vec2{X: s.worldRadius})
		}
		return s.worldCenter.Add(dir.Scale(s.worldRadius.Div(l)))

	case ShapeSegment:
		if s.worldStart.Dot(dir) > s.worldEnd.Dot(dir) {
			return s.worldStart
		}
		return s.worldEnd

	default:
		best := s.worldVertices[0]
		bestDot := best.Dot(dir)
		for _, v := range s.worldVertices[1:] {
			d := v.Dot(dir)
			if d > bestDot {
				bestDot = d
				best = v
			}
		}
		return best
	}
}

// ContainsPoint reports whether the shape expanded by radius contains
// point.
func (s *Shape) ContainsPoint(point fixedmath.Vec2, radius fixedmath.FixedNum) bool {
	switch s.Type {
	case ShapeCircle:
		r := radius.Add(s.worldRadius)
		return point.DistanceToSq(s.worldCenter) <= r.Mul(r)

	case ShapeSegment:
		ab := s.worldEnd.Sub(s.worldStart)
		if ab.IsZero() {
			return point.DistanceToSq(s.worldStart) <= radius.Mul(radius)
		}
		proj := fixedmath.Clamp01(point.Sub(s.worldStart).Dot(ab).Div(ab.LengthSq()))
		closest := s.worldStart.Add(ab.Scale(proj))
		return point.DistanceToSq(closest) <= radius.Mul(radius)

	default:
		return polygonContainsWithRadius(s.worldVertices, point, radius)
	}
}

// polygonContainsWithRadius is a half-plane test against every edge,
// requiring the signed distance to each edge's line to be no more than
// radius outside the interior — i.e. a point just past an edge is
// still accepted if it is within radius of that edge. This is the
// corrected version of the source's FPolygonCollider::overlapPoint,
// which calls the free containsPoint(vertices, count, point) and
// silently drops its radius parameter; the example in the data model
// (`containsPoint((2.1,0), 0.2)` on a square whose right edge sits at
// x=2) specifically requires the radius to matter, so it cannot be
// dropped here.
func polygonContainsWithRadius(vertices []fixedmath.Vec2, point fixedmath.Vec2, radius fixedmath.FixedNum) bool {
	if len(vertices) < 3 {
		return false
	}

	innerSide := gjkWhichSide(vertices[0], vertices[1], vertices[2])

	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		ab := b.Sub(a)
		length := ab.Length()
		if length.IsZero() {
			continue
		}
		dist := ab.Cross(point.Sub(a)).Div(length)
		if innerSide < 0 {
			dist = dist.Neg()
		}
		if dist < radius.Neg() {
			return false
		}
	}
	return true
}

func gjkWhichSide(a, b, c fixedmath.Vec2) int {
	ab := b.Sub(a)
	ac := c.Sub(a)
	cross := ab.Cross(ac)
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}

// RaycastResult carries the point/normal/distance of a shape-level ray
// hit, before the Collider wraps it with a reference to itself.
type RaycastResult struct {
	Point    fixedmath.Vec2
	Normal   fixedmath.Vec2
	Distance fixedmath.FixedNum
}

// RayCast tests ray against the shape, returning the nearest
// accepted hit. The normal reported is always the ray's own direction
// — the source's shapes are not edge/face oriented for ray hits.
func (s *Shape) RayCast(ray fixedmath.Ray) (RaycastResult, bool) {
	switch s.Type {
	case ShapeCircle:
		return s.rayCastCircle(ray)
	case ShapeSegment:
		return rayCastSegment(ray, s.worldStart, s.worldEnd)
	default:
		return s.rayCastPolygon(ray)
	}
}

func (s *Shape) rayCastCircle(ray fixedmath.Ray) (RaycastResult, bool) {
	e := s.worldCenter.Sub(ray.Start)
	eLenSq := e.LengthSq()
	if eLenSq <= s.worldRadius.Mul(s.worldRadius) {
		return RaycastResult{Point: ray.Start, Normal: ray.Normal, Distance: 0}, true
	}

	a := e.Dot(ray.Normal)
	delta := s.worldRadius.Mul(s.worldRadius).Sub(eLenSq).Add(a.Mul(a))
	if delta < 0 {
		return RaycastResult{}, false
	}

	t := a.Sub(fixedmath.Sqrt(delta))
	if t < 0 || t > ray.Distance {
		return RaycastResult{}, false
	}

	return RaycastResult{
		Distance: t,
		Normal:   ray.Normal,
		Point:    ray.Start.Add(ray.Normal.Scale(t)),
	}, true
}

// rayCastSegment solves the 2x2 linear system for the intersection of
// ray (start,end) with segment (a,b), accepting only if both
// parameters lie in [0,1].
func rayCastSegment(ray fixedmath.Ray, a, b fixedmath.Vec2) (RaycastResult, bool) {
	rayDir := ray.End.Sub(ray.Start)
	segDir := b.Sub(a)
	c := a.Sub(ray.Start)

	denom := rayDir.X.Mul(segDir.Y).Sub(rayDir.Y.Mul(segDir.X))
	if denom == 0 {
		return RaycastResult{}, false
	}

	t1 := c.X.Mul(segDir.Y).Sub(c.Y.Mul(segDir.X)).Div(denom)
	t2 := c.X.Mul(rayDir.Y).Sub(c.Y.Mul(rayDir.X)).Div(denom)
	if t1 < 0 || t1 > fixedmath.One || t2 < 0 || t2 > fixedmath.One {
		return RaycastResult{}, false
	}

	distance := ray.Distance.Mul(t1)
	return RaycastResult{
		Distance: distance,
		Normal:   ray.Normal,
		Point:    ray.Start.Add(ray.Normal.Scale(distance)),
	}, true
}

func (s *Shape) rayCastPolygon(ray fixedmath.Ray) (RaycastResult, bool) {
	rayDir := ray.End.Sub(ray.Start)
	tMin := fixedmath.Max
	hit := false

	for i := range s.worldVertices {
		a := s.worldVertices[i]
		b := s.worldVertices[(i+1)%len(s.worldVertices)]
		segDir := b.Sub(a)
		c := a.Sub(ray.Start)

		denom := rayDir.X.Mul(segDir.Y).Sub(rayDir.Y.Mul(segDir.X))
		if denom == 0 {
			continue
		}

		t1 := c.X.Mul(segDir.Y).Sub(c.Y.Mul(segDir.X)).Div(denom)
		t2 := c.X.Mul(rayDir.Y).Sub(c.Y.Mul(rayDir.X)).Div(denom)
		if t1 < 0 || t1 > fixedmath.One || t2 < 0 || t2 > fixedmath.One {
			continue
		}

		hit = true
		if t1 < tMin {
			tMin = t1
		}
	}

	if !hit {
		return RaycastResult{}, false
	}

	distance := ray.Distance.Mul(tMin)
	return RaycastResult{
		Distance: distance,
		Normal:   ray.Normal,
		Point:    ray.Start.Add(ray.Normal.Scale(distance)),
	}, true
}

// *Shape satisfies gjk.Shape directly; gjk never imports actor.
var _ gjk.Shape = (*Shape)(nil)
