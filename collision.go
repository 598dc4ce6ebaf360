package fixphys

import (
	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/constraint"
	"github.com/lumenforge/fixphys/fixedmath"
	"github.com/lumenforge/fixphys/gjk"
)

// narrowPhase dispatches a and b to the cheapest exact test that
// applies, falling back to GJK/EPA whenever either shape is a
// ConvexPolygon. The two shape types are conceptually swapped so the
// higher-valued type drives the dispatch (Circle=0 < Segment=1 <
// Polygon=2): Circle-Circle, Segment-Circle, Segment-Segment, and
// Polygon-Anything, per spec section 4.7.
func narrowPhase(a, b *actor.Collider) (constraint.CollisionInfo, bool) {
	ta, tb := a.Shape.Type, b.Shape.Type

	if ta == actor.ShapePolygon || tb == actor.ShapePolygon {
		return gjkNarrowPhase(a, b)
	}

	if ta == actor.ShapeCircle && tb == actor.ShapeCircle {
		return circleCircle(a, b)
	}

	if ta == actor.ShapeSegment && tb == actor.ShapeCircle {
		return segmentCircle(a, b)
	}
	if ta == actor.ShapeCircle && tb == actor.ShapeSegment {
		info, ok := segmentCircle(b, a)
		if !ok {
			return info, false
		}
		return flipInfo(info), true
	}

	return segmentSegment(a, b)
}

func flipInfo(info constraint.CollisionInfo) constraint.CollisionInfo {
	return constraint.CollisionInfo{
		Normal: info.Normal.Neg(),
		Depth:  info.Depth,
		PointA: info.PointB,
		PointB: info.PointA,
	}
}

// circleCircle is the exact closed-form Circle-Circle test. A
// coincident-center degenerate case picks the separating normal from
// the difference of body velocities (unit +x if those are also zero),
// keeping the resolution direction deterministic rather than
// undefined.
func circleCircle(a, b *actor.Collider) (constraint.CollisionInfo, bool) {
	ca, ra := a.Shape.WorldCenter(), a.Shape.WorldRadius()
	cb, rb := b.Shape.WorldCenter(), b.Shape.WorldRadius()

	diff := cb.Sub(ca)
	dist := diff.Length()

	var normal fixedmath.Vec2
	if !dist.IsZero() {
		normal = diff.DivScalar(dist)
	} else {
		vdiff := b.Body.Velocity.XZ().Sub(a.Body.Velocity.XZ())
		if !vdiff.IsZero() {
			normal = vdiff.Normalized()
		} else {
			normal = fixedmath.Vec2{X: fixedmath.One}
		}
	}

	depth := ra.Add(rb).Sub(dist)
	if depth < fixedmath.Zero {
		return constraint.CollisionInfo{}, false
	}

	return constraint.CollisionInfo{
		Normal: normal,
		Depth:  depth,
		PointA: ca.Add(normal.Scale(ra)),
		PointB: cb.Sub(normal.Scale(rb)),
	}, true
}

// segmentCircle requires seg to be the Segment collider and circ the
// Circle collider; narrowPhase flips the result when callers pass
// them in the opposite order.
func segmentCircle(seg, circ *actor.Collider) (constraint.CollisionInfo, bool) {
	a, b := seg.Shape.Endpoints()
	center, radius := circ.Shape.WorldCenter(), circ.Shape.WorldRadius()

	ab := b.Sub(a)
	lenSq := ab.LengthSq()

	var closest fixedmath.Vec2
	if lenSq.IsZero() {
		closest = a
	} else {
		proj := fixedmath.Clamp01(center.Sub(a).Dot(ab).Div(lenSq))
		closest = a.Add(ab.Scale(proj))
	}

	diff := center.Sub(closest)
	dist := diff.Length()
	depth := radius.Sub(dist)
	if depth < fixedmath.Zero {
		return constraint.CollisionInfo{}, false
	}

	var normal fixedmath.Vec2
	if !dist.IsZero() {
		normal = diff.DivScalar(dist)
	} else {
		normal = ab.Perp().Normalized()
	}

	return constraint.CollisionInfo{
		Normal: normal,
		Depth:  depth,
		PointA: closest,
		PointB: center.Sub(normal.Scale(radius)),
	}, true
}

// segmentSegment treats both segments as having zero thickness: they
// are in contact only when the shortest distance between them falls
// within DefaultEpsilon, matching the determinism substrate's own
// tolerance rather than inventing a new threshold.
func segmentSegment(a, b *actor.Collider) (constraint.CollisionInfo, bool) {
	a0, a1 := a.Shape.Endpoints()
	b0, b1 := b.Shape.Endpoints()

	pa, pb := closestPointsBetweenSegments(a0, a1, b0, b1)
	diff := pb.Sub(pa)
	dist := diff.Length()
	if dist > fixedmath.DefaultEpsilon {
		return constraint.CollisionInfo{}, false
	}

	var normal fixedmath.Vec2
	if !dist.IsZero() {
		normal = diff.DivScalar(dist)
	} else {
		normal = a1.Sub(a0).Perp().Normalized()
	}

	return constraint.CollisionInfo{
		Normal: normal,
		Depth:  fixedmath.DefaultEpsilon.Sub(dist),
		PointA: pa,
		PointB: pb,
	}, true
}

// closestPointsBetweenSegments finds the closest pair of points
// between segments (a0,a1) and (b0,b1), clamped to both segments.
func closestPointsBetweenSegments(a0, a1, b0, b1 fixedmath.Vec2) (fixedmath.Vec2, fixedmath.Vec2) {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	r := a0.Sub(b0)

	aa := d1.Dot(d1)
	ee := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t fixedmath.FixedNum
	switch {
	case aa.IsZero() && ee.IsZero():
		return a0, b0
	case aa.IsZero():
		s = fixedmath.Zero
		t = fixedmath.Clamp01(f.Div(ee))
	case ee.IsZero():
		c := d1.Dot(r)
		t = fixedmath.Zero
		s = fixedmath.Clamp01(c.Neg().Div(aa))
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := aa.Mul(ee).Sub(b.Mul(b))
		if !denom.IsZero() {
			s = fixedmath.Clamp01(b.Mul(f).Sub(c.Mul(ee)).Div(denom))
		} else {
			s = fixedmath.Zero
		}
		t = b.Mul(s).Add(f).Div(ee)
		if t < fixedmath.Zero {
			t = fixedmath.Zero
			s = fixedmath.Clamp01(c.Neg().Div(aa))
		} else if t > fixedmath.One {
			t = fixedmath.One
			s = fixedmath.Clamp01(b.Sub(c).Div(aa))
		}
	}

	return a0.Add(d1.Scale(s)), b0.Add(d2.Scale(t))
}

// gjkNarrowPhase routes any pair involving a ConvexPolygon (or any
// pair the fast paths above don't cover) through GJK/EPA.
func gjkNarrowPhase(a, b *actor.Collider) (constraint.CollisionInfo, bool) {
	var g gjk.GJK
	if !g.QueryCollision(&a.Shape, &b.Shape) {
		return constraint.CollisionInfo{}, false
	}

	normal := g.PenetrationNormal
	if normal.IsZero() {
		normal = fixedmath.Vec2{X: fixedmath.One}
	}

	return constraint.CollisionInfo{
		Normal: normal,
		Depth:  g.PenetrationDistance,
		PointA: g.ClosestOnA,
		PointB: g.ClosestOnB,
	}, true
}
