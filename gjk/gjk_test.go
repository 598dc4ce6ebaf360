package gjk

import (
	"testing"

	"github.com/lumenforge/fixphys/fixedmath"
)

// circleShape is a minimal Shape implementation used only to exercise
// GJK/EPA in isolation from the actor package.
type circleShape struct {
	center fixedmath.Vec2
	radius fixedmath.FixedNum
}

func (c circleShape) Bounds() fixedmath.AABB {
	return fixedmath.NewAABBFromCenterRadius(c.center, c.radius)
}

func (c circleShape) FirstVertex() fixedmath.Vec2 {
	return c.center.Add(fixedmath.Vec2{X: c.radius})
}

func (c circleShape) SupportInDirection(dir fixedmath.Vec2) fixedmath.Vec2 {
	l := dir.Length()
	if l.IsZero() {
		return c.center.Add(fixedmath.Vec2{X: c.radius})
	}
	return c.center.Add(dir.Scale(c.radius.Div(l)))
}

func f(n int) fixedmath.FixedNum { return fixedmath.FromInt(n) }

func TestGJKSeparatedCircles(t *testing.T) {
	a := circleShape{center: fixedmath.Vec2{X: f(-5)}, radius: f(1)}
	b := circleShape{center: fixedmath.Vec2{X: f(5)}, radius: f(1)}

	var g GJK
	if g.QueryCollision(a, b) {
		t.Fatal("widely separated circles should not collide")
	}
	want := f(8)
	got := g.ClosestOnA.DistanceTo(g.ClosestOnB)
	if !fixedmath.AlmostEqual(got, want, f(1).DivInt(4)) {
		t.Errorf("closest distance = %v, want ~%v", got.AsFloat64(), want.AsFloat64())
	}
}

func TestGJKOverlappingCircles(t *testing.T) {
	a := circleShape{center: fixedmath.Vec2{X: f(0).Sub(fixedmath.FromFloat64(0.5))}, radius: f(1)}
	b := circleShape{center: fixedmath.Vec2{X: fixedmath.FromFloat64(0.5)}, radius: f(1)}

	var g GJK
	if !g.QueryCollision(a, b) {
		t.Fatal("overlapping unit circles should collide")
	}
	wantDepth := f(1)
	if !fixedmath.AlmostEqual(g.PenetrationDistance, wantDepth, fixedmath.FromFloat64(0.1)) {
		t.Errorf("penetration depth = %v, want ~1", g.PenetrationDistance.AsFloat64())
	}
	if g.PenetrationNormal.X <= 0 {
		t.Errorf("penetration normal = %v, want +x-ish (b is to the right of a)", g.PenetrationNormal)
	}
}

func TestContainsPointTriangleWinding(t *testing.T) {
	tri := []fixedmath.Vec2{
		{X: f(0), Y: f(0)},
		{X: f(4), Y: f(0)},
		{X: f(0), Y: f(4)},
	}
	if !ContainsPoint(tri, fixedmath.Vec2{X: f(1), Y: f(1)}) {
		t.Error("point inside triangle should be contained")
	}
	if ContainsPoint(tri, fixedmath.Vec2{X: f(3), Y: f(3)}) {
		t.Error("point outside triangle should not be contained")
	}
}
