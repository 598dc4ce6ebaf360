package constraint

import (
	"testing"

	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/fixedmath"
)

func fi(n int) fixedmath.FixedNum     { return fixedmath.FromInt(n) }
func ff(v float64) fixedmath.FixedNum { return fixedmath.FromFloat64(v) }

func fallingPair(t *testing.T) (*actor.Collider, *actor.Collider, *ContactPair) {
	ground := actor.NewStaticBody()
	groundCollider := actor.NewCollider(actor.NewBoxShape(fi(10), fi(1)))
	groundCollider.SetID(1)
	ground.AddCollider(groundCollider)
	groundCollider.UpdateTransform(fixedmath.Mat2DIdentity)

	ball := actor.NewDynamicBody(fi(1), fi(1))
	ballCollider := actor.NewCollider(actor.NewCircleShape(fi(1), fixedmath.Vec3{}))
	ballCollider.SetID(2)
	ball.AddCollider(ballCollider)
	ball.Velocity = fixedmath.Vec3{Z: fi(-5)}
	ballCollider.UpdateTransform(fixedmath.Mat2DIdentity)

	pair := NewContactPair(groundCollider, ballCollider)
	pair.Info = CollisionInfo{
		Normal: fixedmath.Vec2{Y: fixedmath.One},
		Depth:  ff(0.1),
		PointA: fixedmath.Vec2{Y: ff(0.5)},
		PointB: fixedmath.Vec2{Y: ff(-0.5)},
	}
	return groundCollider, ballCollider, pair
}

func TestPreSolveComputesPositiveEffectiveMasses(t *testing.T) {
	_, _, pair := fallingPair(t)
	pair.PreSolve(ff(0.016), ff(0.2), ff(0.01))

	if pair.effMassNormal <= 0 {
		t.Errorf("effMassNormal = %v, want > 0", pair.effMassNormal.AsFloat64())
	}
	if pair.effMassTangent <= 0 {
		t.Errorf("effMassTangent = %v, want > 0", pair.effMassTangent.AsFloat64())
	}
}

func TestSolveStopsApproachAlongNormal(t *testing.T) {
	_, ball, pair := fallingPair(t)
	pair.PreSolve(ff(0.016), ff(0.2), ff(0.01))

	for i := 0; i < 8; i++ {
		pair.Solve()
	}

	vn := ball.Body.PointVelocity(pair.Info.PointB).Dot(pair.Info.Normal)
	if vn < fixedmath.Zero.Sub(ff(0.05)) {
		t.Errorf("after solving, normal velocity = %v, want >= ~0 (no more penetrating)", vn.AsFloat64())
	}
}

func TestNormalAccumulatorNeverNegative(t *testing.T) {
	_, _, pair := fallingPair(t)
	pair.PreSolve(ff(0.016), ff(0.2), ff(0.01))
	for i := 0; i < 8; i++ {
		pair.Solve()
	}
	if pair.AccumulatedNormalImpulse < fixedmath.Zero {
		t.Errorf("accumulated normal impulse = %v, must never go negative", pair.AccumulatedNormalImpulse.AsFloat64())
	}
}

func TestKeyOrdersByIDAscending(t *testing.T) {
	if Key(5, 2) != Key(2, 5) {
		t.Error("Key must be symmetric regardless of argument order")
	}
	want := uint64(2)<<32 | uint64(5)
	if Key(5, 2) != want {
		t.Errorf("Key(5,2) = %x, want %x", Key(5, 2), want)
	}
}

func TestTriggerPairSkipsImpulses(t *testing.T) {
	_, ball, pair := fallingPair(t)
	pair.A.IsTrigger = true
	pair.IsTrigger = true

	before := ball.Body.Velocity
	pair.PreSolve(ff(0.016), ff(0.2), ff(0.01))
	pair.Solve()
	if ball.Body.Velocity != before {
		t.Error("a trigger pair must never apply impulses")
	}
}
