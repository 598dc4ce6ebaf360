package actor

import (
	"testing"

	"github.com/lumenforge/fixphys/fixedmath"
)

func TestNewDynamicBodyMassReciprocal(t *testing.T) {
	b := NewDynamicBody(fi(2), fi(4))
	want := fixedmath.One.Div(fi(2))
	if b.InvMass != want {
		t.Errorf("InvMass = %v, want %v", b.InvMass.AsFloat64(), want.AsFloat64())
	}
	wantI := fixedmath.One.Div(fi(4))
	if b.InvInertia != wantI {
		t.Errorf("InvInertia = %v, want %v", b.InvInertia.AsFloat64(), wantI.AsFloat64())
	}
}

func TestStaticBodyIgnoresForcesAndMass(t *testing.T) {
	b := NewStaticBody()
	b.AddForce(fixedmath.Vec3{Y: fi(-10)})
	b.IntegrateVelocity(ff(0.016), fixedmath.One, fixedmath.Vec3{Y: fi(-10)})
	if !b.Velocity.IsZero() {
		t.Error("static body should never accumulate velocity")
	}
	b.SetMass(fi(99))
	if b.InvMass != fixedmath.Zero {
		t.Error("static body mass/invMass must stay at the sentinel")
	}
}

func TestIntegrateVelocityUnderGravity(t *testing.T) {
	b := NewDynamicBody(fi(1), fi(1))
	dt := ff(0.1)
	gravity := fixedmath.Vec3{Y: fi(-10)}
	b.IntegrateVelocity(dt, fixedmath.One, gravity)

	wantY := fi(-10).Mul(dt)
	if !fixedmath.AlmostEqual(b.Velocity.Y, wantY, ff(0.001)) {
		t.Errorf("velocity.Y = %v, want %v", b.Velocity.Y.AsFloat64(), wantY.AsFloat64())
	}
}

func TestIntegratePositionUpdatesColliderTransform(t *testing.T) {
	b := NewDynamicBody(fi(1), fi(1))
	c := NewCollider(NewCircleShape(fi(1), fixedmath.Vec3{}))
	b.AddCollider(c)

	b.Velocity = fixedmath.Vec3{X: fi(1)}
	b.IntegratePosition(ff(1), ff(0.01), ff(0.5))

	if b.Position.X != fi(1) {
		t.Fatalf("position.X = %v, want 1", b.Position.X.AsFloat64())
	}
	if c.Shape.Bounds().Center().X != fi(1) {
		t.Errorf("collider bounds did not follow the body: center = %v", c.Shape.Bounds().Center())
	}
}

func TestSleepAfterIdleThreshold(t *testing.T) {
	b := NewDynamicBody(fi(1), fi(1))
	sleepSpeed := ff(0.01)
	sleepTime := ff(0.2)

	// three idle ticks of 0.1s each exceeds the 0.2s threshold
	for i := 0; i < 3; i++ {
		b.IntegratePosition(ff(0.1), sleepSpeed, sleepTime)
	}

	if !b.CanSleep(999, sleepTime) {
		t.Error("body idle past the time threshold with no contact this tick should be sleep-eligible")
	}
}

func TestCanSleepBlockedByContactThisTick(t *testing.T) {
	b := NewDynamicBody(fi(1), fi(1))
	sleepTime := ff(0.2)
	b.IdleTime = ff(1)
	b.CollisionStampLastTouched = 5

	if b.CanSleep(5, sleepTime) {
		t.Error("a body touched by a contact on the current tick should not be allowed to sleep")
	}
	if !b.CanSleep(6, sleepTime) {
		t.Error("a body untouched on the current tick and past the idle threshold should be sleep-eligible")
	}
}

func TestEffectivePointMassAtCenterEqualsInvMass(t *testing.T) {
	b := NewDynamicBody(fi(2), fi(1))
	got := b.EffectivePointMass(fixedmath.Vec2Zero, fixedmath.Vec2{X: fixedmath.One})
	if got != b.InvMass {
		t.Errorf("effective point mass at the center of mass = %v, want InvMass %v", got.AsFloat64(), b.InvMass.AsFloat64())
	}
}

func TestApplyLinearImpulse(t *testing.T) {
	b := NewDynamicBody(fi(2), fi(1))
	b.ApplyLinearImpulse(fixedmath.Vec3{X: fi(4)})
	want := fi(4).Mul(b.InvMass)
	if b.Velocity.X != want {
		t.Errorf("velocity.X = %v, want %v", b.Velocity.X.AsFloat64(), want.AsFloat64())
	}
}
