package actor

import (
	"testing"

	"github.com/lumenforge/fixphys/fixedmath"
)

func TestColliderFilterGroupOverride(t *testing.T) {
	a := ColliderFilter{Group: 1, Layer: 1, Mask: 1}
	b := ColliderFilter{Group: 1, Layer: 1, Mask: 1}
	if a.CanCollide(b) {
		t.Error("colliders sharing a non-zero group should never collide")
	}
}

func TestColliderFilterMaskLayer(t *testing.T) {
	a := ColliderFilter{Layer: 1, Mask: 2}
	b := ColliderFilter{Layer: 2, Mask: 1}
	if !a.CanCollide(b) {
		t.Error("a.Mask intersects b.Layer, should collide")
	}

	c := ColliderFilter{Layer: 4, Mask: 4}
	d := ColliderFilter{Layer: 8, Mask: 8}
	if c.CanCollide(d) {
		t.Error("disjoint layer/mask should not collide")
	}
}

func TestColliderCanCollideWithSameBodyRejected(t *testing.T) {
	body := NewDynamicBody(fi(1), fi(1))
	c1 := NewCollider(NewCircleShape(fi(1), fixedmath.Vec3{}))
	c2 := NewCollider(NewCircleShape(fi(1), fixedmath.Vec3{}))
	body.AddCollider(c1)
	body.AddCollider(c2)

	if c1.CanCollideWith(c2) {
		t.Error("two colliders on the same body should never collide")
	}
}

func TestColliderCanCollideWithDifferentBodies(t *testing.T) {
	bodyA := NewDynamicBody(fi(1), fi(1))
	bodyB := NewDynamicBody(fi(1), fi(1))
	c1 := NewCollider(NewCircleShape(fi(1), fixedmath.Vec3{}))
	c2 := NewCollider(NewCircleShape(fi(1), fixedmath.Vec3{}))
	bodyA.AddCollider(c1)
	bodyB.AddCollider(c2)

	if !c1.CanCollideWith(c2) {
		t.Error("colliders on different bodies with default filters should collide")
	}
}
