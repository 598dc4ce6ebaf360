package fixphys

import (
	"testing"

	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/fixedmath"
)

func fi(n int) fixedmath.FixedNum     { return fixedmath.FromInt(n) }
func ff(v float64) fixedmath.FixedNum { return fixedmath.FromFloat64(v) }

// addCircleBody places a unit circle at planar coordinates (x, z) — the
// X-Z plane is where collision math happens; Y is the locked-constant
// axis (see Config.WorldYEnabled).
func addCircleBody(w *World, x, z float64, kind actor.BodyKind) *actor.RigidBody {
	var b *actor.RigidBody
	if kind == actor.Static {
		b = actor.NewStaticBody()
	} else {
		b = actor.NewDynamicBody(fi(1), fi(1))
	}
	b.Position = fixedmath.Vec3{X: ff(x), Z: ff(z)}
	b.MarkTransformDirty()
	c := actor.NewCollider(actor.NewCircleShape(fi(1), fixedmath.Vec3{}))
	b.AddCollider(c)
	w.AddBody(b)
	return b
}

func TestTwoCirclesContactAndSeparate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = fixedmath.Vec3Zero
	w := New(cfg)

	left := addCircleBody(w, -0.5, 0, actor.Dynamic)
	right := addCircleBody(w, 0.5, 0, actor.Dynamic)

	w.Step(ff(1.0 / 60))

	if len(w.contacts.keys) != 1 {
		t.Fatalf("expected exactly one contact pair, got %d", len(w.contacts.keys))
	}

	for i := 0; i < 20; i++ {
		w.Step(ff(1.0 / 60))
	}

	if left.Position.X.AsFloat64() >= right.Position.X.AsFloat64() {
		t.Errorf("bodies did not separate: left.X=%v right.X=%v",
			left.Position.X.AsFloat64(), right.Position.X.AsFloat64())
	}
	if right.Position.X.Sub(left.Position.X).AsFloat64() <= 1.0 {
		t.Error("expected separation to exceed the initial unit distance after solving")
	}
}

func TestCircleSettlesOnSegment(t *testing.T) {
	cfg := DefaultConfig()
	w := New(cfg)

	ground := actor.NewStaticBody()
	groundCollider := actor.NewCollider(actor.NewSegmentShape(
		fixedmath.Vec3{X: ff(-5)}, fixedmath.Vec3{X: ff(5)}))
	ground.AddCollider(groundCollider)
	w.AddBody(ground)

	ball := addCircleBody(w, 0, 5, actor.Dynamic)

	dt := ff(1.0 / 60)
	for i := 0; i < 60; i++ {
		w.Step(dt)
	}

	z := ball.Position.Z.AsFloat64()
	allowed := cfg.AllowedPenetration.AsFloat64()
	if z < 1-allowed-0.05 || z > 1+0.05 {
		t.Errorf("ball.Z = %v, want in [%v, %v]", z, 1-allowed, 1.0)
	}
}

func TestLineCastHitsSegment(t *testing.T) {
	w := New(DefaultConfig())

	ground := actor.NewStaticBody()
	seg := actor.NewCollider(actor.NewSegmentShape(
		fixedmath.Vec3{X: ff(3), Z: ff(-1)}, fixedmath.Vec3{X: ff(3), Z: ff(1)}))
	ground.AddCollider(seg)
	w.AddBody(ground)

	hit, ok := w.LineCast(fixedmath.Vec2{}, fixedmath.Vec2{X: fi(10)}, actor.DefaultFilter)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Distance.AsFloat64() < 2.9 || hit.Distance.AsFloat64() > 3.1 {
		t.Errorf("hit.Distance = %v, want ~3", hit.Distance.AsFloat64())
	}
	if hit.Point.X.AsFloat64() < 2.9 || hit.Point.X.AsFloat64() > 3.1 {
		t.Errorf("hit.Point.X = %v, want ~3", hit.Point.X.AsFloat64())
	}
}

func TestSleepingBodyStopsIntegrating(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = fixedmath.Vec3Zero
	cfg.SleepTimeThreshold = ff(0.05)
	w := New(cfg)

	body := addCircleBody(w, 0, 10, actor.Dynamic)

	dt := ff(1.0 / 60)
	for i := 0; i < 10; i++ {
		w.Step(dt)
	}

	if body.IsActive {
		t.Fatal("expected body to be asleep after idling past the threshold")
	}
	if !body.Velocity.IsZero() || !body.AngularVelocity.IsZero() {
		t.Errorf("sleeping body must have zero velocity, got v=%v w=%v",
			body.Velocity, body.AngularVelocity.AsFloat64())
	}

	posBefore := body.Position
	w.Step(dt)
	if body.Position != posBefore {
		t.Error("a sleeping body must not be integrated")
	}
}

func TestAddBodyAssignsAscendingColliderIDs(t *testing.T) {
	w := New(DefaultConfig())
	a := addCircleBody(w, 0, 0, actor.Dynamic)
	b := addCircleBody(w, 5, 0, actor.Dynamic)

	if a.Colliders[0].ID() >= b.Colliders[0].ID() {
		t.Error("collider ids must be assigned in ascending order")
	}
}

func TestRemoveBodyDropsItsContacts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = fixedmath.Vec3Zero
	w := New(cfg)

	left := addCircleBody(w, -0.5, 0, actor.Dynamic)
	_ = addCircleBody(w, 0.5, 0, actor.Dynamic)

	w.Step(ff(1.0 / 60))
	if len(w.contacts.keys) == 0 {
		t.Fatal("expected a contact pair before removal")
	}

	w.RemoveBody(left)
	if len(w.contacts.keys) != 0 {
		t.Error("removing a body must drop every contact pair referencing it")
	}
}
