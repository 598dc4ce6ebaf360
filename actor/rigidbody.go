package actor

import "github.com/lumenforge/fixphys/fixedmath"

// BodyKind selects how a body participates in simulation: Dynamic
// bodies integrate under force/gravity and can sleep; Kinematic
// bodies move (their pose can be driven externally) but are never
// affected by forces or solver impulses and are still indexed in the
// dynamic BVH (so dynamic bodies can be swept against them); Static
// bodies never move and live in the separate static BVH.
type BodyKind int

const (
	Dynamic BodyKind = iota
	Kinematic
	Static
)

// RigidBody is the integrator and collider owner. Mass/inertia store
// both the value and its reciprocal so the solver never divides at
// the hot path; a Static (or infinite-mass) body has InvMass ==
// InvInertia == 0.
type RigidBody struct {
	Kind BodyKind

	Mass, InvMass         fixedmath.FixedNum
	Inertia, InvInertia   fixedmath.FixedNum

	Position fixedmath.Vec3
	Yaw      fixedmath.FixedNum // degrees
	Scale    fixedmath.FixedNum // uniform

	Velocity        fixedmath.Vec3
	AngularVelocity fixedmath.FixedNum // degrees/sec

	force  fixedmath.Vec3
	torque fixedmath.FixedNum

	forceImpulse  fixedmath.Vec3
	torqueImpulse fixedmath.FixedNum

	matrix         fixedmath.Mat2D
	transformDirty bool

	Colliders []*Collider

	IsActive bool
	IdleTime fixedmath.FixedNum

	// CollisionStampLastTouched records the tick at which this body
	// last participated in a contact, used by canSleep to require a
	// contact-free tick before sleeping.
	CollisionStampLastTouched uint64
}

// massSentinel stands in for "infinite mass": the reciprocal is
// exactly zero, and the forward value is Max so any code that does
// compute with it directly (rather than through InvMass) saturates
// instead of producing a small, wrong impulse.
var massSentinel = fixedmath.Max

// NewDynamicBody creates a Dynamic body with the given mass and
// rotational inertia (both must be positive and finite).
func NewDynamicBody(mass, inertia fixedmath.FixedNum) *RigidBody {
	b := &RigidBody{Kind: Dynamic, Scale: fixedmath.One, IsActive: true}
	b.SetMass(mass)
	b.SetInertia(inertia)
	b.transformDirty = true
	b.matrix = fixedmath.Mat2DIdentity
	return b
}

// NewKinematicBody creates a Kinematic body: infinite mass/inertia,
// never integrated by forces, but still moved and still collided
// against from the dynamic tree.
func NewKinematicBody() *RigidBody {
	b := &RigidBody{Kind: Kinematic, Scale: fixedmath.One, IsActive: true, Mass: massSentinel, Inertia: massSentinel}
	b.transformDirty = true
	b.matrix = fixedmath.Mat2DIdentity
	return b
}

// NewStaticBody creates a Static body: infinite mass/inertia, never
// integrated, lives in the static BVH.
func NewStaticBody() *RigidBody {
	b := &RigidBody{Kind: Static, Scale: fixedmath.One, Mass: massSentinel, Inertia: massSentinel}
	b.transformDirty = true
	b.matrix = fixedmath.Mat2DIdentity
	return b
}

// SetMass updates mass and its reciprocal together so they can never
// go out of sync. A Static body ignores this (mass stays the
// sentinel).
func (b *RigidBody) SetMass(mass fixedmath.FixedNum) {
	if b.Kind == Static {
		return
	}
	b.Mass = mass
	if mass == massSentinel || mass.IsZero() {
		b.Mass = massSentinel
		b.InvMass = fixedmath.Zero
		return
	}
	b.InvMass = fixedmath.One.Div(mass)
}

func (b *RigidBody) SetInertia(inertia fixedmath.FixedNum) {
	if b.Kind == Static {
		return
	}
	b.Inertia = inertia
	if inertia == massSentinel || inertia.IsZero() {
		b.Inertia = massSentinel
		b.InvInertia = fixedmath.Zero
		return
	}
	b.InvInertia = fixedmath.One.Div(inertia)
}

// AddCollider attaches collider to this body. Adding a collider
// already owned by another body is the caller's InvalidOperation —
// this method reports it through ok, rather than panicking, per the
// error-handling design.
func (b *RigidBody) AddCollider(c *Collider) (ok bool) {
	if c.Body != nil {
		return false
	}
	c.Body = b
	b.Colliders = append(b.Colliders, c)
	return true
}

// RemoveCollider detaches collider from this body.
func (b *RigidBody) RemoveCollider(c *Collider) {
	for i, owned := range b.Colliders {
		if owned == c {
			b.Colliders = append(b.Colliders[:i], b.Colliders[i+1:]...)
			c.Body = nil
			return
		}
	}
}

// AddForce accumulates a continuous force for the next
// IntegrateVelocity call. A Static body ignores forces entirely.
func (b *RigidBody) AddForce(f fixedmath.Vec3) {
	if b.Kind == Static {
		return
	}
	b.force = b.force.Add(f)
	b.SetActive(true)
}

func (b *RigidBody) AddTorque(t fixedmath.FixedNum) {
	if b.Kind == Static {
		return
	}
	b.torque = b.torque.Add(t)
	b.SetActive(true)
}

// ApplyLinearImpulse applies an instantaneous impulse: Velocity changes
// by impulse * InvMass at once. A Static body ignores it.
func (b *RigidBody) ApplyLinearImpulse(impulse fixedmath.Vec3) {
	if b.Kind == Static {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))
}

// ApplyAngularImpulseAt applies impulse J (linear, world-space) at
// world point p, converting the off-center component into an angular
// impulse via r x J, per spec 4.6.
func (b *RigidBody) ApplyAngularImpulseAt(p fixedmath.Vec2, impulse fixedmath.Vec2) {
	if b.Kind == Static {
		return
	}
	r := p.Sub(b.Position.XZ())
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(impulse).Mul(fixedmath.RadianToDeg).Mul(b.InvInertia))
}

// IntegrateVelocity advances velocity/angular velocity under gravity,
// accumulated force/torque, damping, and the one-frame impulse
// accumulators. Static and Kinematic bodies never integrate — a
// Kinematic body's pose, if it moves, is driven externally by the
// caller setting Position/Yaw directly.
func (b *RigidBody) IntegrateVelocity(dt, damping fixedmath.FixedNum, gravity fixedmath.Vec3) {
	if b.Kind != Dynamic {
		return
	}

	b.Velocity = b.Velocity.Scale(damping)
	b.AngularVelocity = b.AngularVelocity.Mul(damping)

	b.Velocity = b.Velocity.Add(b.force.Add(gravity).Scale(b.InvMass).Scale(dt))
	b.AngularVelocity = b.AngularVelocity.Add(b.torque.Mul(b.InvInertia).Mul(dt))

	b.Velocity = b.Velocity.Add(b.forceImpulse.Scale(b.InvMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.torqueImpulse.Mul(b.InvInertia))

	b.force = fixedmath.Vec3Zero
	b.torque = fixedmath.Zero
	b.forceImpulse = fixedmath.Vec3Zero
	b.torqueImpulse = fixedmath.Zero
}

// IntegratePosition advances pose from the (solved) velocities, then
// refreshes the cached matrix and every owned collider's transform if
// dirty, and updates sleep bookkeeping. sleepSpeedThreshold (the
// linear speed limit; angular speed is held to ten times it) and
// sleepTimeThreshold are the world's configured sleep parameters.
func (b *RigidBody) IntegratePosition(dt, sleepSpeedThreshold, sleepTimeThreshold fixedmath.FixedNum) {
	if b.Kind == Dynamic {
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.Yaw = b.Yaw.Add(b.AngularVelocity.Mul(dt))
		b.transformDirty = true

		speedSq := b.Velocity.XZ().LengthSq()
		angularAbs := b.AngularVelocity.Abs()
		if speedSq <= sleepSpeedThreshold.Mul(sleepSpeedThreshold) && angularAbs <= sleepSpeedThreshold.MulInt(10) {
			b.IdleTime = b.IdleTime.Add(dt)
		} else {
			b.IdleTime = fixedmath.Zero
		}

		if b.IdleTime > sleepTimeThreshold {
			b.Velocity = fixedmath.Vec3Zero
			b.AngularVelocity = fixedmath.Zero
		}
	}

	b.RefreshTransformIfDirty()
}

// RefreshTransformIfDirty recomputes the cached matrix and every owned
// collider's world-space shape when the pose has changed since the
// last refresh — called at the end of IntegratePosition, and also
// directly by the world at the top of a tick for Kinematic bodies
// whose pose was set externally before this tick began.
func (b *RigidBody) RefreshTransformIfDirty() {
	if !b.transformDirty {
		return
	}
	b.refreshMatrix()
	for _, c := range b.Colliders {
		c.UpdateTransform(b.matrix)
	}
	b.transformDirty = false
}

func (b *RigidBody) refreshMatrix() {
	b.matrix.SetTransform(b.Position.XZ(), b.Yaw, fixedmath.Vec2{X: b.Scale, Y: b.Scale})
}

// Matrix returns the body's current cached affine matrix.
func (b *RigidBody) Matrix() fixedmath.Mat2D { return b.matrix }

// MarkTransformDirty forces a matrix/collider refresh on the next
// IntegratePosition — used when a caller sets Position/Yaw/Scale
// directly (e.g. driving a Kinematic body).
func (b *RigidBody) MarkTransformDirty() { b.transformDirty = true }

// EffectivePointMass is invMass + invInertia * (|r|^2 - (r.dir)^2),
// the solver's per-axis effective mass term at contact point p.
func (b *RigidBody) EffectivePointMass(p, dir fixedmath.Vec2) fixedmath.FixedNum {
	r := p.Sub(b.Position.XZ())
	rn := r.Dot(dir)
	term := r.LengthSq().Sub(rn.Mul(rn))
	return b.InvMass.Add(b.InvInertia.Mul(term))
}

// PointVelocity returns the velocity of the material point p on this
// body: linear velocity plus the angular contribution
// perp(r) * angularVelocity (converted from degrees/sec to rad/sec).
func (b *RigidBody) PointVelocity(p fixedmath.Vec2) fixedmath.Vec2 {
	r := p.Sub(b.Position.XZ())
	return b.Velocity.XZ().Add(r.Perp().Scale(b.AngularVelocity.Mul(fixedmath.DegToRadian)))
}

// CanSleep reports whether the body is eligible to be dropped from
// the active set: always true for Static, or already inactive, or
// idle past the threshold and untouched by a contact this tick.
func (b *RigidBody) CanSleep(currentStamp uint64, sleepTimeThreshold fixedmath.FixedNum) bool {
	if b.Kind == Static {
		return true
	}
	if !b.IsActive {
		return true
	}
	return b.IdleTime > sleepTimeThreshold && b.CollisionStampLastTouched != currentStamp
}

// SetActive toggles whether the body participates in integration.
// Activating resets idle time, matching the source's wake-up
// behavior.
func (b *RigidBody) SetActive(active bool) {
	if active {
		b.IdleTime = fixedmath.Zero
	}
	b.IsActive = active
}
