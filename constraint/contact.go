// Package constraint implements the sequential-impulse contact
// solver: pre-solve (effective masses, Baumgarte position bias,
// warm-start) followed by repeated normal+friction impulse
// iterations with clamped accumulators, grounded on spec section
// 4.7's pseudocode. The per-point impulse-accumulation shape (a
// clamped normal lambda feeding a Coulomb-cone-bounded tangent
// lambda, both applied as linear+angular impulses to both bodies) is
// the teacher's own velocity-solve pattern, carried over unchanged in
// spirit; what changes is that the accumulators now persist and
// warm-start across ticks, and penetration correction rides the same
// impulse loop via a Baumgarte bias term rather than a separate XPBD
// position pass.
package constraint

import (
	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/fixedmath"
)

// State is where a ContactPair sits in its enter/stay/exit lifecycle
// this tick.
type State int

const (
	Enter State = iota
	Stay
	Exit
)

// CollisionInfo is the narrow-phase result: the separating normal
// (pointing from A to B), the penetration depth, and the world
// contact points on each collider.
type CollisionInfo struct {
	Normal fixedmath.Vec2
	Depth  fixedmath.FixedNum
	PointA fixedmath.Vec2
	PointB fixedmath.Vec2
}

// ContactPair tracks one collider pair across ticks so the solver can
// warm-start from the previous tick's accumulated impulses.
type ContactPair struct {
	A, B *actor.Collider

	Info CollisionInfo

	IsTrigger bool

	Stamp uint64
	State State

	AccumulatedNormalImpulse  fixedmath.FixedNum
	AccumulatedTangentImpulse fixedmath.FixedNum

	effMassNormal  fixedmath.FixedNum
	effMassTangent fixedmath.FixedNum
	bias           fixedmath.FixedNum
	tangent        fixedmath.Vec2
}

// Key returns the contact-map key (id_a<<32)|id_b with a<=b, matching
// the data model's pair-ordering invariant.
func Key(idA, idB uint32) uint64 {
	if idA > idB {
		idA, idB = idB, idA
	}
	return uint64(idA)<<32 | uint64(idB)
}

// NewContactPair creates a pair in the Enter state with zeroed
// accumulators, ordering A/B by collider id so Key's invariant holds.
func NewContactPair(a, b *actor.Collider) *ContactPair {
	if a.ID() > b.ID() {
		a, b = b, a
	}
	return &ContactPair{
		A: a, B: b,
		IsTrigger: a.IsTrigger || b.IsTrigger || a.Body.Kind == actor.Kinematic || b.Body.Kind == actor.Kinematic,
		State:     Enter,
	}
}

const (
	// accumulatorCeiling is a numeric safety rail on the normal
	// impulse accumulator, not a physical limit.
	accumulatorCeiling = 1000
)

// PreSolve computes effective masses and the position bias from the
// pair's current CollisionInfo, then applies the previous tick's
// accumulated normal and tangent impulses as a warm start. biasFactor
// and allowedPenetration are the world's configured Baumgarte
// stabilization constants.
func (p *ContactPair) PreSolve(dt, biasFactor, allowedPenetration fixedmath.FixedNum) {
	if p.IsTrigger {
		return
	}

	n := p.Info.Normal
	t := n.Perp()
	p.tangent = t

	bodyA, bodyB := p.A.Body, p.B.Body

	massN := bodyA.EffectivePointMass(p.Info.PointA, n).Add(bodyB.EffectivePointMass(p.Info.PointB, n))
	massT := bodyA.EffectivePointMass(p.Info.PointA, t).Add(bodyB.EffectivePointMass(p.Info.PointB, t))

	if !massN.IsZero() {
		p.effMassNormal = fixedmath.One.Div(massN)
	}
	if !massT.IsZero() {
		p.effMassTangent = fixedmath.One.Div(massT)
	}

	over := fixedmath.Max2(p.Info.Depth.Sub(allowedPenetration), fixedmath.Zero)
	p.bias = biasFactor.Mul(over).Div(dt)

	if !p.AccumulatedNormalImpulse.IsZero() || !p.AccumulatedTangentImpulse.IsZero() {
		impulse := n.Scale(p.AccumulatedNormalImpulse).Add(t.Scale(p.AccumulatedTangentImpulse))
		applyImpulsePair(bodyA, bodyB, p.Info.PointA, p.Info.PointB, impulse)
	}
}

// Solve runs one sequential-impulse iteration: the clamped normal
// impulse (non-negative — a contact never pulls), then the clamped
// friction impulse bounded by the Coulomb cone at the mean friction
// coefficient.
func (p *ContactPair) Solve() {
	if p.IsTrigger {
		return
	}

	bodyA, bodyB := p.A.Body, p.B.Body
	n, t := p.Info.Normal, p.tangent

	relVel := bodyB.PointVelocity(p.Info.PointB).Sub(bodyA.PointVelocity(p.Info.PointA))

	vn := relVel.Dot(n)
	dLambdaN := p.bias.Sub(vn).Mul(p.effMassNormal)
	oldN := p.AccumulatedNormalImpulse
	newN := fixedmath.Clamp(oldN.Add(dLambdaN), fixedmath.Zero, fixedmath.FromInt(accumulatorCeiling))
	p.AccumulatedNormalImpulse = newN
	appliedN := newN.Sub(oldN)

	applyImpulsePair(bodyA, bodyB, p.Info.PointA, p.Info.PointB, n.Scale(appliedN))

	relVel = bodyB.PointVelocity(p.Info.PointB).Sub(bodyA.PointVelocity(p.Info.PointA))
	vt := relVel.Dot(t)
	dLambdaT := vt.Mul(p.effMassTangent).Neg()

	mu := p.A.Friction.Add(p.B.Friction).DivInt(2)
	maxF := mu.Mul(newN)
	oldT := p.AccumulatedTangentImpulse
	newT := fixedmath.Clamp(oldT.Add(dLambdaT), maxF.Neg(), maxF)
	p.AccumulatedTangentImpulse = newT
	appliedT := newT.Sub(oldT)

	applyImpulsePair(bodyA, bodyB, p.Info.PointA, p.Info.PointB, t.Scale(appliedT))
}

// applyImpulsePair applies +impulse to B at pB and -impulse to A at
// pA — the shared accumulator-to-velocity step both the warm start
// and each solve iteration use.
func applyImpulsePair(a, b *actor.RigidBody, pA, pB fixedmath.Vec2, impulse fixedmath.Vec2) {
	a.ApplyAngularImpulseAt(pA, impulse.Neg())
	b.ApplyAngularImpulseAt(pB, impulse)
	a.ApplyLinearImpulse(fixedmath.Vec3FromXZ(impulse.Neg()))
	b.ApplyLinearImpulse(fixedmath.Vec3FromXZ(impulse))
}
