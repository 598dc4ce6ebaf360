// Package fixphys is the deterministic fixed-point 2D rigid-body
// physics core: a single-threaded, ordered tick over a dynamic and a
// static bounding-volume hierarchy, GJK/EPA narrow phase, and a
// sequential-impulse contact solver, built for lockstep multiplayer
// where every peer must reach byte-identical state from the same
// inputs.
package fixphys

import (
	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/bvh"
	"github.com/lumenforge/fixphys/constraint"
	"github.com/lumenforge/fixphys/fixedmath"
	"github.com/lumenforge/fixphys/log"
)

// Config carries every tunable the tick loop reads. All fields have
// meaningful zero-adjacent defaults via DefaultConfig.
type Config struct {
	Gravity fixedmath.Vec3
	Damping fixedmath.FixedNum // per-tick velocity multiplier, e.g. 0.999

	SolverIterations int

	BiasFactor         fixedmath.FixedNum
	AllowedPenetration fixedmath.FixedNum

	SleepSpeedThreshold fixedmath.FixedNum
	SleepTimeThreshold  fixedmath.FixedNum

	BVHEdgeCoef      fixedmath.FixedNum
	RebuildThreshold int

	WorldY        fixedmath.FixedNum
	WorldYEnabled bool

	Log log.Sink
}

// DefaultConfig returns the engine's stock tuning, matching the
// magnitudes used throughout spec section 8's worked scenarios.
func DefaultConfig() Config {
	return Config{
		Gravity:             fixedmath.Vec3{Z: fixedmath.FromInt(-10)},
		Damping:             fixedmath.FromFloat64(0.999),
		SolverIterations:    4,
		BiasFactor:          fixedmath.FromFloat64(0.2),
		AllowedPenetration:  fixedmath.FromFloat64(0.01),
		SleepSpeedThreshold: fixedmath.FromFloat64(0.05),
		SleepTimeThreshold:  fixedmath.FromFloat64(0.5),
		BVHEdgeCoef:         fixedmath.FromFloat64(0.1),
		RebuildThreshold:    100,
		Log:                 log.Discard{},
	}
}

// World owns every body, both broadphase trees, and the live contact
// set. The zero value is not usable; construct with New.
type World struct {
	cfg Config

	Bodies []*actor.RigidBody

	staticTree  *bvh.Tree
	dynamicTree *bvh.Tree

	staticBody *actor.RigidBody

	staticFilter       actor.ColliderFilter
	staticFilterWasSet bool

	contacts contactSet

	listeners     map[EventType][]EventListener
	eventBuffer   []Event
	eventsStopped bool

	tickStamp      uint64
	nextColliderID uint32
}

// New builds an empty world. The returned static body is immovable
// world geometry: colliders attached to it live in the static BVH and
// are never integrated.
func New(cfg Config) *World {
	if cfg.Log == nil {
		cfg.Log = log.Discard{}
	}
	w := &World{
		cfg:            cfg,
		staticTree:     bvh.New(cfg.BVHEdgeCoef),
		dynamicTree:    bvh.New(cfg.BVHEdgeCoef),
		contacts:       newContactSet(),
		listeners:      make(map[EventType][]EventListener),
		nextColliderID: 1,
	}
	w.staticBody = actor.NewStaticBody()
	w.addBodyUnchecked(w.staticBody)
	return w
}

// StaticBody returns the world's built-in immovable body; colliders
// attached here count as static world geometry.
func (w *World) StaticBody() *actor.RigidBody { return w.staticBody }

func (w *World) nextID(counter *uint32) uint32 {
	if *counter == 0 {
		// IdOverflow: the monotonic counter wrapped past zero — log and
		// reset to 1, per the error-handling design. Duplicate ids
		// after a wrap are the caller's problem.
		w.cfg.Log.Logf(log.LevelError, "id counter overflowed, resetting to 1")
		*counter = 1
	}
	id := *counter
	*counter++
	return id
}

// AddBody transfers ownership of body to the world: assigns its
// colliders ids, and inserts its colliders into the appropriate
// BVH (static tree for a Static body, dynamic tree otherwise).
func (w *World) AddBody(body *actor.RigidBody) {
	w.addBodyUnchecked(body)
}

func (w *World) addBodyUnchecked(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
	body.RefreshTransformIfDirty()

	tree := w.dynamicTree
	if body.Kind == actor.Static {
		tree = w.staticTree
	}

	for _, c := range body.Colliders {
		if c.InWorld {
			w.cfg.Log.Logf(log.LevelError, "collider %d already in a world, skipping insert", c.ID())
			continue
		}
		c.SetID(w.nextID(&w.nextColliderID))
		if body.Kind == actor.Static && w.staticFilterWasSet {
			c.Filter = w.staticFilter
		}
		if !tree.Insert(c) {
			w.cfg.Log.Logf(log.LevelError, "duplicate BVH insert for collider %d", c.ID())
			continue
		}
		c.InWorld = true
	}
}

// RemoveBody detaches body from the world: drops its colliders from
// their tree and prunes every contact pair that referenced it.
func (w *World) RemoveBody(body *actor.RigidBody) {
	idx := -1
	for i, b := range w.Bodies {
		if b == body {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	w.Bodies = append(w.Bodies[:idx], w.Bodies[idx+1:]...)

	tree := w.dynamicTree
	if body.Kind == actor.Static {
		tree = w.staticTree
	}
	for _, c := range body.Colliders {
		if c.InWorld {
			tree.Remove(c.ID())
			c.InWorld = false
		}
	}

	w.contacts.removeBody(body)
}

// Step advances the simulation by exactly dt, running the ordered
// tick phases: integrate velocity, conditional tree rebuild,
// broadphase, contact-state transitions, pre-solve, N solver
// iterations, integrate position, retire sleeping bodies.
func (w *World) Step(dt fixedmath.FixedNum) {
	w.tickStamp++

	for _, b := range w.Bodies {
		if !b.IsActive {
			continue
		}
		b.IntegrateVelocity(dt, w.cfg.Damping, w.cfg.Gravity)
		b.RefreshTransformIfDirty()
		w.snapWorldY(b)
	}

	if w.staticTree.ChangedCount() > w.cfg.RebuildThreshold {
		w.staticTree.Rebuild()
	}
	if w.dynamicTree.ChangedCount() > w.cfg.RebuildThreshold {
		w.dynamicTree.Rebuild()
	}

	w.queryContactPairs()
	w.updateContactPairStates()
	w.preSolveContacts(dt)
	for i := 0; i < w.cfg.SolverIterations; i++ {
		w.solveContacts()
	}

	for _, b := range w.Bodies {
		if !b.IsActive {
			continue
		}
		b.IntegratePosition(dt, w.cfg.SleepSpeedThreshold, w.cfg.SleepTimeThreshold)
		w.snapWorldY(b)
		w.syncCollidersToTree(b)
	}

	w.retireSleepingBodies()
	w.flushEvents()
}

// snapWorldY pins body's display-plane Y coordinate to the configured
// world-Y value when the lock is enabled. This never feeds the X-Z
// physics math (gravity, velocity, the solver all stay in-plane); it
// only affects the pose a renderer would read back.
func (w *World) snapWorldY(body *actor.RigidBody) {
	if !w.cfg.WorldYEnabled {
		return
	}
	body.Position.Y = w.cfg.WorldY
	body.MarkTransformDirty()
	body.RefreshTransformIfDirty()
}

// syncCollidersToTree updates the appropriate BVH for every collider
// belonging to body after its pose changed this tick.
func (w *World) syncCollidersToTree(body *actor.RigidBody) {
	tree := w.dynamicTree
	if body.Kind == actor.Static {
		return // static bodies never move, nothing to resync
	}
	for _, c := range body.Colliders {
		if c.InWorld {
			tree.Update(c)
		}
	}
}

// queryContactPairs runs the broadphase: for every active non-Static
// body's colliders, box-query both trees and run the narrow phase on
// every candidate that passes the collision filter and hasn't already
// been visited this tick.
func (w *World) queryContactPairs() {
	for _, body := range w.Bodies {
		if body.Kind == actor.Static || !body.IsActive {
			continue
		}
		for _, c := range body.Colliders {
			w.queryTreeForCollider(c, w.dynamicTree)
			w.queryTreeForCollider(c, w.staticTree)
		}
	}
}

func (w *World) queryTreeForCollider(c *actor.Collider, tree *bvh.Tree) {
	tree.QueryBox(c.Bounds(), func(item bvh.Item) bool {
		other := item.(*actor.Collider)
		if !c.CanCollideWith(other) {
			return false
		}

		key := constraint.Key(c.ID(), other.ID())
		if pair, ok := w.contacts.get(key); ok && pair.Stamp == w.tickStamp {
			return false
		}

		// Canonicalize to (lowID, highID) before running the narrow
		// phase, so Info.Normal/PointA/PointB are always oriented
		// lowID->highID, matching the same order ContactPair stores
		// A/B in — otherwise a pair discovered with c/other swapped
		// (e.g. the dynamic body querying into the static body's tree)
		// would store a Normal/PointA/PointB oriented opposite to its
		// own A/B, corrupting both the solver's lever arms and the
		// warm-started accumulators.
		lo, hi := c, other
		if lo.ID() > hi.ID() {
			lo, hi = hi, lo
		}

		info, collide := narrowPhase(lo, hi)
		if !collide {
			return false
		}

		pair, existed := w.contacts.get(key)
		if !existed {
			pair = constraint.NewContactPair(lo, hi)
			w.contacts.insert(key, pair)
		}
		pair.Info = info
		pair.Stamp = w.tickStamp

		c.Body.CollisionStampLastTouched = w.tickStamp
		other.Body.CollisionStampLastTouched = w.tickStamp
		c.Body.SetActive(true)
		other.Body.SetActive(true)

		return false
	})
}

// updateContactPairStates transitions every pair's state based on
// whether it was refreshed by queryContactPairs this tick, emitting
// Enter/Stay/Exit notifications and pruning Exit pairs.
func (w *World) updateContactPairStates() {
	var toRemove []uint64

	w.contacts.each(func(key uint64, pair *constraint.ContactPair) {
		enter, stay, exit := pairEventTypes(pair.IsTrigger)

		if pair.Stamp == w.tickStamp {
			if pair.State == constraint.Enter {
				w.emit(Event{Type: enter, A: pair.A, B: pair.B})
				pair.State = constraint.Stay
			} else {
				w.emit(Event{Type: stay, A: pair.A, B: pair.B})
			}
			return
		}

		w.emit(Event{Type: exit, A: pair.A, B: pair.B})
		toRemove = append(toRemove, key)
	})

	for _, key := range toRemove {
		w.contacts.remove(key)
	}
}

func (w *World) preSolveContacts(dt fixedmath.FixedNum) {
	w.contacts.each(func(_ uint64, pair *constraint.ContactPair) {
		pair.PreSolve(dt, w.cfg.BiasFactor, w.cfg.AllowedPenetration)
	})
}

func (w *World) solveContacts() {
	w.contacts.each(func(_ uint64, pair *constraint.ContactPair) {
		pair.Solve()
	})
}

// retireSleepingBodies deactivates every body whose canSleep() is
// true, emitting OnSleep; a body that wakes back up (e.g. a caller
// applied a force) emits OnWake instead.
func (w *World) retireSleepingBodies() {
	for _, b := range w.Bodies {
		if b.Kind == actor.Static {
			continue
		}
		wasActive := b.IsActive
		if wasActive && b.CanSleep(w.tickStamp, w.cfg.SleepTimeThreshold) {
			b.SetActive(false)
			w.emit(Event{Type: OnSleep, Body: b})
		} else if !wasActive && b.IsActive {
			w.emit(Event{Type: OnWake, Body: b})
		}
	}
}

// --- External getters (spec section 6) ---

func (w *World) Gravity() fixedmath.Vec3                { return w.cfg.Gravity }
func (w *World) Damping() fixedmath.FixedNum             { return w.cfg.Damping }
func (w *World) SleepSpeedThreshold() fixedmath.FixedNum { return w.cfg.SleepSpeedThreshold }
func (w *World) SleepTimeThreshold() fixedmath.FixedNum  { return w.cfg.SleepTimeThreshold }
func (w *World) SolverIterations() int                   { return w.cfg.SolverIterations }
func (w *World) AllowedPenetration() fixedmath.FixedNum  { return w.cfg.AllowedPenetration }
func (w *World) BiasFactor() fixedmath.FixedNum          { return w.cfg.BiasFactor }
func (w *World) RebuildThreshold() int                   { return w.cfg.RebuildThreshold }
func (w *World) BVHEdgeCoef() fixedmath.FixedNum         { return w.cfg.BVHEdgeCoef }

// SetBVHEdgeCoef updates the loose-leaf fattening coefficient on both
// the static and dynamic trees; existing leaves keep their current
// loose bounds (Rebuild keeps them too) until an Update finds the
// collider outside its leaf box and reinserts it.
func (w *World) SetBVHEdgeCoef(coef fixedmath.FixedNum) {
	w.cfg.BVHEdgeCoef = coef
	w.staticTree.SetEdgeCoef(coef)
	w.dynamicTree.SetEdgeCoef(coef)
}

// SetRebuildThreshold sets how many changed leaves a tree accumulates
// before Step triggers a full Rebuild instead of incremental Updates.
func (w *World) SetRebuildThreshold(n int) {
	w.cfg.RebuildThreshold = n
}

// WorldY returns the Y value active bodies are pinned to when the
// world-Y lock is enabled.
func (w *World) WorldY() fixedmath.FixedNum { return w.cfg.WorldY }

// SetWorldY sets the Y value the lock pins active bodies to. The value
// is stored at once and is applied from the next tick on, and only
// while the lock is enabled.
func (w *World) SetWorldY(y fixedmath.FixedNum) {
	w.cfg.WorldY = y
}

// IsWorldYEnabled reports whether the global-Y plane lock is active.
func (w *World) IsWorldYEnabled() bool { return w.cfg.WorldYEnabled }

// SetWorldYEnabled toggles the global-Y plane lock: while enabled,
// every active body's Y position is pinned to WorldY both before the
// broadphase and after position integration, collapsing the
// simulation's display pose onto a single horizontal plane without
// ever feeding the X-Z physics math.
func (w *World) SetWorldYEnabled(enabled bool) {
	w.cfg.WorldYEnabled = enabled
}

// SetStaticShapeFilter overrides the collision filter applied to every
// collider subsequently attached to a Static-kind body (including the
// world's own StaticBody). Mirrors the original engine's
// setStaticShapeFilter; unlike the source this carries, the override
// is actually applied rather than stored and ignored — every static
// collider added after this call uses it in place of DefaultFilter.
// Colliders already in the world keep their existing filter. Calling
// this is optional: a world that never calls it keeps today's
// per-collider filter behavior for static geometry.
func (w *World) SetStaticShapeFilter(group, layer, mask uint32) {
	w.staticFilter = actor.ColliderFilter{Group: group, Layer: layer, Mask: mask}
	w.staticFilterWasSet = true
}

// TickStamp returns the current tick counter.
func (w *World) TickStamp() uint64 { return w.tickStamp }

// MemoryUsage approximates the world's total footprint: both BVH
// trees plus a fixed per-body/per-collider/per-contact estimate.
func (w *World) MemoryUsage() int {
	const bodySize = 96
	const colliderSize = 160
	const contactSize = 96

	colliders := 0
	for _, b := range w.Bodies {
		colliders += len(b.Colliders)
	}

	return w.staticTree.MemoryUsage() + w.dynamicTree.MemoryUsage() +
		len(w.Bodies)*bodySize + colliders*colliderSize + len(w.contacts.keys)*contactSize
}
