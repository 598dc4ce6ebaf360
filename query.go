package fixphys

import (
	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/bvh"
	"github.com/lumenforge/fixphys/fixedmath"
)

// PointCast finds a collider containing p, expanded by radius. The
// dynamic tree is searched before the static tree, matching the
// "moving things first" convention the rest of the broadphase uses.
func (w *World) PointCast(p fixedmath.Vec2, radius fixedmath.FixedNum) (*actor.Collider, bool) {
	box := fixedmath.NewAABBFromCenterRadius(p, radius)

	var found *actor.Collider
	visit := func(item bvh.Item) bool {
		c := item.(*actor.Collider)
		if !c.Shape.ContainsPoint(p, radius) {
			return false
		}
		found = c
		return true
	}

	w.dynamicTree.QueryBox(box, visit)
	if found != nil {
		return found, true
	}
	w.staticTree.QueryBox(box, visit)
	return found, found != nil
}

// LineCast casts a ray from start to end, filtered by filter, against
// both trees, returning the nearest non-trigger hit.
func (w *World) LineCast(start, end fixedmath.Vec2, filter actor.ColliderFilter) (actor.RaycastHit, bool) {
	direction := end.Sub(start)
	distance := direction.Length()
	if distance.IsZero() {
		return actor.RaycastHit{}, false
	}
	dir := direction.DivScalar(distance)
	ray := fixedmath.NewRay(start, end)

	var best actor.RaycastHit
	found := false

	visit := func(item bvh.Item) fixedmath.FixedNum {
		c := item.(*actor.Collider)
		if c.IsTrigger || !filter.CanCollide(c.Filter) {
			return distance
		}
		hit, ok := c.RayCast(ray)
		if !ok || hit.Distance >= distance {
			return distance
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
		return hit.Distance
	}

	w.dynamicTree.QueryRay(start, dir, distance, visit)
	w.staticTree.QueryRay(start, dir, distance, visit)
	return best, found
}

// ColliderCast finds the first collider (other than c itself) whose
// shape actually overlaps c, per the narrow phase — not merely whose
// bounds overlap.
func (w *World) ColliderCast(c *actor.Collider) (*actor.Collider, bool) {
	var found *actor.Collider
	visit := func(item bvh.Item) bool {
		other := item.(*actor.Collider)
		if other == c {
			return false
		}
		if _, collide := narrowPhase(c, other); collide {
			found = other
			return true
		}
		return false
	}

	w.dynamicTree.QueryBox(c.Bounds(), visit)
	if found != nil {
		return found, true
	}
	w.staticTree.QueryBox(c.Bounds(), visit)
	return found, found != nil
}

// ColliderCastAll returns every collider whose shape overlaps c.
func (w *World) ColliderCastAll(c *actor.Collider) []*actor.Collider {
	var found []*actor.Collider
	visit := func(item bvh.Item) bool {
		other := item.(*actor.Collider)
		if other == c {
			return false
		}
		if _, collide := narrowPhase(c, other); collide {
			found = append(found, other)
		}
		return false
	}

	w.dynamicTree.QueryBox(c.Bounds(), visit)
	w.staticTree.QueryBox(c.Bounds(), visit)
	return found
}
