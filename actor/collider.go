package actor

import "github.com/lumenforge/fixphys/fixedmath"

// ColliderFilter gates which collider pairs are allowed to interact.
// Two colliders may collide iff they differ in body, pass this
// filter, and at least one's mask intersects the other's layer.
type ColliderFilter struct {
	Group uint32
	Layer uint32
	Mask  uint32
}

// CanCollide mirrors FColliderFilter::canCollide: groups override
// (non-zero matching groups never collide, regardless of layer/mask);
// otherwise at least one side's mask must intersect the other's layer.
func (f ColliderFilter) CanCollide(o ColliderFilter) bool {
	if f.Group != 0 && f.Group == o.Group {
		return false
	}
	return (f.Mask&o.Layer) != 0 || (o.Mask&f.Layer) != 0
}

// DefaultFilter collides with everything.
var DefaultFilter = ColliderFilter{Layer: 1, Mask: ^uint32(0)}

// RaycastHit is the public result of a ray query: the collider that
// was hit plus the world-space point/normal/distance.
type RaycastHit struct {
	Collider *Collider
	Point    fixedmath.Vec2
	Normal   fixedmath.Vec2
	Distance fixedmath.FixedNum
}

// Collider owns one Shape and the per-shape material/filter/trigger
// state. Its Body/World back-references are non-owning: a collider's
// lifetime is governed entirely by its owning body.
type Collider struct {
	id uint32

	Shape Shape

	Friction   fixedmath.FixedNum
	Elasticity fixedmath.FixedNum
	IsTrigger  bool

	Filter ColliderFilter

	// UserData lets a caller attach an arbitrary payload (render
	// handle, gameplay tag) without the engine needing to know its
	// type.
	UserData any

	// InWorld is true once the collider has been inserted into a BVH.
	// Re-inserting or double-removing is guarded by this flag at the
	// World level.
	InWorld bool

	Body  *RigidBody
	World any // set by the owning World; typed any to avoid an import cycle
}

// NewCollider wraps shape with default material/filter values. id is
// assigned by the owning World when the collider is attached.
func NewCollider(shape Shape) *Collider {
	return &Collider{
		Shape:  shape,
		Filter: DefaultFilter,
	}
}

func (c *Collider) ID() uint32 { return c.id }

// SetID is called exactly once, by the World, when the collider is
// first attached to a body that is added to the world.
func (c *Collider) SetID(id uint32) { c.id = id }

// Bounds satisfies bvh.Item.
func (c *Collider) Bounds() fixedmath.AABB { return c.Shape.Bounds() }

// CanCollideWith mirrors FCollider::canCollideWith: different
// colliders, different owning bodies, and a passing filter.
func (c *Collider) CanCollideWith(o *Collider) bool {
	return c != o && c.Body != o.Body && c.Filter.CanCollide(o.Filter)
}

// UpdateTransform recomputes the collider's world-space shape and
// bounds from its owning body's current affine matrix.
func (c *Collider) UpdateTransform(mat fixedmath.Mat2D) {
	c.Shape.UpdateTransform(mat)
}

// RayCast tests ray against the collider's shape and wraps the result
// with a reference to this collider.
func (c *Collider) RayCast(ray fixedmath.Ray) (RaycastHit, bool) {
	r, ok := c.Shape.RayCast(ray)
	if !ok {
		return RaycastHit{}, false
	}
	return RaycastHit{Collider: c, Point: r.Point, Normal: r.Normal, Distance: r.Distance}, true
}
