package bvh

import "github.com/lumenforge/fixphys/fixedmath"

// queryFrame is one entry of the reusable traversal stack: a node
// plus either the narrowed query box (box queries) or the ray entry
// distance (ray queries). The two query kinds never run concurrently
// (single-threaded tick) so they share one stack buffer.
type queryFrame struct {
	node int32
	box  fixedmath.AABB
	dist fixedmath.FixedNum
}

// QueryBox descends the tree, narrowing the query box against every
// ancestor along the way, and calls visit for every leaf whose true
// (non-loose) bounds intersect the narrowed box. visit returns true to
// stop the query early.
func (t *Tree) QueryBox(bounds fixedmath.AABB, visit func(Item) bool) {
	if t.root == nullIndex {
		return
	}

	t.stack = t.stack[:0]
	t.stack = append(t.stack, queryFrame{node: t.root, box: bounds})

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		n := &t.nodes[top.node]
		if !n.box.Intersects(top.box) {
			continue
		}

		if n.isLeaf() {
			if n.item.Bounds().Intersects(top.box) && visit(n.item) {
				return
			}
			continue
		}

		narrowed := top.box.Sub(n.box)
		t.stack = append(t.stack, queryFrame{node: n.left, box: narrowed})
		t.stack = append(t.stack, queryFrame{node: n.right, box: narrowed})
	}
}

// QueryRay performs a best-first traversal of the tree along the ray
// start -> start+direction*distance. At each internal node the two
// children's entry distances are computed; the farther child is
// pushed first so the nearer one is popped (and explored) first.
// visit is called once per leaf candidate and must return the hit
// distance it wants recorded, or a value >= distance to report a
// miss; the running best distance prunes the remainder of the search.
func (t *Tree) QueryRay(start, direction fixedmath.Vec2, distance fixedmath.FixedNum, visit func(Item) fixedmath.FixedNum) {
	if t.root == nullIndex {
		return
	}

	end := start.Add(direction.Scale(distance))
	minDistance := distance

	t.stack = t.stack[:0]
	t.stack = append(t.stack, queryFrame{node: t.root, dist: distance})

	for len(t.stack) > 0 {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		if top.dist > minDistance {
			continue
		}

		n := &t.nodes[top.node]
		if n.isLeaf() {
			d := visit(n.item)
			if d < minDistance {
				minDistance = d
			}
			continue
		}

		// GetDistance is parametric along start->end; scale it to the
		// same units as distance and the visitor's hit distances.
		d1 := t.nodes[n.left].box.GetDistance(start, end)
		d2 := t.nodes[n.right].box.GetDistance(start, end)
		if d1 != fixedmath.Max {
			d1 = d1.Mul(distance)
		}
		if d2 != fixedmath.Max {
			d2 = d2.Mul(distance)
		}

		if d1 < d2 {
			if d2 < minDistance {
				t.stack = append(t.stack, queryFrame{node: n.right, dist: d2})
			}
			if d1 < minDistance {
				t.stack = append(t.stack, queryFrame{node: n.left, dist: d1})
			}
		} else {
			if d1 < minDistance {
				t.stack = append(t.stack, queryFrame{node: n.left, dist: d1})
			}
			if d2 < minDistance {
				t.stack = append(t.stack, queryFrame{node: n.right, dist: d2})
			}
		}
	}
}
