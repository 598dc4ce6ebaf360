// Package bvh implements the loose-leaf bounding-volume hierarchy the
// broadphase is built on: a full binary tree of fixedmath.AABB boxes,
// one leaf per indexed item, with a free-list node pool so structural
// churn never allocates once the tree has warmed up.
//
// The tree knows nothing about colliders or bodies — it indexes
// anything implementing Item — so it has no dependency on the actor
// package, matching the "no abstract class escapes the engine" design
// note for the narrow-phase dispatch.
package bvh

import "github.com/lumenforge/fixphys/fixedmath"

// Item is anything the tree can index: a stable numeric id (used as
// the map key for incremental update/remove) and a world-space bound.
type Item interface {
	ID() uint32
	Bounds() fixedmath.AABB
}

const nullIndex = int32(-1)

// node is either a leaf (item != nil) or an internal node with exactly
// two children. Children/parent are stored as slice indices rather
// than pointers, so the free-list is just index bookkeeping and the
// whole tree lives in one contiguous slice.
type node struct {
	box    fixedmath.AABB
	parent int32
	left   int32
	right  int32
	item   Item
}

func (n *node) isLeaf() bool { return n.item != nil }

// Tree is a full binary AABB hierarchy. The zero value is not usable;
// construct with New.
type Tree struct {
	nodes    []node
	freeHead int32
	root     int32

	leafOf map[uint32]int32

	changedCount int

	// edgeCoef expands every leaf's stored box by this fraction of the
	// item's true-box diameter on each axis, absorbing small motion
	// without retriggering a remove+reinsert.
	edgeCoef fixedmath.FixedNum

	stack []queryFrame
}

// New builds an empty tree with the given loose-leaf edge coefficient
// (the source's default is 0.1).
func New(edgeCoef fixedmath.FixedNum) *Tree {
	return &Tree{
		root:     nullIndex,
		freeHead: nullIndex,
		leafOf:   make(map[uint32]int32),
		edgeCoef: edgeCoef,
		stack:    make([]queryFrame, 0, 64),
	}
}

func (t *Tree) EdgeCoef() fixedmath.FixedNum     { return t.edgeCoef }
func (t *Tree) SetEdgeCoef(c fixedmath.FixedNum) { t.edgeCoef = c }
func (t *Tree) ChangedCount() int                { return t.changedCount }
func (t *Tree) LeafCount() int                    { return len(t.leafOf) }

// allocNode pops a free slot or grows the backing slice.
func (t *Tree) allocNode() int32 {
	if t.freeHead != nullIndex {
		idx := t.freeHead
		t.freeHead = t.nodes[idx].left
		t.nodes[idx] = node{parent: nullIndex, left: nullIndex, right: nullIndex}
		return idx
	}
	t.nodes = append(t.nodes, node{parent: nullIndex, left: nullIndex, right: nullIndex})
	return int32(len(t.nodes) - 1)
}

// freeNode returns a node slot to the free-list, threaded through the
// `left` field the way the source reuses its own `left` pointer as the
// free-list's `next`.
func (t *Tree) freeNode(idx int32) {
	t.nodes[idx] = node{left: t.freeHead, right: nullIndex, parent: nullIndex}
	t.freeHead = idx
}

func looseBox(b fixedmath.AABB, edgeCoef fixedmath.FixedNum) fixedmath.AABB {
	d := b.Diameter()
	return b.Expand(d.X.Mul(edgeCoef), d.Y.Mul(edgeCoef))
}

func (t *Tree) createLeaf(item Item) int32 {
	idx := t.allocNode()
	t.nodes[idx].item = item
	t.nodes[idx].box = looseBox(item.Bounds(), t.edgeCoef)
	t.nodes[idx].parent = nullIndex
	t.leafOf[item.ID()] = idx
	return idx
}

func (t *Tree) refitBottomUp(idx int32) {
	for idx != nullIndex {
		n := &t.nodes[idx]
		n.box = t.nodes[n.left].box.Union(t.nodes[n.right].box)
		idx = n.parent
	}
}

// cost is the insertion heuristic from the source: the area of the
// sibling that stays put, plus the area of the union of the *other*
// sibling with the candidate box.
func cost(a, b, candidate fixedmath.AABB) fixedmath.FixedNum {
	ac := a.Union(candidate)
	return b.Area().Add(ac.Area())
}

// costEx breaks a cost tie by L1 distance between box centers.
func costEx(a, b fixedmath.AABB) fixedmath.FixedNum {
	return a.Min.X.Add(a.Max.X).Sub(b.Min.X).Sub(b.Max.X).Abs().
		Add(a.Min.Y.Add(a.Max.Y).Sub(b.Min.Y).Sub(b.Max.Y).Abs())
}

// Insert adds item to the tree. Inserting an id already present is a
// caller error (detected via the leaf map) — per the error-handling
// design this is an InvalidOperation no-op, so it is reported through
// the ok result rather than a panic.
func (t *Tree) Insert(item Item) (ok bool) {
	if _, exists := t.leafOf[item.ID()]; exists {
		return false
	}

	t.changedCount++

	if t.root == nullIndex {
		t.root = t.createLeaf(item)
		return true
	}

	idx := t.root
	for !t.nodes[idx].isLeaf() {
		n := &t.nodes[idx]
		leftCost := cost(t.nodes[n.left].box, t.nodes[n.right].box, item.Bounds())
		rightCost := cost(t.nodes[n.right].box, t.nodes[n.left].box, item.Bounds())
		if leftCost == rightCost {
			leftCost = costEx(t.nodes[n.left].box, item.Bounds())
			rightCost = costEx(t.nodes[n.right].box, item.Bounds())
		}
		if leftCost < rightCost {
			idx = n.left
		} else {
			idx = n.right
		}
	}

	oldLeaf := idx
	parent := t.nodes[oldLeaf].parent
	newLeaf := t.createLeaf(item)

	branch := t.allocNode()
	t.setAsBranch(branch, oldLeaf, newLeaf)

	if parent == nullIndex {
		t.root = branch
	} else {
		t.nodes[branch].parent = parent
		if t.nodes[parent].left == oldLeaf {
			t.nodes[parent].left = branch
		} else {
			t.nodes[parent].right = branch
		}
	}

	t.refitBottomUp(parent)
	return true
}

func (t *Tree) setAsBranch(idx, left, right int32) {
	n := &t.nodes[idx]
	n.item = nil
	n.left = left
	n.right = right
	n.box = t.nodes[left].box.Union(t.nodes[right].box)
	t.nodes[left].parent = idx
	t.nodes[right].parent = idx
}

func neighbor(t *Tree, idx int32) int32 {
	parent := t.nodes[idx].parent
	if parent == nullIndex {
		return nullIndex
	}
	if t.nodes[parent].left == idx {
		return t.nodes[parent].right
	}
	return t.nodes[parent].left
}

// Remove detaches the leaf for id, preserving the full-binary
// invariant by releasing the leaf's parent too and promoting the
// sibling into the grandparent's slot.
func (t *Tree) Remove(id uint32) bool {
	idx, ok := t.leafOf[id]
	if !ok {
		return false
	}

	t.changedCount++
	delete(t.leafOf, id)

	if idx == t.root {
		t.freeNode(t.root)
		t.root = nullIndex
		return true
	}

	sib := neighbor(t, idx)
	parent := t.nodes[idx].parent

	if parent == t.root {
		t.root = sib
		t.nodes[sib].parent = nullIndex
	} else {
		grandParent := t.nodes[parent].parent
		if t.nodes[grandParent].left == parent {
			t.nodes[grandParent].left = sib
		} else {
			t.nodes[grandParent].right = sib
		}
		t.nodes[sib].parent = grandParent
		t.refitBottomUp(grandParent)
	}

	t.freeNode(parent)
	t.freeNode(idx)
	return true
}

// Update re-settles item after it has moved: if the leaf's loose box
// still contains the item's true bounds, nothing structural happens;
// otherwise it is removed and reinserted.
func (t *Tree) Update(item Item) {
	idx, ok := t.leafOf[item.ID()]
	if !ok {
		return
	}
	if t.nodes[idx].box.Contains(item.Bounds()) {
		return
	}
	t.Remove(item.ID())
	t.Insert(item)
}

// Clear empties the tree, releasing every node back to the pool.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.freeHead = nullIndex
	t.root = nullIndex
	t.leafOf = make(map[uint32]int32)
	t.changedCount = 0
}

func (t *Tree) depthOf(idx int32) int {
	if idx == nullIndex {
		return 0
	}
	if t.nodes[idx].isLeaf() {
		return 1
	}
	l := t.depthOf(t.nodes[idx].left)
	r := t.depthOf(t.nodes[idx].right)
	if l > r {
		return 1 + l
	}
	return 1 + r
}

// Depth returns the height of the tree, or 0 if empty.
func (t *Tree) Depth() int { return t.depthOf(t.root) }

func (t *Tree) countOf(idx int32) int {
	if idx == nullIndex {
		return 0
	}
	if t.nodes[idx].isLeaf() {
		return 1
	}
	return 1 + t.countOf(t.nodes[idx].left) + t.countOf(t.nodes[idx].right)
}

// NodeCount returns the total number of nodes (leaves + internal).
func (t *Tree) NodeCount() int { return t.countOf(t.root) }

// collectLeaves walks the current tree and appends every leaf index to
// dst, freeing every internal (non-leaf) node it passes through.
func (t *Tree) collectLeaves(idx int32, dst []int32) []int32 {
	if idx == nullIndex {
		return dst
	}
	n := t.nodes[idx]
	if n.isLeaf() {
		return append(dst, idx)
	}
	dst = t.collectLeaves(n.left, dst)
	dst = t.collectLeaves(n.right, dst)
	t.freeNode(idx)
	return dst
}

// rebuildRange builds a balanced subtree over leaves[lo:hi], splitting on
// the alternating axis at each level and recursing, mirroring the
// source's top-down rebuild(start,end,axis). Returns the subtree root.
func (t *Tree) rebuildRange(leaves []int32, lo, hi int, axis int) int32 {
	n := hi - lo
	if n == 1 {
		idx := leaves[lo]
		t.nodes[idx].parent = nullIndex
		return idx
	}

	sub := leaves[lo:hi]
	if axis == 0 {
		sortByCenterAxis(t, sub, func(b fixedmath.AABB) fixedmath.FixedNum { return b.Center().X })
	} else {
		sortByCenterAxis(t, sub, func(b fixedmath.AABB) fixedmath.FixedNum { return b.Center().Y })
	}

	half := n/2 + 1
	if half >= n {
		half = n - 1
	}
	nextAxis := 1 - axis

	left := t.rebuildRange(leaves, lo, lo+half, nextAxis)
	right := t.rebuildRange(leaves, lo+half, hi, nextAxis)

	branch := t.allocNode()
	t.setAsBranch(branch, left, right)
	return branch
}

// sortByCenterAxis stable-sorts a slice of node indices by the given
// axis of each node's box center, matching the source's stable sort
// ahead of the median split.
func sortByCenterAxis(t *Tree, idxs []int32, key func(fixedmath.AABB) fixedmath.FixedNum) {
	for i := 1; i < len(idxs); i++ {
		v := idxs[i]
		vk := key(t.nodes[v].box)
		j := i - 1
		for j >= 0 && key(t.nodes[idxs[j]].box) > vk {
			idxs[j+1] = idxs[j]
			j--
		}
		idxs[j+1] = v
	}
}

// Rebuild discards the tree's internal structure and rebuilds it
// top-down by recursive median split, alternating the split axis at
// each level. Leaf loose-boxes are kept as-is (only the hierarchy
// above them changes), so this is a good amortized response to the
// tree having drifted far from balanced through many incremental
// Insert/Remove/Update calls — see ChangedCount.
func (t *Tree) Rebuild() {
	if t.root == nullIndex || t.nodes[t.root].isLeaf() {
		t.changedCount = 0
		return
	}

	leaves := t.collectLeaves(t.root, make([]int32, 0, len(t.leafOf)))
	t.root = t.rebuildRange(leaves, 0, len(leaves), 0)
	t.changedCount = 0
}

// MemoryUsage approximates the tree's footprint for introspection:
// the node pool (live + free-listed), the leaf-id map, and the
// reusable query stack.
func (t *Tree) MemoryUsage() int {
	const nodeSize = 48
	const mapEntrySize = 16
	const frameSize = 24
	free := 0
	for idx := t.freeHead; idx != nullIndex; idx = t.nodes[idx].left {
		free++
	}
	return len(t.nodes)*nodeSize + free*nodeSize + len(t.leafOf)*mapEntrySize + cap(t.stack)*frameSize
}
