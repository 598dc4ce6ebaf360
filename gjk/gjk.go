// Package gjk implements the Gilbert-Johnson-Keerthi distance test and
// its Expanding Polytope Algorithm continuation over the Minkowski
// difference of two convex shapes. It is grounded line-for-line on
// the source's FGJK, operating over a minimal Shape interface so it
// has no dependency on the actor package — the narrow-phase dispatch
// table is the only place a Shape value crosses the boundary.
package gjk

import "github.com/lumenforge/fixphys/fixedmath"

// Shape is the subset of collider behavior GJK/EPA needs.
type Shape interface {
	Bounds() fixedmath.AABB
	FirstVertex() fixedmath.Vec2
	SupportInDirection(dir fixedmath.Vec2) fixedmath.Vec2
}

// epsilon bounds the length-squared comparisons used to detect a
// degenerate direction or a support point coinciding with an existing
// simplex vertex. Tuned for Q22.10 precision the way the source's
// DEFAULT_EPSILON is tuned for its own fixed-point scale.
const epsilon = fixedmath.FixedNum(4)

const maxIterCount = 10

// SupportPoint is a point on the Minkowski difference A-B plus the two
// points on the original shapes that produced it, needed to
// reconstruct world-space closest/contact points after the fact.
type SupportPoint struct {
	Point, FromA, FromB fixedmath.Vec2
}

func supportPoint(a, b Shape, dir fixedmath.Vec2) SupportPoint {
	pa := a.SupportInDirection(dir)
	pb := b.SupportInDirection(dir.Neg())
	return SupportPoint{Point: pa.Sub(pb), FromA: pa, FromB: pb}
}

// whichSide reports which side of line ab point c falls on: 1, -1, or
// 0 (c is exactly on the line).
func whichSide(a, b, c fixedmath.Vec2) int {
	ab := b.Sub(a)
	ac := c.Sub(a)
	cross := ab.Cross(ac)
	switch {
	case cross > 0:
		return 1
	case cross < 0:
		return -1
	default:
		return 0
	}
}

// getClosestPointToOrigin returns the point on segment ab nearest the
// origin, clamped to the segment (not the infinite line).
func getClosestPointToOrigin(a, b fixedmath.Vec2) fixedmath.Vec2 {
	ab := b.Sub(a)
	ao := a.Neg()
	sqrLen := ab.LengthSq()
	if sqrLen == 0 {
		return a
	}
	proj := fixedmath.Clamp01(ab.Dot(ao).Div(sqrLen))
	return a.Add(ab.Scale(proj))
}

// getPerpendicularToOrigin returns the foot of the perpendicular from
// the origin to the infinite line ab (unclamped).
func getPerpendicularToOrigin(a, b fixedmath.Vec2) fixedmath.Vec2 {
	ab := b.Sub(a)
	ao := a.Neg()
	sqrLen := ab.LengthSq()
	if sqrLen == 0 {
		return a
	}
	proj := ab.Dot(ao).Div(sqrLen)
	return a.Add(ab.Scale(proj))
}

// containsPoint is the free polygon-winding test behind GJK's
// simplex-contains-origin check.
func containsPoint(points []fixedmath.Vec2, point fixedmath.Vec2) bool {
	if len(points) < 3 {
		return false
	}

	innerSide := whichSide(points[0], points[1], points[2])

	for i := range points {
		next := (i + 1) % len(points)
		side := whichSide(points[i], points[next], point)
		if side == 0 {
			return true
		}
		if side != innerSide {
			return false
		}
	}
	return true
}

// ContainsPoint exposes the same winding test outside the package. The
// actor package's polygon containment does not call it: it uses its
// own radius-aware half-plane test.
func ContainsPoint(points []fixedmath.Vec2, point fixedmath.Vec2) bool {
	return containsPoint(points, point)
}

type simplex struct {
	points []SupportPoint
}

func (s *simplex) clear() { s.points = s.points[:0] }

func (s *simplex) count() int { return len(s.points) }

func (s *simplex) get(i int) fixedmath.Vec2 { return s.points[i].Point }

func (s *simplex) add(p SupportPoint) { s.points = append(s.points, p) }

func (s *simplex) remove(i int) {
	s.points = append(s.points[:i], s.points[i+1:]...)
}

func (s *simplex) containsOrigin() bool {
	pts := make([]fixedmath.Vec2, len(s.points))
	for i, p := range s.points {
		pts[i] = p.Point
	}
	return containsPoint(pts, fixedmath.Vec2Zero)
}

// edge is one side of the EPA polytope: the two support points
// bounding it, its outward unit normal, and its distance from the
// origin (= the penetration depth if it turns out to be the closest
// edge at termination).
type edge struct {
	a, b     SupportPoint
	normal   fixedmath.Vec2
	distance fixedmath.FixedNum
}

func createInitEdge(a, b SupportPoint) edge {
	perp := getPerpendicularToOrigin(a.Point, b.Point)
	e := edge{a: a, b: b, distance: perp.Length()}
	v := a.Point.Sub(b.Point)
	e.normal = fixedmath.Vec2{X: v.Y.Neg(), Y: v.X}.Normalized()
	return e
}

func createEdge(a, b SupportPoint) edge {
	perp := getPerpendicularToOrigin(a.Point, b.Point)
	dist := perp.Length()
	var normal fixedmath.Vec2
	if dist > 0 {
		normal = perp.DivScalar(dist).Normalized()
	} else {
		v := a.Point.Sub(b.Point)
		normal = fixedmath.Vec2{X: v.Y.Neg(), Y: v.X}.Normalized()
	}
	return edge{a: a, b: b, normal: normal, distance: dist}
}

// polytope is the EPA working polygon: an ordered ring of edges that
// grows outward from the GJK-terminating simplex toward the true
// Minkowski-difference boundary.
type polytope struct {
	edges []edge
}

func (p *polytope) initEdges(s *simplex) {
	p.edges = p.edges[:0]
	p.edges = append(p.edges, createInitEdge(s.points[0], s.points[1]))
	p.edges = append(p.edges, createInitEdge(s.points[1], s.points[0]))
}

func (p *polytope) findClosestEdge() int {
	best := -1
	var bestDist fixedmath.FixedNum
	for i, e := range p.edges {
		if best == -1 || e.distance < bestDist {
			best = i
			bestDist = e.distance
		}
	}
	return best
}

func (p *polytope) insertEdgePoint(edgeIdx int, point SupportPoint) {
	e := p.edges[edgeIdx]
	e1 := createEdge(e.a, point)
	p.edges[edgeIdx] = e1
	e2 := createEdge(point, e.b)

	p.edges = append(p.edges, edge{})
	copy(p.edges[edgeIdx+2:], p.edges[edgeIdx+1:len(p.edges)-1])
	p.edges[edgeIdx+1] = e2
}

// GJK holds the reusable simplex/polytope storage for one shape pair
// query. A single instance may be reused across many QueryCollision
// calls to avoid reallocating the backing slices.
type GJK struct {
	simplex  simplex
	polytope polytope

	shapeA, shapeB Shape
	direction      fixedmath.Vec2

	IsCollision         bool
	ClosestOnA          fixedmath.Vec2
	ClosestOnB          fixedmath.Vec2
	PenetrationNormal   fixedmath.Vec2
	PenetrationDistance fixedmath.FixedNum
}

func (g *GJK) support(dir fixedmath.Vec2) SupportPoint {
	return supportPoint(g.shapeA, g.shapeB, dir)
}

func (g *GJK) findFirstDirection() fixedmath.Vec2 {
	pointA := g.shapeA.Bounds().Center()
	pointB := g.shapeB.Bounds().Center()
	dir := pointA.Sub(pointB)
	if dir.LengthSq() < epsilon {
		dir = g.shapeA.FirstVertex().Sub(pointB)
	}
	return dir
}

func (g *GJK) findNextDirection() fixedmath.Vec2 {
	switch g.simplex.count() {
	case 2:
		cross := getClosestPointToOrigin(g.simplex.get(0), g.simplex.get(1))
		return fixedmath.Vec2Zero.Sub(cross)
	case 3:
		crossCA := getClosestPointToOrigin(g.simplex.get(2), g.simplex.get(0))
		crossCB := getClosestPointToOrigin(g.simplex.get(2), g.simplex.get(1))
		if crossCA.LengthSq() < crossCB.LengthSq() {
			g.simplex.remove(1)
			return fixedmath.Vec2Zero.Sub(crossCA)
		}
		g.simplex.remove(0)
		return fixedmath.Vec2Zero.Sub(crossCB)
	default:
		return fixedmath.Vec2Zero
	}
}

// QueryCollision runs GJK on the Minkowski difference of a and b. It
// returns whether the shapes overlap; ClosestOnA/B are populated on a
// miss, PenetrationNormal/Distance on a hit (via EPA).
func (g *GJK) QueryCollision(a, b Shape) bool {
	g.shapeA, g.shapeB = a, b

	g.simplex.clear()
	g.IsCollision = false
	g.direction = fixedmath.Vec2Zero
	g.ClosestOnA = fixedmath.Vec2Zero
	g.ClosestOnB = fixedmath.Vec2Zero
	g.polytope.edges = g.polytope.edges[:0]
	g.PenetrationNormal = fixedmath.Vec2Zero
	g.PenetrationDistance = fixedmath.Zero

	g.direction = g.findFirstDirection()
	g.simplex.add(g.support(g.direction))
	g.simplex.add(g.support(g.direction.Neg()))

	g.direction = fixedmath.Vec2Zero.Sub(getClosestPointToOrigin(g.simplex.get(0), g.simplex.get(1)))

	for i := 0; i < maxIterCount; i++ {
		if g.direction.LengthSq() < epsilon {
			g.IsCollision = true
			break
		}

		p := g.support(g.direction)
		if p.Point.DistanceToSq(g.simplex.get(0)) < epsilon ||
			p.Point.DistanceToSq(g.simplex.get(1)) < epsilon {
			g.IsCollision = false
			break
		}

		g.simplex.add(p)

		if g.simplex.containsOrigin() {
			g.IsCollision = true
			break
		}

		g.direction = g.findNextDirection()
	}

	if !g.IsCollision {
		g.computeClosestPoint(g.simplex.points[0], g.simplex.points[1])
	} else {
		g.queryEPA()
	}

	return g.IsCollision
}

func (g *GJK) queryEPA() {
	if g.simplex.count() > 2 {
		g.findNextDirection()
	}

	g.polytope.initEdges(&g.simplex)

	var currentIdx int

	for i := 0; i < maxIterCount; i++ {
		idx := g.polytope.findClosestEdge()
		currentIdx = idx
		e := g.polytope.edges[idx]

		g.PenetrationNormal = e.normal
		g.PenetrationDistance = e.distance

		sp := supportPoint(g.shapeA, g.shapeB, e.normal)
		distance := sp.Point.Dot(e.normal)
		if distance.Sub(e.distance) < epsilon {
			break
		}

		if sp.Point.DistanceToSq(e.a.Point) < epsilon ||
			sp.Point.DistanceToSq(e.b.Point) < epsilon {
			break
		}

		g.polytope.insertEdgePoint(idx, sp)
	}

	finalEdge := g.polytope.edges[currentIdx]
	g.computeClosestPoint(finalEdge.a, finalEdge.b)
}

// computeClosestPoint reconstructs the closest points on the original
// shapes from an edge (A, B) of the Minkowski difference: project the
// origin onto AB with parameter r2 clamped to [0,1], then interpolate
// the originating points with the same r2.
func (g *GJK) computeClosestPoint(a, b SupportPoint) {
	l := b.Point.Sub(a.Point)
	sqrDist := l.LengthSq()
	if sqrDist < epsilon {
		g.ClosestOnA = a.FromA
		g.ClosestOnB = a.FromB
		return
	}

	r2 := fixedmath.Clamp01(l.Dot(a.Point).Neg().Div(sqrDist))
	r1 := fixedmath.One.Sub(r2)

	g.ClosestOnA = a.FromA.Scale(r1).Add(b.FromA.Scale(r2))
	g.ClosestOnB = a.FromB.Scale(r1).Add(b.FromB.Scale(r2))
}
