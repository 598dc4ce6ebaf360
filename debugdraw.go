package fixphys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/fixedmath"
)

// Segment is one line of a debug-draw wireframe, in float64 world
// space. Converting out of fixed-point only happens here, at the
// rendering boundary — the simulation itself never touches mgl64.
type Segment struct {
	A, B mgl64.Vec2
}

func vec2ToMgl(v fixedmath.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.X.AsFloat64(), v.Y.AsFloat64()}
}

// DebugSegments returns the wireframe outline of every collider
// currently in the world, for an external renderer to draw. Circles
// are approximated with a fixed vertex count; segments and polygons
// are emitted edge-by-edge.
func (w *World) DebugSegments() []Segment {
	var out []Segment
	for _, b := range w.Bodies {
		for _, c := range b.Colliders {
			out = appendShapeSegments(out, &c.Shape)
		}
	}
	return out
}

const circleSegmentCount = 16

func appendShapeSegments(out []Segment, s *actor.Shape) []Segment {
	switch s.Type {
	case actor.ShapeCircle:
		return appendCircleSegments(out, s)
	case actor.ShapeSegment:
		a, b := s.Endpoints()
		return append(out, Segment{A: vec2ToMgl(a), B: vec2ToMgl(b)})
	default: // ShapePolygon
		verts := s.Vertices()
		n := len(verts)
		for i := 0; i < n; i++ {
			a := verts[i]
			b := verts[(i+1)%n]
			out = append(out, Segment{A: vec2ToMgl(a), B: vec2ToMgl(b)})
		}
		return out
	}
}

func appendCircleSegments(out []Segment, s *actor.Shape) []Segment {
	center := s.WorldCenter()
	radius := s.WorldRadius()
	cx, cy := center.X.AsFloat64(), center.Y.AsFloat64()
	r := radius.AsFloat64()

	prev := mgl64.Vec2{cx + r, cy}
	for i := 1; i <= circleSegmentCount; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegmentCount
		cur := mgl64.Vec2{cx + r*math.Cos(theta), cy + r*math.Sin(theta)}
		out = append(out, Segment{A: prev, B: cur})
		prev = cur
	}
	return out
}
