package fixphys

import (
	"sort"

	"github.com/lumenforge/fixphys/actor"
	"github.com/lumenforge/fixphys/constraint"
)

// EventType tags the notifications a World emits. Trigger and
// collision variants are distinguished because a pair's IsTrigger
// flag is fixed for its lifetime (derived from the colliders/bodies
// involved), not per-event.
type EventType uint8

const (
	TriggerEnter EventType = iota
	CollisionEnter
	TriggerStay
	CollisionStay
	TriggerExit
	CollisionExit
	OnSleep
	OnWake
)

// Event is the payload delivered to a listener.
type Event struct {
	Type  EventType
	A, B  *actor.Collider
	Body  *actor.RigidBody // set for OnSleep/OnWake only
}

// EventListener receives buffered events at the end of a tick, unless
// StopHandleEvents was called for this tick.
type EventListener func(Event)

// contactSet is the ordered contact-pair map the tick loop iterates:
// a plain map keyed by numeric id would have nondeterministic
// iteration order across runs, which the determinism guarantee
// forbids, so pairs additionally live in a slice kept sorted by key.
type contactSet struct {
	index map[uint64]*constraint.ContactPair
	keys  []uint64
}

func newContactSet() contactSet {
	return contactSet{index: make(map[uint64]*constraint.ContactPair)}
}

func (s *contactSet) get(key uint64) (*constraint.ContactPair, bool) {
	p, ok := s.index[key]
	return p, ok
}

func (s *contactSet) insert(key uint64, pair *constraint.ContactPair) {
	s.index[key] = pair
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
	s.keys = append(s.keys, 0)
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = key
}

func (s *contactSet) remove(key uint64) {
	delete(s.index, key)
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= key })
	if i < len(s.keys) && s.keys[i] == key {
		s.keys = append(s.keys[:i], s.keys[i+1:]...)
	}
}

// each visits every pair in ascending key order.
func (s *contactSet) each(fn func(key uint64, pair *constraint.ContactPair)) {
	for _, key := range s.keys {
		fn(key, s.index[key])
	}
}

// removeBody drops every pair touching body, in ascending key order.
func (s *contactSet) removeBody(body *actor.RigidBody) {
	var drop []uint64
	s.each(func(key uint64, pair *constraint.ContactPair) {
		if pair.A.Body == body || pair.B.Body == body {
			drop = append(drop, key)
		}
	})
	for _, key := range drop {
		s.remove(key)
	}
}

// Subscribe registers listener for eventType.
func (w *World) Subscribe(eventType EventType, listener EventListener) {
	w.listeners[eventType] = append(w.listeners[eventType], listener)
}

// StopHandleEvents suppresses notifications for the remainder of the
// current tick; the solver itself still runs to completion.
func (w *World) StopHandleEvents() {
	w.eventsStopped = true
}

func (w *World) emit(evt Event) {
	w.eventBuffer = append(w.eventBuffer, evt)
}

// flushEvents dispatches the buffered events to their listeners,
// unless StopHandleEvents suppressed this tick, then clears the
// buffer either way.
func (w *World) flushEvents() {
	if !w.eventsStopped {
		for _, evt := range w.eventBuffer {
			for _, l := range w.listeners[evt.Type] {
				l(evt)
			}
		}
	}
	w.eventBuffer = w.eventBuffer[:0]
	w.eventsStopped = false
}

func pairEventTypes(isTrigger bool) (enter, stay, exit EventType) {
	if isTrigger {
		return TriggerEnter, TriggerStay, TriggerExit
	}
	return CollisionEnter, CollisionStay, CollisionExit
}
