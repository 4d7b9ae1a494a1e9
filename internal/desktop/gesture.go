package desktop

import "github.com/1broseidon/progman/internal/geometry"

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
)

// Gesture is an in-progress pointer drag or edge resize of one window.
// The window's frame is captured at pointer-down; each Update applies the
// pointer's total travel since then. A resize holds its live size on an axis
// the minimum blocks, so changes made by other mutators mid-gesture survive.
//
// A Gesture is not safe for concurrent use. Only one gesture should be live
// per pointer; arbitrating between pointers is up to the input layer.
type Gesture struct {
	store  *Store
	id     string
	kind   gestureKind
	handle geometry.Handle

	startPointer geometry.Point
	start        geometry.Rect
	min          geometry.Size
	ended        bool
}

// BeginDrag starts moving a window by its title bar. It reports false if the
// window does not exist or is not in the normal state.
func (s *Store) BeginDrag(id string, pointer geometry.Point) (*Gesture, bool) {
	return s.begin(id, gestureDrag, 0, pointer)
}

// BeginResize starts resizing a window from handle. It reports false if the
// window does not exist, is not in the normal state, or belongs to an app that
// is not resizable.
func (s *Store) BeginResize(id string, h geometry.Handle, pointer geometry.Point) (*Gesture, bool) {
	if !h.Valid() {
		return nil, false
	}
	return s.begin(id, gestureResize, h, pointer)
}

func (s *Store) begin(id string, kind gestureKind, h geometry.Handle, pointer geometry.Point) (*Gesture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil || w.State != StateNormal {
		return nil, false
	}
	if kind == gestureResize && !w.Resizable {
		return nil, false
	}

	frame := w.Bounds()
	return &Gesture{
		store:        s,
		id:           id,
		kind:         kind,
		handle:       h,
		startPointer: pointer,
		start:        frame,
		min:          w.MinSize,
	}, true
}

// WindowID returns the id of the window being manipulated.
func (g *Gesture) WindowID() string {
	return g.id
}

// Update applies the pointer's current position. It reports false once the
// gesture has ended, the window has gone away, or the window has left the
// normal state. A window maximized or minimized mid-gesture ends the gesture
// and its geometry is left alone.
func (g *Gesture) Update(pointer geometry.Point) bool {
	if g.ended {
		return false
	}

	s := g.store
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(g.id)
	if w == nil || w.State != StateNormal {
		g.ended = true
		return false
	}

	switch g.kind {
	case gestureDrag:
		w.Position = geometry.Drag(g.start.Position(), g.startPointer, pointer)
		s.emit(EventMove, w, 1)
	case gestureResize:
		delta := pointer.Sub(g.startPointer)
		next := geometry.Resize(g.start, w.Bounds(), g.handle, delta, g.min)
		w.Position = next.Position()
		w.Size = next.Size()
		s.emit(EventResize, w, 1)
	}
	return true
}

// End releases the gesture. Later updates are ignored.
func (g *Gesture) End() {
	g.ended = true
}
