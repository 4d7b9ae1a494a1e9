package desktop

// stack hands out stacking order and tracks the active window.
//
// The counter only moves forward: every value it returns is greater than any
// value returned before, for the lifetime of the store.
type stack struct {
	next   int
	active string
}

func newStack() stack {
	return stack{next: 1}
}

// raise gives w the next z-order and makes it the only active window.
func (s *stack) raise(w *Window, all []*Window) {
	w.ZOrder = s.take()
	s.activate(w.ID, all)
}

// take returns the next z-order value.
func (s *stack) take() int {
	z := s.next
	s.next++
	return z
}

// activate marks id active and every other window inactive. An empty id
// leaves no window active.
func (s *stack) activate(id string, all []*Window) {
	s.active = id
	for _, w := range all {
		w.Active = w.ID == id
	}
}

// deactivate clears the active flag on w, and the active id if it was w.
func (s *stack) deactivate(w *Window) {
	w.Active = false
	if s.active == w.ID {
		s.active = ""
	}
}

// topmost returns the visible window with the highest z-order, or nil.
func topmost(all []*Window) *Window {
	var top *Window
	for _, w := range all {
		if !w.Visible() {
			continue
		}
		if top == nil || w.ZOrder > top.ZOrder {
			top = w
		}
	}
	return top
}
