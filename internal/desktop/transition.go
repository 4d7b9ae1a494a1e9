package desktop

import "github.com/1broseidon/progman/internal/geometry"

// State transitions. These touch only the window's state and geometry;
// stacking and activation are the store's job.
//
//	normal ──minimize──▶ minimized ──restore──▶ normal
//	normal ──maximize──▶ maximized ──restore──▶ normal
//	maximized ──minimize──▶ minimized (via its saved normal geometry)

// maximize saves w's normal geometry and fills area.
func maximize(w *Window, area geometry.Rect) {
	pos, size := w.Position, w.Size
	w.SavedPosition = &pos
	w.SavedSize = &size
	w.Position = area.Position()
	w.Size = area.Size()
	w.State = StateMaximized
}

// unmaximize puts w back to exactly the geometry saved by maximize.
func unmaximize(w *Window) {
	if w.SavedPosition != nil {
		w.Position = *w.SavedPosition
	}
	if w.SavedSize != nil {
		w.Size = *w.SavedSize
	}
	w.SavedPosition = nil
	w.SavedSize = nil
	w.State = StateNormal
}

// minimize parks w. A maximized window drops its maximized geometry first so
// that a later restore returns it to normal geometry.
func minimize(w *Window) {
	if w.State == StateMaximized {
		unmaximize(w)
	}
	w.State = StateMinimized
	w.Active = false
}

// normalize forces w into the normal state for a layout pass, discarding any
// maximized geometry.
func normalize(w *Window) {
	w.SavedPosition = nil
	w.SavedSize = nil
	w.State = StateNormal
}
