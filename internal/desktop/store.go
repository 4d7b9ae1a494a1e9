package desktop

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/tiling"
)

// Options configures a Store.
type Options struct {
	// Desktop is the viewport size.
	Desktop geometry.Size
	// IconStrip is the height reserved along the bottom for minimized icons.
	IconStrip int
	// TileInset is subtracted from each tiled window's width and height.
	TileInset int
	// Launch places new windows. The stagger index is the number of
	// windows currently on screen.
	Launch tiling.Stagger
	// Cascade places windows during Cascade, each sized CascadeSize.
	Cascade     tiling.Stagger
	CascadeSize geometry.Size
	// SessionID identifies this desktop in snapshots. Generated when empty.
	SessionID string
	// Now stamps events. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the classic 1024x768 desktop layout.
func DefaultOptions() Options {
	return Options{
		Desktop:     geometry.Size{Width: 1024, Height: 768},
		IconStrip:   60,
		TileInset:   4,
		Launch:      tiling.Stagger{Base: geometry.Point{X: 50, Y: 30}, Step: 30, Wrap: 10},
		Cascade:     tiling.Stagger{Base: geometry.Point{X: 20, Y: 20}, Step: 30},
		CascadeSize: geometry.Size{Width: 500, Height: 400},
	}
}

// LaunchOptions overrides the defaults a new window would get from its
// descriptor. Zero values mean "use the default".
type LaunchOptions struct {
	Title    string
	Position *geometry.Point
	Size     *geometry.Size
}

type observerEntry struct {
	id       int
	observer Observer
}

// Store owns the window list. Every mutation goes through its methods, which
// are safe for concurrent use and apply atomically against the whole list.
type Store struct {
	mu sync.Mutex

	catalog apps.Catalog
	opts    Options

	windows      []*Window
	stack        stack
	nextInstance int
	seq          uint64

	observers []observerEntry
	nextObsID int
}

// NewStore returns an empty desktop whose launches resolve against catalog.
func NewStore(catalog apps.Catalog, opts Options) *Store {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		catalog:      catalog,
		opts:         opts,
		stack:        newStack(),
		nextInstance: 1,
	}
}

// SessionID returns the id stamped on this store's snapshots.
func (s *Store) SessionID() string {
	return s.opts.SessionID
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observerEntry{id: id, observer: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Launch opens a new window for appID and makes it active on top of the stack.
func (s *Store) Launch(appID string, opts LaunchOptions) (string, error) {
	desc, ok := s.catalog.Lookup(appID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAppNotFound, appID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := appID + "-" + strconv.Itoa(s.nextInstance)
	s.nextInstance++

	w := &Window{
		ID:        id,
		AppID:     appID,
		Title:     desc.Title,
		Position:  s.opts.Launch.At(s.visibleCount()),
		Size:      desc.DefaultSize,
		State:     StateNormal,
		MinSize:   desc.MinSize,
		Resizable: desc.Resizable,
	}
	if opts.Title != "" {
		w.Title = opts.Title
	}
	if opts.Position != nil {
		w.Position = *opts.Position
	}
	if opts.Size != nil {
		w.Size = geometry.ClampSize(*opts.Size, desc.MinSize)
	}

	s.windows = append(s.windows, w)
	s.stack.raise(w, s.windows)
	s.emit(EventLaunch, w, 1)
	return id, nil
}

// Close removes a window. If it was active, the topmost remaining visible
// window becomes active.
func (s *Store) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	w := s.windows[i]
	s.windows = append(s.windows[:i], s.windows[i+1:]...)

	if s.stack.active == id {
		next := ""
		if top := topmost(s.windows); top != nil {
			next = top.ID
		}
		s.stack.activate(next, s.windows)
	}
	s.emit(EventClose, w, 1)
	return true
}

// CloseAll removes every window and returns how many were closed. The
// z-order and instance counters keep counting.
func (s *Store) CloseAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.windows)
	if n == 0 {
		return 0
	}
	s.windows = nil
	s.stack.activate("", nil)
	s.emit(EventCloseAll, nil, n)
	return n
}

// Minimize parks a window. No other window is activated in its place.
// Minimizing a minimized window reports false.
func (s *Store) Minimize(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	if w.State == StateMinimized {
		return false
	}
	minimize(w)
	s.stack.deactivate(w)
	s.emit(EventMinimize, w, 1)
	return true
}

// Maximize fills the work area with a window. Maximizing a maximized window
// restores it; maximizing a minimized one restores and focuses it first.
func (s *Store) Maximize(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	switch w.State {
	case StateMaximized:
		unmaximize(w)
		s.emit(EventRestore, w, 1)
		return true
	case StateMinimized:
		w.State = StateNormal
		s.stack.raise(w, s.windows)
	}
	maximize(w, s.workArea())
	s.emit(EventMaximize, w, 1)
	return true
}

// Restore returns a window to the normal state. From maximized it gets back
// its exact pre-maximize geometry and keeps its place in the stack; from
// minimized it is brought to the front and activated. A normal window is left
// alone and Restore reports false.
func (s *Store) Restore(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	switch w.State {
	case StateMaximized:
		unmaximize(w)
	case StateMinimized:
		w.State = StateNormal
		s.stack.raise(w, s.windows)
	default:
		return false
	}
	s.emit(EventRestore, w, 1)
	return true
}

// Focus brings a window to the front and activates it, restoring it first if
// it is minimized.
func (s *Store) Focus(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	if w.State == StateMinimized {
		w.State = StateNormal
	}
	s.stack.raise(w, s.windows)
	s.emit(EventFocus, w, 1)
	return true
}

// Move sets a window's position.
func (s *Store) Move(id string, x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	w.Position = geometry.Point{X: x, Y: y}
	s.emit(EventMove, w, 1)
	return true
}

// Resize sets a window's size, raised to the app's minimum on each axis.
// Only pointer resize gestures honor the app's resizable flag; a direct
// resize applies to any window.
func (s *Store) Resize(id string, width, height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	w.Size = geometry.ClampSize(geometry.Size{Width: width, Height: height}, w.MinSize)
	s.emit(EventResize, w, 1)
	return true
}

// SetTitle changes a window's title bar text.
func (s *Store) SetTitle(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return false
	}
	w.Title = title
	s.emit(EventSetTitle, w, 1)
	return true
}

// Cascade stacks every visible window diagonally from the top-left, in
// launch order, at a uniform size. Visible windows are renumbered 1..k in
// that order; minimized windows are left alone.
func (s *Store) Cascade() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.visible()
	positions := tiling.CascadePositions(len(visible), s.opts.Cascade)
	for i, w := range visible {
		normalize(w)
		w.Position = positions[i]
		w.Size = geometry.ClampSize(s.opts.CascadeSize, w.MinSize)
		w.ZOrder = i + 1
	}
	s.emit(EventCascade, nil, len(visible))
	return len(visible)
}

// Tile arranges every visible window in a near-square grid over the work
// area. Stacking order and activation are unchanged.
func (s *Store) Tile() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.visible()
	cells := tiling.TilePositions(len(visible), s.workArea(), s.opts.TileInset)
	for i, w := range visible {
		normalize(w)
		w.Position = cells[i].Frame.Position()
		w.Size = geometry.ClampSize(cells[i].Frame.Size(), w.MinSize)
	}
	s.emit(EventTile, nil, len(visible))
	return len(visible)
}

// SetWorkArea changes the desktop size. Maximized windows are refitted to the
// new work area.
func (s *Store) SetWorkArea(desktop geometry.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.Desktop = desktop
	area := s.workArea()
	for _, w := range s.windows {
		if w.State == StateMaximized {
			w.Position = area.Position()
			w.Size = area.Size()
		}
	}
	s.emit(EventWorkArea, nil, 0)
}

// Window returns a copy of one window.
func (s *Store) Window(id string) (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.find(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// Windows returns copies of all windows in launch order.
func (s *Store) Windows() []Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWindows(s.windows)
}

// Minimized returns copies of the parked windows in launch order.
func (s *Store) Minimized() []Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Window
	for _, w := range s.windows {
		if w.State == StateMinimized {
			out = append(out, w.clone())
		}
	}
	return out
}

// ActiveID returns the active window's id, or "" when none is active.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.active
}

// Snapshot returns a consistent copy of the whole desktop.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		SessionID: s.opts.SessionID,
		Seq:       s.seq,
		Desktop:   s.opts.Desktop,
		WorkArea:  s.workArea(),
		ActiveID:  s.stack.active,
		Windows:   cloneWindows(s.windows),
	}
}

// emit records a mutation and notifies observers. Callers hold s.mu.
func (s *Store) emit(kind EventKind, w *Window, count int) {
	s.seq++
	if len(s.observers) == 0 {
		return
	}

	ev := Event{Seq: s.seq, Kind: kind, Count: count, Time: s.opts.Now()}
	if w != nil {
		ev.WindowID = w.ID
		ev.AppID = w.AppID
	}
	snap := s.snapshot()
	for _, e := range s.observers {
		e.observer.Observe(ev, snap)
	}
}

func (s *Store) workArea() geometry.Rect {
	return tiling.WorkArea(s.opts.Desktop, s.opts.IconStrip)
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) find(id string) *Window {
	if i := s.indexOf(id); i >= 0 {
		return s.windows[i]
	}
	return nil
}

func (s *Store) visible() []*Window {
	var out []*Window
	for _, w := range s.windows {
		if w.Visible() {
			out = append(out, w)
		}
	}
	return out
}

func (s *Store) visibleCount() int {
	n := 0
	for _, w := range s.windows {
		if w.Visible() {
			n++
		}
	}
	return n
}
