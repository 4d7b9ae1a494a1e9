package desktop

import (
	"sync"
	"time"

	"github.com/1broseidon/progman/internal/geometry"
)

// EventKind names the store operation that produced an event.
type EventKind string

const (
	EventLaunch   EventKind = "launch"
	EventClose    EventKind = "close"
	EventCloseAll EventKind = "close_all"
	EventMinimize EventKind = "minimize"
	EventMaximize EventKind = "maximize"
	EventRestore  EventKind = "restore"
	EventFocus    EventKind = "focus"
	EventMove     EventKind = "move"
	EventResize   EventKind = "resize"
	EventSetTitle EventKind = "set_title"
	EventCascade  EventKind = "cascade"
	EventTile     EventKind = "tile"
	EventWorkArea EventKind = "work_area"
)

// Event describes one completed store mutation.
type Event struct {
	Seq      uint64    `json:"seq"`
	Kind     EventKind `json:"kind"`
	WindowID string    `json:"window_id,omitempty"`
	AppID    string    `json:"app_id,omitempty"`
	// Count is the number of windows affected by list-wide operations.
	Count int       `json:"count,omitempty"`
	Time  time.Time `json:"time"`
}

// Snapshot is a consistent, deep-copied view of the desktop.
type Snapshot struct {
	SessionID string        `json:"session_id"`
	Seq       uint64        `json:"seq"`
	Desktop   geometry.Size `json:"desktop"`
	WorkArea  geometry.Rect `json:"work_area"`
	ActiveID  string        `json:"active_id,omitempty"`
	Windows   []Window      `json:"windows"`
}

// Window returns the window with the given id from the snapshot.
func (s Snapshot) Window(id string) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// Observer is notified after every store mutation, in operation order.
//
// Observe runs while the store lock is held: it must return promptly and must
// not call back into the store.
type Observer interface {
	Observe(ev Event, snap Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event, snap Snapshot)

func (f ObserverFunc) Observe(ev Event, snap Snapshot) { f(ev, snap) }

// Broker fans store changes out to any number of readers without ever
// blocking the store. It keeps the latest snapshot; subscribers receive a
// signal on a one-slot channel and pull the snapshot themselves, so a slow
// reader sees fewer, newer snapshots rather than a backlog.
type Broker struct {
	mu          sync.Mutex
	latest      Snapshot
	subscribers map[chan struct{}]struct{}
}

// NewBroker returns a broker seeded with an initial snapshot.
func NewBroker(initial Snapshot) *Broker {
	return &Broker{
		latest:      initial,
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Observe implements Observer.
func (b *Broker) Observe(_ Event, snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = snap
	for ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Latest returns the most recent snapshot.
func (b *Broker) Latest() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Subscribe registers a reader. The returned function unsubscribes it.
func (b *Broker) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}
}

// Subscribers returns the number of registered readers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
