package desktop

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/progman/internal/geometry"
)

// State is a window's presentation state.
type State int

const (
	StateNormal State = iota
	StateMinimized
	StateMaximized
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// ParseState converts a state name back to a State.
func ParseState(s string) (State, error) {
	switch s {
	case "normal":
		return StateNormal, nil
	case "minimized":
		return StateMinimized, nil
	case "maximized":
		return StateMaximized, nil
	default:
		return 0, fmt.Errorf("unknown window state %q", s)
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Window is one launched instance of an application.
//
// SavedPosition and SavedSize are set only while the window is maximized and
// hold the normal geometry from just before the maximize.
type Window struct {
	ID            string          `json:"instance_id"`
	AppID         string          `json:"app_id"`
	Title         string          `json:"title"`
	Position      geometry.Point  `json:"position"`
	Size          geometry.Size   `json:"size"`
	State         State           `json:"state"`
	ZOrder        int             `json:"z_order"`
	Active        bool            `json:"is_active"`
	SavedPosition *geometry.Point `json:"saved_position,omitempty"`
	SavedSize     *geometry.Size  `json:"saved_size,omitempty"`

	// MinSize and Resizable are copied from the app descriptor at launch.
	MinSize   geometry.Size `json:"min_size"`
	Resizable bool          `json:"resizable"`
}

// Bounds returns the window frame.
func (w Window) Bounds() geometry.Rect {
	return geometry.RectOf(w.Position, w.Size)
}

// Visible reports whether the window takes part in stacking, i.e. is not minimized.
func (w Window) Visible() bool {
	return w.State != StateMinimized
}

func (w Window) clone() Window {
	if w.SavedPosition != nil {
		p := *w.SavedPosition
		w.SavedPosition = &p
	}
	if w.SavedSize != nil {
		s := *w.SavedSize
		w.SavedSize = &s
	}
	return w
}

func cloneWindows(windows []*Window) []Window {
	out := make([]Window, len(windows))
	for i, w := range windows {
		out[i] = w.clone()
	}
	return out
}
