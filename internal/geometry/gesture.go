package geometry

import (
	"fmt"
	"strings"
)

// Drag returns the new window position for a title-bar drag. The window moves
// by exactly the pointer's travel since pointer-down; there is no clamping, so
// a window may be dragged partly or fully off the desktop.
func Drag(origin, start, pointer Point) Point {
	return origin.Add(pointer.Sub(start))
}

// Handle identifies one of the eight resize handles on a window frame.
type Handle uint8

const (
	edgeN Handle = 1 << iota
	edgeS
	edgeE
	edgeW
)

const (
	HandleN  = edgeN
	HandleS  = edgeS
	HandleE  = edgeE
	HandleW  = edgeW
	HandleNE = edgeN | edgeE
	HandleNW = edgeN | edgeW
	HandleSE = edgeS | edgeE
	HandleSW = edgeS | edgeW
)

var handleNames = map[Handle]string{
	HandleN:  "n",
	HandleS:  "s",
	HandleE:  "e",
	HandleW:  "w",
	HandleNE: "ne",
	HandleNW: "nw",
	HandleSE: "se",
	HandleSW: "sw",
}

// Handles lists every valid handle in a stable order.
func Handles() []Handle {
	return []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}
}

// String returns the wire name of the handle ("n", "se", ...).
func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool {
	_, ok := handleNames[h]
	return ok
}

// ParseHandle converts a wire name to a Handle. Matching is case-insensitive.
func ParseHandle(s string) (Handle, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for h, name := range handleNames {
		if name == want {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown resize handle %q (want one of n, s, e, w, ne, nw, se, sw)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Handle) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid resize handle %d", uint8(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Handle) UnmarshalText(text []byte) error {
	parsed, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Resize computes the frame for one update of a resize gesture.
//
// start is the frame at pointer-down, current the frame after the previous
// update, delta the pointer travel since pointer-down. East and south edges
// grow with delta; west and north edges move with delta while the opposite
// edge stays put.
//
// Each axis is judged on its own: if the proposed width (or height) falls
// below min, that axis keeps its current size and position for this update
// while the other axis still applies.
func Resize(start, current Rect, h Handle, delta Point, min Size) Rect {
	next := current

	if h&(edgeE|edgeW) != 0 {
		x, width := start.X, start.Width
		if h&edgeE != 0 {
			width = start.Width + delta.X
		}
		if h&edgeW != 0 {
			width = start.Width - delta.X
			x = start.X + delta.X
		}
		if width >= min.Width {
			next.X = x
			next.Width = width
		}
	}

	if h&(edgeN|edgeS) != 0 {
		y, height := start.Y, start.Height
		if h&edgeS != 0 {
			height = start.Height + delta.Y
		}
		if h&edgeN != 0 {
			height = start.Height - delta.Y
			y = start.Y + delta.Y
		}
		if height >= min.Height {
			next.Y = y
			next.Height = height
		}
	}

	return next
}
