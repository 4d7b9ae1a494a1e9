package tui

import (
	"strings"
	"testing"

	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
)

func testWindow(id string, x, y, w, h, z int) desktop.Window {
	return desktop.Window{
		ID:       id,
		Position: geometry.Point{X: x, Y: y},
		Size:     geometry.Size{Width: w, Height: h},
		State:    desktop.StateNormal,
		ZOrder:   z,
	}
}

func TestRenderMinimap_ScalesWindowFrame(t *testing.T) {
	a := testWindow("a-1", 0, 0, 50, 25, 1)
	a.Active = true
	snap := &desktop.Snapshot{
		Desktop: geometry.Size{Width: 100, Height: 50},
		Windows: []desktop.Window{a},
	}

	lines := renderMinimap(snap, 22, 12)
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	top := []rune(lines[1])
	if top[1] != '┌' || top[10] != '┐' {
		t.Fatalf("unexpected title row %q", lines[1])
	}
	if got := string(top[2:6]); got != "*a-1" {
		t.Fatalf("expected active label in title bar, got %q", got)
	}
	if bottom := []rune(lines[5]); bottom[1] != '└' || bottom[10] != '┘' {
		t.Fatalf("unexpected bottom row %q", lines[5])
	}
	if corner := []rune(lines[0])[0]; corner != '╔' {
		t.Fatalf("expected desktop border, got %q", corner)
	}
}

func TestRenderMinimap_TopWindowHidesLower(t *testing.T) {
	snap := &desktop.Snapshot{
		Desktop: geometry.Size{Width: 100, Height: 50},
		// Listed top first to check that painting follows zOrder, not list order.
		Windows: []desktop.Window{
			testWindow("top-2", 20, 10, 50, 25, 2),
			testWindow("low-1", 0, 0, 50, 25, 1),
		},
	}

	lines := renderMinimap(snap, 22, 12)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "top-2") {
		t.Fatalf("top window label missing:\n%s", joined)
	}
	// The top frame starts at column 5, row 3, over the lower window.
	if r := []rune(lines[3])[5]; r != '┌' {
		t.Fatalf("expected top frame corner at (5,3), got %q\n%s", r, joined)
	}
}

func TestRenderMinimap_SkipsMinimized(t *testing.T) {
	w := testWindow("gone-1", 0, 0, 50, 25, 1)
	w.State = desktop.StateMinimized
	snap := &desktop.Snapshot{
		Desktop: geometry.Size{Width: 100, Height: 50},
		Windows: []desktop.Window{w},
	}

	joined := strings.Join(renderMinimap(snap, 22, 12), "\n")
	if strings.Contains(joined, "gone-1") || strings.Contains(joined, "┌") {
		t.Fatalf("minimized window should not be drawn:\n%s", joined)
	}
}

func TestRenderMinimap_EmptyCanvasWithoutSnapshot(t *testing.T) {
	lines := renderMinimap(nil, 8, 3)
	if len(lines) != 3 || lines[0] != "        " {
		t.Fatalf("unexpected empty canvas %q", lines)
	}
}

func TestSummarizeDesktop(t *testing.T) {
	parked := testWindow("b-2", 0, 0, 10, 10, 2)
	parked.State = desktop.StateMinimized
	snap := &desktop.Snapshot{
		Desktop: geometry.Size{Width: 1024, Height: 768},
		Windows: []desktop.Window{testWindow("a-1", 0, 0, 10, 10, 1), parked},
	}
	if got, want := summarizeDesktop(snap), "1 visible • 1 minimized • 1024×768"; got != want {
		t.Fatalf("summarizeDesktop() = %q, want %q", got, want)
	}
}
