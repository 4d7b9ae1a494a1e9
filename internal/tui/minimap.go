package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
)

// summarizeDesktop describes the visible windows in one line.
func summarizeDesktop(snap *desktop.Snapshot) string {
	if snap == nil {
		return ""
	}
	visible, minimized := 0, 0
	for _, w := range snap.Windows {
		if w.State == desktop.StateMinimized {
			minimized++
		} else {
			visible++
		}
	}
	return fmt.Sprintf("%d visible • %d minimized • %d×%d", visible, minimized, snap.Desktop.Width, snap.Desktop.Height)
}

// renderMinimap draws the visible windows of snap, scaled to a width×height
// character canvas. Windows are painted bottom to top, so overlapped frames
// are hidden the way they are on the desktop.
func renderMinimap(snap *desktop.Snapshot, width, height int) []string {
	if snap == nil || width < 5 || height < 3 || snap.Desktop.Width <= 0 || snap.Desktop.Height <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	visible := make([]desktop.Window, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		if w.State != desktop.StateMinimized {
			visible = append(visible, w)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ZOrder < visible[j].ZOrder })

	for _, w := range visible {
		label := w.ID
		if w.Active {
			label = "*" + label
		}
		drawWindow(canvas, w.Bounds(), label, snap.Desktop, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawWindow(canvas [][]rune, r geometry.Rect, label string, desk geometry.Size, canvasW, canvasH int) {
	// The border takes one cell on every side.
	innerW, innerH := canvasW-2, canvasH-2
	x1 := 1 + r.X*innerW/desk.Width
	y1 := 1 + r.Y*innerH/desk.Height
	x2 := 1 + (r.X+r.Width)*innerW/desk.Width - 1
	y2 := 1 + (r.Y+r.Height)*innerH/desk.Height - 1

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a frame
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			switch {
			case y == y1 || y == y2:
				canvas[y][x] = '─'
			case x == x1 || x == x2:
				canvas[y][x] = '│'
			default:
				canvas[y][x] = ' '
			}
		}
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Label goes in the title bar, clipped to the frame.
	for i, ch := range []rune(label) {
		x := x1 + 1 + i
		if x >= x2 {
			break
		}
		canvas[y1][x] = ch
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
