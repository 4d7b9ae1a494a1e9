package tiling

import (
	"math"

	"github.com/1broseidon/progman/internal/geometry"
)

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Cell is one slot of a tile grid together with the window frame placed in it.
type Cell struct {
	Row   int
	Col   int
	Cell  geometry.Rect // full grid cell
	Frame geometry.Rect // cell shrunk by the inset
}

// TilePositions splits area into a cols×rows grid of equal cells and assigns
// window i to cell i in row-major order. Trailing cells of an incomplete last
// row stay empty; windows are never stretched to fill them.
//
// inset is subtracted from each frame's width and height so neighbouring
// window borders do not touch. Cells are laid out with integer division, so
// any remainder pixels are left unused on the right and bottom.
func TilePositions(numWindows int, area geometry.Rect, inset int) []Cell {
	if numWindows <= 0 {
		return nil
	}

	rows, cols := CalculateGrid(numWindows)
	cellWidth := area.Width / cols
	cellHeight := area.Height / rows

	frameWidth := cellWidth - inset
	frameHeight := cellHeight - inset
	if frameWidth < 1 {
		frameWidth = 1
	}
	if frameHeight < 1 {
		frameHeight = 1
	}

	cells := make([]Cell, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		x := area.X + col*cellWidth
		y := area.Y + row*cellHeight
		cells[i] = Cell{
			Row:   row,
			Col:   col,
			Cell:  geometry.Rect{X: x, Y: y, Width: cellWidth, Height: cellHeight},
			Frame: geometry.Rect{X: x, Y: y, Width: frameWidth, Height: frameHeight},
		}
	}

	return cells
}

// Stagger describes a diagonal arrangement: position i is Base + i*Step on
// both axes, wrapping back to Base after Wrap positions (0 means no wrap).
type Stagger struct {
	Base geometry.Point
	Step int
	Wrap int
}

// At returns the i-th staggered position.
func (s Stagger) At(i int) geometry.Point {
	if s.Wrap > 0 {
		i %= s.Wrap
	}
	offset := i * s.Step
	return geometry.Point{X: s.Base.X + offset, Y: s.Base.Y + offset}
}

// CascadePositions returns numWindows staggered positions.
func CascadePositions(numWindows int, s Stagger) []geometry.Point {
	if numWindows <= 0 {
		return nil
	}
	positions := make([]geometry.Point, numWindows)
	for i := range positions {
		positions[i] = s.At(i)
	}
	return positions
}

// WorkArea returns the part of the desktop available to windows: the full
// desktop minus a strip along the bottom reserved for minimized-window icons.
func WorkArea(desktop geometry.Size, iconStrip int) geometry.Rect {
	area := geometry.Rect{X: 0, Y: 0, Width: desktop.Width, Height: desktop.Height - iconStrip}

	if area.Width < 1 {
		area.Width = 1
	}
	if area.Height < 1 {
		area.Height = 1
	}

	return area
}
