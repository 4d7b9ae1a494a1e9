package geometry

// Point is a position on the desktop in pixels. The origin is the top-left
// corner of the work area; coordinates may be negative.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width and height in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Fits reports whether s is at least min on both axes.
func (s Size) Fits(min Size) bool {
	return s.Width >= min.Width && s.Height >= min.Height
}

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectOf builds a Rect from a position and a size.
func RectOf(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Position returns the top-left corner.
func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the width and height.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Right returns the x coordinate of the east edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate of the south edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// ClampSize raises each axis of size to at least min. It never shrinks.
func ClampSize(size, min Size) Size {
	if size.Width < min.Width {
		size.Width = min.Width
	}
	if size.Height < min.Height {
		size.Height = min.Height
	}
	return size
}
