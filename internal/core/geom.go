// Package core provides the engine-neutral building blocks shared by the
// games and the terminal platform: geometry, input frames and the screen
// buffer. It has no Bubble Tea imports so game logic stays testable.
package core

import "math"

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport maps a pixel-space world onto a block of screen cells.
// OffsetY leaves rows free for a HUD.
type Viewport struct {
	WorldW, WorldH float64
	Cols, Rows     int
	OffsetY        int
}

// NewViewport creates a viewport for a world of the given pixel size drawn
// into a cols x rows area that starts at row offsetY.
func NewViewport(worldW, worldH float64, cols, rows, offsetY int) Viewport {
	return Viewport{WorldW: worldW, WorldH: worldH, Cols: cols, Rows: rows, OffsetY: offsetY}
}

// scale returns the cells-per-pixel factors, zero for a degenerate viewport.
func (v Viewport) scale() (float64, float64) {
	if v.WorldW <= 0 || v.WorldH <= 0 || v.Cols <= 0 || v.Rows <= 0 {
		return 0, 0
	}
	return float64(v.Cols) / v.WorldW, float64(v.Rows) / v.WorldH
}

// Project converts a pixel rectangle to screen cells.
// Anything with a positive size keeps at least one cell in each direction.
func (v Viewport) Project(x, y, w, h float64) Rect {
	sx, sy := v.scale()
	if sx == 0 {
		return Rect{}
	}
	cx := int(math.Floor(x * sx))
	cy := int(math.Floor(y*sy)) + v.OffsetY
	cw := int(math.Round(w * sx))
	ch := int(math.Round(h * sy))
	if w > 0 && cw < 1 {
		cw = 1
	}
	if h > 0 && ch < 1 {
		ch = 1
	}
	return NewRect(cx, cy, cw, ch)
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
