package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in backing pixel space.
type Point struct {
	X, Y float64
}

// Sub returns the vector p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle in backing pixel space.
// Width and Height are non-negative once clamped.
type Rect struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// String formats the rect as {x y w h}.
func (r Rect) String() string {
	return fmt.Sprintf("{%g %g %g %g}", r.X, r.Y, r.Width, r.Height)
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Finite reports whether no field of r is NaN or infinite.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Round snaps r to whole pixels. Width and height are rounded independently of
// the origin so a rect never loses a pixel to rounding on both edges.
func (r Rect) Round() image.Rectangle {
	x := int(math.Round(r.X))
	y := int(math.Round(r.Y))
	w := int(math.Round(r.Width))
	h := int(math.Round(r.Height))
	return image.Rect(x, y, x+w, y+h)
}

// FromImage returns the rect covering an image of the given size placed at
// (offset, offset).
func FromImage(width, height int, offset float64) Rect {
	return Rect{X: offset, Y: offset, Width: float64(width), Height: float64(height)}
}
