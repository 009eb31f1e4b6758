package geom

import (
	"fmt"
	"math"
)

const (
	// MinSize is the smallest width or height a crop rectangle may have.
	MinSize = 20.0

	// HandleTolerance is how far, per axis, a point may be from a handle anchor
	// and still hit it.
	HandleTolerance = 15.0
)

// Handle names the part of a crop rectangle a drag acts on.
type Handle string

// Handle values. HandleNone is the zero value and means "no hit".
const (
	HandleNone Handle = ""
	HandleNW   Handle = "nw"
	HandleN    Handle = "n"
	HandleNE   Handle = "ne"
	HandleE    Handle = "e"
	HandleSE   Handle = "se"
	HandleS    Handle = "s"
	HandleSW   Handle = "sw"
	HandleW    Handle = "w"
	HandleMove Handle = "move"
)

// Handles lists the eight resize handles in hit-test order.
var Handles = [8]Handle{HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW}

// ParseHandle converts a handle name to a Handle.
func ParseHandle(s string) (Handle, error) {
	h := Handle(s)
	if h == HandleMove {
		return h, nil
	}
	for _, known := range Handles {
		if h == known {
			return h, nil
		}
	}
	return HandleNone, fmt.Errorf("unknown handle: %q", s)
}

// Resizes reports whether h changes the rect's size (every handle except move).
func (h Handle) Resizes() bool {
	return h != HandleNone && h != HandleMove
}

func (h Handle) movesTop() bool    { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) movesBottom() bool { return h == HandleSW || h == HandleS || h == HandleSE }
func (h Handle) movesLeft() bool   { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) movesRight() bool  { return h == HandleNE || h == HandleE || h == HandleSE }

// Anchor is the position of a handle on a rect.
type Anchor struct {
	Handle Handle
	Point  Point
}

// Anchors returns the eight handle positions of r in hit-test order.
func Anchors(r Rect) [8]Anchor {
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	right, bottom := r.Right(), r.Bottom()
	return [8]Anchor{
		{HandleNW, Point{r.X, r.Y}},
		{HandleN, Point{cx, r.Y}},
		{HandleNE, Point{right, r.Y}},
		{HandleE, Point{right, cy}},
		{HandleSE, Point{right, bottom}},
		{HandleS, Point{cx, bottom}},
		{HandleSW, Point{r.X, bottom}},
		{HandleW, Point{r.X, cy}},
	}
}

// Constraints carries the tunables of the crop geometry.
type Constraints struct {
	MinSize   float64 // smallest allowed width and height
	Tolerance float64 // per-axis handle hit distance
}

// DefaultConstraints returns MinSize and HandleTolerance.
func DefaultConstraints() Constraints {
	return Constraints{MinSize: MinSize, Tolerance: HandleTolerance}
}

func (c Constraints) normalized() Constraints {
	if c.MinSize <= 0 {
		c.MinSize = MinSize
	}
	if c.Tolerance < 0 {
		c.Tolerance = HandleTolerance
	}
	return c
}

// HitTest returns the handle of r under p, HandleMove for an interior point,
// or HandleNone. Handles win over the interior.
func (c Constraints) HitTest(r Rect, p Point) Handle {
	c = c.normalized()
	for _, a := range Anchors(r) {
		if math.Abs(p.X-a.Point.X) <= c.Tolerance && math.Abs(p.Y-a.Point.Y) <= c.Tolerance {
			return a.Handle
		}
	}
	if r.Contains(p) {
		return HandleMove
	}
	return HandleNone
}

// ApplyDrag computes the rect produced by dragging handle h of start by
// (dx, dy). Each axis is clamped to MinSize independently: the edge opposite
// the dragged one stays where it was at drag start.
func (c Constraints) ApplyDrag(start Rect, h Handle, dx, dy float64) Rect {
	c = c.normalized()
	r := start

	switch {
	case h == HandleMove:
		return start.Translate(dx, dy)
	case h == HandleNone:
		return start
	}

	if h.movesTop() {
		r.Y = start.Y + dy
		r.Height = start.Height - dy
	}
	if h.movesBottom() {
		r.Height = start.Height + dy
	}
	if h.movesLeft() {
		r.X = start.X + dx
		r.Width = start.Width - dx
	}
	if h.movesRight() {
		r.Width = start.Width + dx
	}

	if r.Width < c.MinSize {
		if h.movesLeft() {
			r.X = start.Right() - c.MinSize
		}
		r.Width = c.MinSize
	}
	if r.Height < c.MinSize {
		if h.movesTop() {
			r.Y = start.Bottom() - c.MinSize
		}
		r.Height = c.MinSize
	}
	return r
}

// ClampTo keeps r inside a bounds-sized canvas anchored at the origin.
// A moved rect is translated back inside; a resized rect has its dragged
// edges trimmed. The result still honours MinSize when the bounds allow it.
func (c Constraints) ClampTo(r Rect, h Handle, width, height float64) Rect {
	c = c.normalized()
	if h == HandleMove {
		r.X = clamp(r.X, 0, math.Max(0, width-r.Width))
		r.Y = clamp(r.Y, 0, math.Max(0, height-r.Height))
		return r
	}

	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.Right() > width {
		r.Width = width - r.X
	}
	if r.Bottom() > height {
		r.Height = height - r.Y
	}

	if r.Width < c.MinSize {
		r.Width = math.Min(c.MinSize, width)
		if r.Right() > width {
			r.X = width - r.Width
		}
	}
	if r.Height < c.MinSize {
		r.Height = math.Min(c.MinSize, height)
		if r.Bottom() > height {
			r.Y = height - r.Height
		}
	}
	return r
}

// Fit makes an arbitrary rect valid on a width x height canvas: sizes are
// raised to MinSize and capped at the canvas, then the rect is translated
// back inside. NaN sizes count as undersized and a NaN origin becomes 0.
func (c Constraints) Fit(r Rect, width, height float64) Rect {
	c = c.normalized()
	if !(r.Width >= c.MinSize) {
		r.Width = c.MinSize
	}
	if !(r.Height >= c.MinSize) {
		r.Height = c.MinSize
	}
	if math.IsNaN(r.X) {
		r.X = 0
	}
	if math.IsNaN(r.Y) {
		r.Y = 0
	}
	if width > 0 && height > 0 {
		r.Width = math.Min(r.Width, width)
		r.Height = math.Min(r.Height, height)
		r = c.ClampTo(r, HandleMove, width, height)
	}
	return r
}

// HitTest is [Constraints.HitTest] with the default constraints.
func HitTest(r Rect, p Point) Handle {
	return DefaultConstraints().HitTest(r, p)
}

// ApplyDrag is [Constraints.ApplyDrag] with the default constraints.
func ApplyDrag(start Rect, h Handle, dx, dy float64) Rect {
	return DefaultConstraints().ApplyDrag(start, h, dx, dy)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
