// Package pointer maps pointer and touch positions from screen space into the
// backing pixel space of the editing canvas.
//
// A canvas is usually displayed at a different size than its pixel buffer.
// [ToCanvasPixels] undoes that CSS-style scaling so crop geometry always works
// in backing pixels:
//
//	box := pointer.Box{Left: 10, Top: 20, Width: 320, Height: 270, BackingWidth: 640, BackingHeight: 540}
//	p := pointer.ToCanvasPixels(pointer.Event{ClientX: 170, ClientY: 155}, box) // {320 270}
package pointer

import (
	"math"

	"github.com/matzehuels/cropkit/pkg/geom"
)

// Source identifies the input device that produced an event.
type Source int

const (
	// Mouse events carry their position in ClientX and ClientY.
	Mouse Source = iota
	// Touch events carry their positions in Touches.
	Touch
)

// String returns "mouse" or "touch".
func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "mouse"
}

// TouchPoint is a single contact of a multi-touch event.
type TouchPoint struct {
	ClientX float64 `toml:"x"`
	ClientY float64 `toml:"y"`
}

// Event is a pointer or touch event in client (on-screen) coordinates.
type Event struct {
	Source  Source
	ClientX float64
	ClientY float64
	Touches []TouchPoint
}

// Box describes where the canvas sits on screen and how large its pixel
// buffer is.
type Box struct {
	Left          float64 // on-screen x of the canvas' left edge
	Top           float64 // on-screen y of the canvas' top edge
	Width         float64 // on-screen width
	Height        float64 // on-screen height
	BackingWidth  int     // pixel buffer width
	BackingHeight int     // pixel buffer height
}

// Identity returns a box whose on-screen size equals its backing size,
// placed at the origin.
func Identity(width, height int) Box {
	return Box{Width: float64(width), Height: float64(height), BackingWidth: width, BackingHeight: height}
}

// Scale returns the backing-to-screen ratio on each axis. ok is false when
// the box cannot be used for mapping.
func (b Box) Scale() (sx, sy float64, ok bool) {
	if !finite(b.Left, b.Top, b.Width, b.Height) || b.Width <= 0 || b.Height <= 0 {
		return 0, 0, false
	}
	if b.BackingWidth <= 0 || b.BackingHeight <= 0 {
		return 0, 0, false
	}
	return float64(b.BackingWidth) / b.Width, float64(b.BackingHeight) / b.Height, true
}

// Position returns the client coordinates an event refers to. The first
// touch wins when any are present. ok is false for a touch event without
// touches or for non-finite coordinates.
func (e Event) Position() (x, y float64, ok bool) {
	switch {
	case len(e.Touches) > 0:
		x, y = e.Touches[0].ClientX, e.Touches[0].ClientY
	case e.Source == Touch:
		return 0, 0, false
	default:
		x, y = e.ClientX, e.ClientY
	}
	if !finite(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// ToCanvasPixels maps ev into backing pixel space of the canvas described by
// box. It returns the zero point when no usable coordinate can be derived.
func ToCanvasPixels(ev Event, box Box) geom.Point {
	x, y, ok := ev.Position()
	if !ok {
		return geom.Point{}
	}
	sx, sy, ok := box.Scale()
	if !ok {
		return geom.Point{}
	}
	return geom.Point{X: (x - box.Left) * sx, Y: (y - box.Top) * sy}
}

// ToClient is the inverse of [ToCanvasPixels]: it returns the client
// coordinates that map onto p. Synthetic input sources use it to produce
// events for a known canvas position.
func ToClient(p geom.Point, box Box) (x, y float64) {
	sx, sy, ok := box.Scale()
	if !ok {
		return box.Left, box.Top
	}
	return box.Left + p.X/sx, box.Top + p.Y/sy
}

// At builds a mouse event positioned over canvas point p.
func At(p geom.Point, box Box) Event {
	x, y := ToClient(p, box)
	return Event{Source: Mouse, ClientX: x, ClientY: y}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
