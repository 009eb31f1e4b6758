// Package session implements the pointer interaction state machine of the
// crop tool.
//
// A [Session] owns the current crop rectangle and, while a drag is active, the
// handle being dragged plus the pointer position and rectangle captured when
// the drag started. It has two states:
//
//	Idle --(PointerDown on a handle or the interior)--> Dragging
//	Dragging --(PointerMove)--> Dragging
//	Dragging --(PointerUp | PointerCancel | Close)--> Idle
//
// # Listener scope
//
// While a drag is active the host has to route global move and up events to
// the session. The session acquires that routing through a [Binder] when a
// drag begins and releases it on every path that ends the drag, including
// cancellation and [Session.Close]. A session never holds more than one
// acquisition at a time.
//
// A Session is not safe for concurrent use; callers serialize access.
package session

import (
	"github.com/matzehuels/cropkit/pkg/geom"
)

// State is the interaction state of a [Session].
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Dragging means a handle or the interior is being dragged.
	Dragging
)

// String returns "idle" or "dragging".
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// drag is the per-interaction state, discarded when the drag ends.
type drag struct {
	handle      geom.Handle
	start       geom.Point
	rectAtStart geom.Rect
	release     func()
}

// Session is the crop interaction state machine.
type Session struct {
	constraints geom.Constraints
	binder      Binder
	width       float64
	height      float64

	rect geom.Rect
	drag *drag
}

// Option configures a [Session].
type Option func(*Session)

// WithConstraints overrides the minimum size and handle tolerance.
func WithConstraints(c geom.Constraints) Option {
	return func(s *Session) { s.constraints = c }
}

// WithBinder sets the listener binder used while dragging.
func WithBinder(b Binder) Option {
	return func(s *Session) {
		if b != nil {
			s.binder = b
		}
	}
}

// New returns an idle session holding rect on a canvas of the given size.
func New(rect geom.Rect, width, height float64, opts ...Option) *Session {
	s := &Session{
		constraints: geom.DefaultConstraints(),
		binder:      NopBinder,
		width:       width,
		height:      height,
		rect:        rect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether a drag is active.
func (s *Session) State() State {
	if s.drag != nil {
		return Dragging
	}
	return Idle
}

// Rect returns the current crop rectangle.
func (s *Session) Rect() geom.Rect { return s.rect }

// Handle returns the handle being dragged, or HandleNone when idle.
func (s *Session) Handle() geom.Handle {
	if s.drag == nil {
		return geom.HandleNone
	}
	return s.drag.handle
}

// Bounds returns the canvas size the rectangle is kept inside.
func (s *Session) Bounds() (width, height float64) { return s.width, s.height }

// Reset ends any active drag and installs a new rectangle and canvas size.
func (s *Session) Reset(rect geom.Rect, width, height float64) {
	s.endDrag()
	s.rect = rect
	s.width, s.height = width, height
}

// SetRect ends any active drag and replaces the rectangle with r made valid
// for the canvas. It returns the rectangle actually installed.
func (s *Session) SetRect(r geom.Rect) geom.Rect {
	s.endDrag()
	s.rect = s.constraints.Fit(r, s.width, s.height)
	return s.rect
}

// Nudge ends any active drag and moves handle h by (dx, dy) as one complete
// drag would, without hit-testing. Keyboard hosts use it to target a handle
// that a pointer press could not pick out on a small rectangle.
func (s *Session) Nudge(h geom.Handle, dx, dy float64) geom.Rect {
	s.endDrag()
	r := s.constraints.ApplyDrag(s.rect, h, dx, dy)
	if s.width > 0 && s.height > 0 {
		r = s.constraints.ClampTo(r, h, s.width, s.height)
	}
	s.rect = r
	return r
}

// Hover returns the handle under p without changing state. Hosts use it to
// pick a cursor.
func (s *Session) Hover(p geom.Point) geom.Handle {
	return s.constraints.HitTest(s.rect, p)
}

// PointerDown starts a drag when p hits a handle or the interior of the
// rectangle. It returns the hit handle and whether a drag started. A press
// while already dragging is ignored.
func (s *Session) PointerDown(p geom.Point) (geom.Handle, bool) {
	if s.drag != nil {
		return s.drag.handle, false
	}
	h := s.constraints.HitTest(s.rect, p)
	if h == geom.HandleNone {
		return h, false
	}
	s.drag = &drag{
		handle:      h,
		start:       p,
		rectAtStart: s.rect,
		release:     s.binder.Bind(),
	}
	return h, true
}

// PointerMove recomputes the rectangle from the drag-start snapshot and the
// total pointer delta. It reports false and leaves the rectangle untouched
// when no drag is active.
func (s *Session) PointerMove(p geom.Point) (geom.Rect, bool) {
	if s.drag == nil {
		return s.rect, false
	}
	d := p.Sub(s.drag.start)
	r := s.constraints.ApplyDrag(s.drag.rectAtStart, s.drag.handle, d.X, d.Y)
	if s.width > 0 && s.height > 0 {
		r = s.constraints.ClampTo(r, s.drag.handle, s.width, s.height)
	}
	s.rect = r
	return r, true
}

// PointerUp ends the drag and keeps the last computed rectangle.
func (s *Session) PointerUp() geom.Rect {
	s.endDrag()
	return s.rect
}

// PointerCancel ends the drag the same way as [Session.PointerUp].
func (s *Session) PointerCancel() geom.Rect {
	s.endDrag()
	return s.rect
}

// Close ends any active drag and releases its listeners. It is safe to call
// more than once.
func (s *Session) Close() {
	s.endDrag()
}

func (s *Session) endDrag() {
	if s.drag == nil {
		return
	}
	release := s.drag.release
	s.drag = nil
	if release != nil {
		release()
	}
}
