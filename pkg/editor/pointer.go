package editor

import (
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/pointer"
)

// Box returns an identity box for the current canvas, for hosts that deliver
// events already in backing pixels.
func (e *Editor) Box() pointer.Box {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pointer.Identity(e.canvasLocked(e.cropMode))
}

// Hover returns the handle under the pointer without starting a drag.
func (e *Editor) Hover(ev pointer.Event, box pointer.Box) geom.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.acceptsPointerLocked() {
		return geom.HandleNone
	}
	return e.sess.Hover(pointer.ToCanvasPixels(ev, box))
}

// PointerDown starts a drag when the event hits a handle or the interior of
// the crop rectangle. It returns the handle grabbed, or HandleNone when the
// event was ignored or missed.
func (e *Editor) PointerDown(ev pointer.Event, box pointer.Box) geom.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.acceptsPointerLocked() {
		return geom.HandleNone
	}
	p := pointer.ToCanvasPixels(ev, box)
	h, started := e.sess.PointerDown(p)
	if !started {
		return geom.HandleNone
	}
	e.logger.Debug("drag started", "handle", h, "at", p)
	return h
}

// PointerMove updates the rectangle of an active drag. It reports false when
// no drag is active.
func (e *Editor) PointerMove(ev pointer.Event, box pointer.Box) (geom.Rect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.acceptsPointerLocked() {
		return e.rectLocked(), false
	}
	return e.sess.PointerMove(pointer.ToCanvasPixels(ev, box))
}

// PointerUp ends the active drag and returns the resulting rectangle.
func (e *Editor) PointerUp() geom.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return geom.Rect{}
	}
	r := e.sess.PointerUp()
	e.logger.Debug("drag ended", "rect", r)
	return r
}

// PointerCancel ends the active drag the same way as [Editor.PointerUp].
func (e *Editor) PointerCancel() geom.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return geom.Rect{}
	}
	return e.sess.PointerCancel()
}

func (e *Editor) acceptsPointerLocked() bool {
	return !e.closed && e.cropMode && e.sess != nil && e.removal.status != StatusPending
}

func (e *Editor) rectLocked() geom.Rect {
	if e.sess == nil {
		return geom.Rect{}
	}
	return e.sess.Rect()
}
