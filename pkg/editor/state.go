package editor

import (
	"image"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/render"
	"github.com/matzehuels/cropkit/pkg/render/sink"
	"github.com/matzehuels/cropkit/pkg/session"
)

// Snapshot is a copy of the editor state at one instant.
type Snapshot struct {
	Loaded       bool
	Closed       bool
	Source       string // reference of the last loaded image, empty for LoadImage
	Width        int    // base image size
	Height       int
	CropMode     bool
	Rect         geom.Rect // meaningful only in crop mode
	Padding      int
	CanvasWidth  int
	CanvasHeight int
	Dragging     bool
	Handle       geom.Handle
	Removal      Status
	RemovalErr   error
}

// Processing reports whether a background removal is pending.
func (s Snapshot) Processing() bool { return s.Removal == StatusPending }

// State returns a snapshot of the editor.
func (e *Editor) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Closed:     e.closed,
		Source:     e.source,
		CropMode:   e.cropMode,
		Padding:    e.pad,
		Removal:    e.removal.status,
		RemovalErr: e.removal.err,
	}
	if e.base == nil {
		return s
	}
	b := e.base.Bounds()
	s.Loaded = true
	s.Width, s.Height = b.Dx(), b.Dy()
	s.CanvasWidth, s.CanvasHeight = e.canvasLocked(e.cropMode)
	s.Rect = e.sess.Rect()
	s.Dragging = e.sess.State() == session.Dragging
	s.Handle = e.sess.Handle()
	return s
}

// Plan returns the paint description of the current canvas.
func (e *Editor) Plan() (render.Plan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.base == nil {
		return render.Plan{}, errors.New(errors.ErrCodeCanvasUnavailable, "no image loaded")
	}
	scene := render.Scene{
		Image:    e.base,
		CropMode: e.cropMode,
		Rect:     e.sess.Rect(),
		Padding:  e.pad,
		Busy:     e.removal.status == StatusPending,
	}
	return render.Build(scene, render.WithStyle(e.style), render.WithMaxCanvasSide(e.maxSide))
}

// Render paints the current canvas.
func (e *Editor) Render(opts ...sink.PNGOption) (image.Image, error) {
	plan, err := e.Plan()
	if err != nil {
		return nil, err
	}
	return sink.Render(plan, opts...)
}
