package editor

import (
	"context"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cropkit/pkg/compose"
	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/imageio"
	"github.com/matzehuels/cropkit/pkg/observability"
	"github.com/matzehuels/cropkit/pkg/render"
	"github.com/matzehuels/cropkit/pkg/session"
)

// Editor is the crop tool controller.
type Editor struct {
	logger      *log.Logger
	events      Events
	remover     BackgroundRemover
	fetcher     imageio.Fetcher
	binder      session.Binder
	constraints geom.Constraints
	padding     geom.PaddingRule
	style       render.Style
	maxSide     int
	outputSize  int

	mu       sync.Mutex
	source   string
	original image.Image
	base     image.Image
	pad      int
	cropMode bool
	sess     *session.Session
	removal  removal
	closed   bool
}

// Option configures an [Editor].
type Option func(*Editor)

// WithLogger sets the logger for state transitions. The default discards
// everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEvents sets the receiver of confirm, close and error events.
func WithEvents(ev Events) Option {
	return func(e *Editor) {
		if ev != nil {
			e.events = ev
		}
	}
}

// WithBackgroundRemover enables [Editor.RemoveBackground].
func WithBackgroundRemover(r BackgroundRemover) Option {
	return func(e *Editor) { e.remover = r }
}

// WithFetcher sets the client used to load http(s) image sources.
func WithFetcher(f imageio.Fetcher) Option {
	return func(e *Editor) { e.fetcher = f }
}

// WithBinder sets the listener binder acquired while a drag is active.
func WithBinder(b session.Binder) Option {
	return func(e *Editor) {
		if b != nil {
			e.binder = b
		}
	}
}

// WithConstraints overrides the minimum crop size and handle tolerance.
func WithConstraints(c geom.Constraints) Option {
	return func(e *Editor) { e.constraints = c }
}

// WithPaddingRule overrides how the crop-mode margin is sized.
func WithPaddingRule(p geom.PaddingRule) Option {
	return func(e *Editor) { e.padding = p }
}

// WithStyle overrides the overlay style used by [Editor.Plan].
func WithStyle(s render.Style) Option {
	return func(e *Editor) { e.style = s }
}

// WithMaxCanvasSide limits the canvas and every bitmap the editor creates.
func WithMaxCanvasSide(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.maxSide = n
		}
	}
}

// WithOutputSize sets the side of the confirmed square. The default is
// [compose.DefaultSize].
func WithOutputSize(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.outputSize = n
		}
	}
}

// New returns an editor with no image loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger:      log.New(io.Discard),
		events:      NopEvents,
		binder:      session.NopBinder,
		constraints: geom.DefaultConstraints(),
		padding:     geom.DefaultPaddingRule,
		style:       render.DefaultStyle(),
		maxSide:     render.MaxCanvasSide,
		outputSize:  compose.DefaultSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// Loading
// =============================================================================

// Load decodes the image ref points to (a data URL, an http(s) URL or a file
// path) and installs it as both the original and the base image. On failure
// the editor keeps whatever it held before and an Error event is emitted.
func (e *Editor) Load(ctx context.Context, ref string) error {
	if err := e.checkIdle(); err != nil {
		return err
	}

	start := time.Now()
	img, err := imageio.Open(ctx, ref, e.fetcher)
	if err != nil {
		observability.Editor().OnLoad(ctx, ref, 0, 0, time.Since(start), err)
		e.logger.Debug("load failed", "source", ref, "error", err)
		e.events.Error(errors.UserMessage(err))
		return err
	}
	if err := e.install(ctx, ref, img); err != nil {
		observability.Editor().OnLoad(ctx, ref, 0, 0, time.Since(start), err)
		e.events.Error(errors.UserMessage(err))
		return err
	}

	b := img.Bounds()
	observability.Editor().OnLoad(ctx, ref, b.Dx(), b.Dy(), time.Since(start), nil)
	return nil
}

// LoadImage installs an already decoded image as the original and base image.
func (e *Editor) LoadImage(ctx context.Context, img image.Image) error {
	if err := e.checkIdle(); err != nil {
		return err
	}
	var err error = errors.New(errors.ErrCodeImageLoad, "no image")
	if img != nil {
		err = e.install(ctx, "", img)
	}
	if err != nil {
		e.logger.Debug("load failed", "error", err)
		e.events.Error(errors.UserMessage(err))
	}
	return err
}

func (e *Editor) install(ctx context.Context, ref string, img image.Image) error {
	b := img.Bounds()
	if err := render.CheckCanvas(b.Dx(), b.Dy(), e.maxSide); err != nil {
		return errors.Wrap(errors.ErrCodeImageLoad, err, "image %dx%d cannot be edited", b.Dx(), b.Dy())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usableLocked(); err != nil {
		return err
	}
	e.source = ref
	e.original = img
	e.cropMode = false
	e.removal.reset()
	e.setBaseLocked(img)
	e.logger.Debug("image loaded", "width", b.Dx(), "height", b.Dy(), "padding", e.pad)
	return nil
}

// setBaseLocked replaces the base bitmap, recomputes the padding and reseeds
// the crop rectangle.
func (e *Editor) setBaseLocked(img image.Image) {
	b := img.Bounds()
	e.base = img
	e.pad = e.padding.Padding(b.Dx(), b.Dy())

	rect := geom.FromImage(b.Dx(), b.Dy(), float64(e.pad))
	cw, ch := e.canvasLocked(true)
	if e.sess == nil {
		e.sess = session.New(rect, float64(cw), float64(ch),
			session.WithConstraints(e.constraints), session.WithBinder(e.binder))
		return
	}
	e.sess.Reset(rect, float64(cw), float64(ch))
}

// =============================================================================
// Crop mode
// =============================================================================

// ToggleCrop enters or leaves crop mode and reports the new mode. Entering
// always seeds the rectangle at the full image; leaving ends any drag but
// keeps the rectangle in memory.
func (e *Editor) ToggleCrop() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return e.cropMode, err
	}

	if e.cropMode {
		e.sess.Close()
		e.cropMode = false
		e.logger.Debug("crop mode off", "rect", e.sess.Rect())
		return false, nil
	}

	cw, ch := e.canvasLocked(true)
	if err := render.CheckCanvas(cw, ch, e.maxSide); err != nil {
		return false, err
	}
	b := e.base.Bounds()
	e.sess.Reset(geom.FromImage(b.Dx(), b.Dy(), float64(e.pad)), float64(cw), float64(ch))
	e.cropMode = true
	e.logger.Debug("crop mode on", "canvas", [2]int{cw, ch}, "rect", e.sess.Rect())
	return true, nil
}

// SetRect replaces the crop rectangle, for hosts that take a numeric
// selection instead of pointer input. The rectangle is in canvas pixels and
// is adjusted to the minimum size and the canvas bounds; the installed
// rectangle is returned.
func (e *Editor) SetRect(r geom.Rect) (geom.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return geom.Rect{}, err
	}
	if !e.cropMode {
		return e.sess.Rect(), errors.New(errors.ErrCodeInvalidState, "crop mode is off")
	}
	if !r.Finite() {
		return e.sess.Rect(), errors.New(errors.ErrCodeInvalidInput, "crop rectangle %s is not finite", r)
	}
	return e.sess.SetRect(r), nil
}

// Nudge drags handle h of the crop rectangle by (dx, dy) canvas pixels in one
// step, with the same minimum size and canvas clamping as a pointer drag.
// It returns the resulting rectangle.
func (e *Editor) Nudge(h geom.Handle, dx, dy float64) (geom.Rect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return geom.Rect{}, err
	}
	if !e.cropMode {
		return e.sess.Rect(), errors.New(errors.ErrCodeInvalidState, "crop mode is off")
	}
	if h == geom.HandleNone || math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return e.sess.Rect(), errors.New(errors.ErrCodeInvalidInput, "cannot nudge handle %q by (%g, %g)", h, dx, dy)
	}
	r := e.sess.Nudge(h, dx, dy)
	e.logger.Debug("nudged", "handle", h, "rect", r)
	return r, nil
}

// ApplyCrop bakes the crop rectangle into a new base image and leaves crop
// mode. It returns the PNG encoding of the new base image, which has the
// rectangle's size. Nothing changes when cropping or encoding fails.
func (e *Editor) ApplyCrop(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return nil, err
	}
	if !e.cropMode {
		return nil, errors.New(errors.ErrCodeInvalidState, "crop mode is off")
	}

	rect := e.sess.Rect()
	cropped, err := compose.Apply(e.base, rect, e.pad, compose.WithMaxSide(e.maxSide))
	if err != nil {
		return nil, err
	}
	data, err := imageio.EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	e.sess.Close()
	e.cropMode = false
	e.setBaseLocked(cropped)
	b := cropped.Bounds()
	e.logger.Debug("crop applied", "rect", rect, "width", b.Dx(), "height", b.Dy(), "padding", e.pad)
	observability.Editor().OnCropApplied(ctx, b.Dx(), b.Dy())
	return data, nil
}

// ResetToOriginal discards every derived bitmap and reinstalls the image
// that was loaded last.
func (e *Editor) ResetToOriginal(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	e.sess.Close()
	e.cropMode = false
	e.removal.reset()
	e.setBaseLocked(e.original)
	e.logger.Debug("reset to original", "source", e.source, "padding", e.pad)
	return nil
}

// =============================================================================
// Output
// =============================================================================

// Confirm fits the base image into the output square, encodes it as PNG and
// emits a Confirmed event with the bytes.
func (e *Editor) Confirm(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	base, size := e.base, e.outputSize
	e.mu.Unlock()

	out, err := compose.FitToSquare(base, size, compose.WithMaxSide(e.maxSide))
	if err != nil {
		return nil, err
	}
	data, err := imageio.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("confirmed", "size", size, "bytes", len(data))
	observability.Editor().OnConfirm(ctx, size, len(data))
	e.events.Confirmed(data, imageio.MIMEPNG)
	return data, nil
}

// Cancel tears the editor down and emits a Closed event. Later calls are
// no-ops.
func (e *Editor) Cancel() {
	if e.teardown() {
		e.logger.Debug("cancelled")
		e.events.Closed()
	}
}

// Close tears the editor down without emitting an event: any drag is ended
// and its listeners released, and a pending background removal result will
// be discarded. It is safe to call more than once.
func (e *Editor) Close() {
	e.teardown()
}

func (e *Editor) teardown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	if e.sess != nil {
		e.sess.Close()
	}
	e.closed = true
	e.removal.gen++
	return true
}

// =============================================================================
// State
// =============================================================================

// Image returns the current base image, or nil before the first load.
func (e *Editor) Image() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.base
}

// checkIdle rejects loads while the editor is closed or busy.
func (e *Editor) checkIdle() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.usableLocked()
}

func (e *Editor) usableLocked() error {
	if e.closed {
		return errors.New(errors.ErrCodeInvalidState, "editor is closed")
	}
	if e.removal.status == StatusPending {
		return errors.New(errors.ErrCodeInvalidState, "background removal in progress")
	}
	return nil
}

// mutableLocked rejects actions that need a loaded image.
func (e *Editor) mutableLocked() error {
	if err := e.usableLocked(); err != nil {
		return err
	}
	if e.base == nil {
		return errors.New(errors.ErrCodeInvalidState, "no image loaded")
	}
	return nil
}

// canvasLocked returns the canvas size in or out of crop mode.
func (e *Editor) canvasLocked(cropMode bool) (int, int) {
	return render.Scene{Image: e.base, CropMode: cropMode, Padding: e.pad}.CanvasSize()
}
