package editor

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/imageio"
	"github.com/matzehuels/cropkit/pkg/observability"
	"github.com/matzehuels/cropkit/pkg/render"
)

// BackgroundRemover is the external background-removal service. It receives
// the base image as base64-encoded PNG and returns the processed image in the
// same encoding with its content type.
type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, imageBase64 string) (processedBase64, contentType string, err error)
}

// Status is the state of the single background-removal slot.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// removal is the background-removal slot. gen increases whenever a pending
// result stops being wanted, so a late reply can be recognised and dropped.
type removal struct {
	status Status
	err    error
	gen    uint64
}

func (r *removal) reset() {
	r.status = StatusIdle
	r.err = nil
}

// RemoveBackground sends the base image to the configured
// [BackgroundRemover] and installs the result as the new base image. The call
// blocks until the service answers; meanwhile other actions that change the
// image or crop state fail with INVALID_STATE. On failure the bitmap,
// rectangle and padding are left untouched, an Error event is emitted and the
// error is returned. There is no retry.
func (e *Editor) RemoveBackground(ctx context.Context) error {
	e.mu.Lock()
	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if e.remover == nil {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeUnsupported, "background removal is not configured")
	}
	payload, err := imageio.EncodeBase64PNG(e.base)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.sess.Close()
	e.removal.gen++
	gen := e.removal.gen
	e.removal.status = StatusPending
	e.removal.err = nil
	e.mu.Unlock()

	e.logger.Debug("background removal started")
	observability.Editor().OnBackgroundRemovalStart(ctx)
	start := time.Now()

	result, err := e.callRemover(ctx, payload)
	observability.Editor().OnBackgroundRemovalComplete(ctx, time.Since(start), err)

	e.mu.Lock()
	if e.removal.gen != gen {
		e.mu.Unlock()
		e.logger.Debug("background removal result discarded")
		return errors.New(errors.ErrCodeInvalidState, "editor closed during background removal")
	}
	if err == nil && e.cropMode {
		err = e.checkCropCanvasLocked(result)
	}
	if err != nil {
		e.removal.status = StatusFailed
		e.removal.err = err
		e.mu.Unlock()
		e.logger.Debug("background removal failed", "error", err)
		e.events.Error(errors.UserMessage(err))
		return err
	}
	e.removal.status = StatusSucceeded
	e.setBaseLocked(result)
	b := result.Bounds()
	e.logger.Debug("background removed", "width", b.Dx(), "height", b.Dy(), "padding", e.pad)
	e.mu.Unlock()
	return nil
}

func (e *Editor) callRemover(ctx context.Context, payload string) (image.Image, error) {
	processed, contentType, err := e.remover.RemoveBackground(ctx, payload)
	if err != nil {
		if errors.GetCode(err) == errors.ErrCodeBackgroundRemoval {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeBackgroundRemoval, err, "background removal failed")
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, errors.New(errors.ErrCodeBackgroundRemoval, "unexpected content type %q", contentType)
	}
	decoded, err := imageio.DecodeBase64(processed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackgroundRemoval, err, "decode processed image")
	}
	b := decoded.Bounds()
	if err := render.CheckCanvas(b.Dx(), b.Dy(), e.maxSide); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackgroundRemoval, err, "processed image")
	}
	return decoded, nil
}

// checkCropCanvasLocked reports whether img, padded for crop mode, still fits
// the canvas limit.
func (e *Editor) checkCropCanvasLocked(img image.Image) error {
	b := img.Bounds()
	pad := e.padding.Padding(b.Dx(), b.Dy())
	w, h := render.Scene{Image: img, CropMode: true, Padding: pad}.CanvasSize()
	if err := render.CheckCanvas(w, h, e.maxSide); err != nil {
		return errors.Wrap(errors.ErrCodeBackgroundRemoval, err, "processed image in crop mode")
	}
	return nil
}
