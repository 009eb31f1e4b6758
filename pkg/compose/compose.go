package compose

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/render"
)

// DefaultSize is the side of the confirmed output square.
const DefaultSize = 200

// Option configures [Apply] and [FitToSquare].
type Option func(*options)

type options struct {
	maxSide int
	filter  imaging.ResampleFilter
}

// WithMaxSide limits either output dimension.
func WithMaxSide(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSide = n
		}
	}
}

// WithFilter sets the resampling filter used by [FitToSquare]. The default
// is Lanczos.
func WithFilter(f imaging.ResampleFilter) Option {
	return func(o *options) { o.filter = f }
}

func newOptions(opts []Option) options {
	o := options{maxSide: render.MaxCanvasSide, filter: imaging.Lanczos}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Apply extracts the part of src under rect, where rect is expressed in the
// padded canvas space used while cropping. The rectangle is rounded to whole
// pixels first.
func Apply(src image.Image, rect geom.Rect, padding int, opts ...Option) (*image.NRGBA, error) {
	o := newOptions(opts)
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image to crop")
	}
	r := rect.Round()
	if err := render.CheckCanvas(r.Dx(), r.Dy(), o.maxSide); err != nil {
		return nil, err
	}

	dst := imaging.New(r.Dx(), r.Dy(), color.NRGBA{})
	offset := image.Pt(padding-r.Min.X, padding-r.Min.Y)
	return imaging.Paste(dst, src, offset), nil
}

// FitToSquare scales src to fit a size x size canvas filled white and
// centers it. The scaled image keeps src's aspect ratio within rounding.
func FitToSquare(src image.Image, size int, opts ...Option) (*image.NRGBA, error) {
	o := newOptions(opts)
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image to compose")
	}
	if err := render.CheckCanvas(size, size, o.maxSide); err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeCanvasUnavailable, "source image is empty")
	}

	w, h := FitSize(b.Dx(), b.Dy(), size)
	scaled := imaging.Resize(src, w, h, o.filter)

	dst := imaging.New(size, size, color.White)
	pos := image.Pt((size-w)/2, (size-h)/2)
	return imaging.Overlay(dst, scaled, pos, 1.0), nil
}

// FitSize returns the dimensions of a w x h image scaled by
// min(size/w, size/h), rounded and at least one pixel.
func FitSize(w, h, size int) (int, int) {
	scale := math.Min(float64(size)/float64(w), float64(size)/float64(h))
	sw := max(1, int(math.Round(float64(w)*scale)))
	sh := max(1, int(math.Round(float64(h)*scale)))
	return min(sw, size), min(sh, size)
}
