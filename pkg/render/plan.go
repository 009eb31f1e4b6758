package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
)

// MaxCanvasSide is the default limit on either canvas dimension.
const MaxCanvasSide = 16384

// OpKind identifies a paint operation.
type OpKind string

const (
	OpImage  OpKind = "image"  // draw Image with its top-left at Rect.X, Rect.Y
	OpFill   OpKind = "fill"   // fill Rect with Fill
	OpBorder OpKind = "border" // stroke Rect with Stroke, LineWidth and Dash
	OpHandle OpKind = "handle" // fill Rect with Fill, then outline it with Stroke
	OpVeil   OpKind = "veil"   // fill Rect (the whole canvas) with Fill
)

// Op is a single paint operation in canvas pixel space.
type Op struct {
	Kind      OpKind
	Rect      geom.Rect
	Fill      color.NRGBA
	Stroke    color.NRGBA
	LineWidth float64
	Dash      []float64
	Handle    geom.Handle // set on OpHandle
	Image     image.Image // set on OpImage
}

// Plan is the full description of one frame.
type Plan struct {
	Width  int
	Height int
	Ops    []Op
}

// Count returns the number of ops of the given kind.
func (p Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Scene is the editor state a frame is built from.
type Scene struct {
	Image    image.Image
	CropMode bool
	Rect     geom.Rect
	Padding  int
	Busy     bool // a background removal is pending
}

// CanvasSize returns the canvas dimensions for the scene: the image size,
// grown by twice the padding in crop mode.
func (s Scene) CanvasSize() (width, height int) {
	if s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	width, height = b.Dx(), b.Dy()
	if s.CropMode {
		width += 2 * s.Padding
		height += 2 * s.Padding
	}
	return width, height
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	style   Style
	maxSide int
}

// WithStyle overrides the overlay style.
func WithStyle(s Style) Option {
	return func(b *builder) { b.style = s.normalized() }
}

// WithMaxCanvasSide overrides the canvas size limit.
func WithMaxCanvasSide(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.maxSide = n
		}
	}
}

// Build computes the paint plan for a scene. It fails with
// CANVAS_UNAVAILABLE when there is no image or the canvas would be empty or
// larger than the configured limit.
func Build(s Scene, opts ...Option) (Plan, error) {
	b := builder{style: DefaultStyle(), maxSide: MaxCanvasSide}
	for _, opt := range opts {
		opt(&b)
	}

	if s.Image == nil {
		return Plan{}, errors.New(errors.ErrCodeCanvasUnavailable, "no image to draw")
	}
	if s.Padding < 0 {
		return Plan{}, errors.New(errors.ErrCodeCanvasUnavailable, "negative padding")
	}
	w, h := s.CanvasSize()
	if err := CheckCanvas(w, h, b.maxSide); err != nil {
		return Plan{}, err
	}

	plan := Plan{Width: w, Height: h}
	offset := 0.0
	if s.CropMode {
		offset = float64(s.Padding)
	}
	ib := s.Image.Bounds()
	plan.Ops = append(plan.Ops, Op{
		Kind:  OpImage,
		Rect:  geom.Rect{X: offset, Y: offset, Width: float64(ib.Dx()), Height: float64(ib.Dy())},
		Image: s.Image,
	})

	if s.CropMode {
		r := clampRect(s.Rect, float64(w), float64(h))
		plan.Ops = append(plan.Ops, b.mask(r, float64(w), float64(h))...)
		plan.Ops = append(plan.Ops, Op{
			Kind:      OpBorder,
			Rect:      r,
			Stroke:    b.style.BorderColor,
			LineWidth: b.style.BorderWidth,
			Dash:      append([]float64(nil), b.style.Dash...),
		})
		plan.Ops = append(plan.Ops, b.handles(r)...)
	}

	if s.Busy {
		plan.Ops = append(plan.Ops, Op{
			Kind: OpVeil,
			Rect: geom.Rect{Width: float64(w), Height: float64(h)},
			Fill: b.style.VeilColor,
		})
	}
	return plan, nil
}

// CheckCanvas validates canvas dimensions against a side limit.
func CheckCanvas(width, height, maxSide int) error {
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeCanvasUnavailable,
			"canvas size %dx%d is not drawable", width, height)
	}
	if maxSide > 0 && (width > maxSide || height > maxSide) {
		return errors.New(errors.ErrCodeCanvasUnavailable,
			"canvas size %dx%d exceeds the %dpx limit", width, height, maxSide)
	}
	return nil
}

// mask returns the bands outside r: full-width top and bottom bands, and
// left and right bands spanning r's height. Empty bands are skipped.
func (b builder) mask(r geom.Rect, w, h float64) []Op {
	bands := []geom.Rect{
		{X: 0, Y: 0, Width: w, Height: r.Y},
		{X: 0, Y: r.Bottom(), Width: w, Height: h - r.Bottom()},
		{X: 0, Y: r.Y, Width: r.X, Height: r.Height},
		{X: r.Right(), Y: r.Y, Width: w - r.Right(), Height: r.Height},
	}
	ops := make([]Op, 0, len(bands))
	for _, band := range bands {
		if band.Width <= 0 || band.Height <= 0 {
			continue
		}
		ops = append(ops, Op{Kind: OpFill, Rect: band, Fill: b.style.MaskColor})
	}
	return ops
}

func (b builder) handles(r geom.Rect) []Op {
	size := b.style.HandleSize
	ops := make([]Op, 0, len(geom.Handles))
	for _, a := range geom.Anchors(r) {
		ops = append(ops, Op{
			Kind:      OpHandle,
			Handle:    a.Handle,
			Rect:      geom.Rect{X: a.Point.X - size/2, Y: a.Point.Y - size/2, Width: size, Height: size},
			Fill:      b.style.HandleFill,
			Stroke:    b.style.HandleStroke,
			LineWidth: b.style.HandleLine,
		})
	}
	return ops
}

// clampRect keeps r inside the canvas so no band gets a negative size.
func clampRect(r geom.Rect, w, h float64) geom.Rect {
	x0 := min(max(r.X, 0), w)
	y0 := min(max(r.Y, 0), h)
	x1 := min(max(r.Right(), x0), w)
	y1 := min(max(r.Bottom(), y0), h)
	return geom.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
