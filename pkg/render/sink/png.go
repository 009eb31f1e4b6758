package sink

import (
	"bytes"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/render"
)

// PNGOption configures raster rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background color.Color
	scale      float64
	maxSide    int
}

// WithBackground fills the canvas before painting. The default is
// transparent.
func WithBackground(c color.Color) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// WithScale renders at a multiple of the plan's size, e.g. 0.5 for a
// thumbnail.
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithMaxSide limits either output dimension.
func WithMaxSide(n int) PNGOption {
	return func(r *pngRenderer) {
		if n > 0 {
			r.maxSide = n
		}
	}
}

// Render paints the plan onto a fresh surface and returns it.
func Render(p render.Plan, opts ...PNGOption) (image.Image, error) {
	r := pngRenderer{scale: 1, maxSide: render.MaxCanvasSide}
	for _, opt := range opts {
		opt(&r)
	}
	dc, err := r.paint(p)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG paints the plan and encodes the result as PNG.
func RenderPNG(p render.Plan, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1, maxSide: render.MaxCanvasSide}
	for _, opt := range opts {
		opt(&r)
	}
	dc, err := r.paint(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanvasUnavailable, err, "encode canvas")
	}
	return buf.Bytes(), nil
}

func (r pngRenderer) paint(p render.Plan) (*gg.Context, error) {
	w := int(float64(p.Width)*r.scale + 0.5)
	h := int(float64(p.Height)*r.scale + 0.5)
	if err := render.CheckCanvas(w, h, r.maxSide); err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	if r.background != nil {
		dc.SetColor(r.background)
		dc.Clear()
	}
	if r.scale != 1 {
		dc.Scale(r.scale, r.scale)
	}

	for _, op := range p.Ops {
		switch op.Kind {
		case render.OpImage:
			if op.Image != nil {
				dc.DrawImage(op.Image, int(op.Rect.X), int(op.Rect.Y))
			}
		case render.OpFill, render.OpVeil:
			dc.SetColor(op.Fill)
			dc.DrawRectangle(op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height)
			dc.Fill()
		case render.OpBorder:
			dc.SetColor(op.Stroke)
			dc.SetLineWidth(op.LineWidth)
			dc.SetLineCapButt()
			dc.SetDash(op.Dash...)
			dc.DrawRectangle(op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height)
			dc.Stroke()
			dc.SetDash()
		case render.OpHandle:
			dc.DrawRectangle(op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height)
			dc.SetColor(op.Fill)
			dc.FillPreserve()
			dc.SetColor(op.Stroke)
			dc.SetLineWidth(op.LineWidth)
			dc.Stroke()
		}
	}
	return dc, nil
}
