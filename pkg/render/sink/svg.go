package sink

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	imageHref string
}

// WithImageHref references the image by URL or path instead of embedding
// it as a base64 PNG.
func WithImageHref(href string) SVGOption {
	return func(r *svgRenderer) { r.imageHref = href }
}

// RenderSVG writes the plan as a standalone SVG document.
func RenderSVG(p render.Plan, opts ...SVGOption) ([]byte, error) {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	if err := render.CheckCanvas(p.Width, p.Height, 0); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		p.Width, p.Height, p.Width, p.Height)

	for _, op := range p.Ops {
		switch op.Kind {
		case render.OpImage:
			href, err := r.href(op)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, `  <image x="%g" y="%g" width="%g" height="%g" href="%s"/>`+"\n",
				op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height, href)
		case render.OpFill, render.OpVeil:
			fmt.Fprintf(&buf, `  <rect class="%s" x="%g" y="%g" width="%g" height="%g" %s/>`+"\n",
				op.Kind, op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height, fillAttrs(op.Fill))
		case render.OpBorder:
			fmt.Fprintf(&buf, `  <rect class="border" x="%g" y="%g" width="%g" height="%g" fill="none" %s stroke-width="%g" stroke-dasharray="%s"/>`+"\n",
				op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height, strokeAttrs(op.Stroke), op.LineWidth, dashArray(op.Dash))
		case render.OpHandle:
			fmt.Fprintf(&buf, `  <rect class="handle" id="handle-%s" x="%g" y="%g" width="%g" height="%g" %s %s stroke-width="%g"/>`+"\n",
				op.Handle, op.Rect.X, op.Rect.Y, op.Rect.Width, op.Rect.Height, fillAttrs(op.Fill), strokeAttrs(op.Stroke), op.LineWidth)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r svgRenderer) href(op render.Op) (string, error) {
	if r.imageHref != "" {
		return escapeAttr(r.imageHref), nil
	}
	if op.Image == nil {
		return "", errors.New(errors.ErrCodeCanvasUnavailable, "image op without image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, op.Image, imaging.PNG); err != nil {
		return "", errors.Wrap(errors.ErrCodeCanvasUnavailable, err, "encode embedded image")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func fillAttrs(c color.NRGBA) string {
	return fmt.Sprintf(`fill="%s" fill-opacity="%s"`, hexColor(c), opacity(c))
}

func strokeAttrs(c color.NRGBA) string {
	return fmt.Sprintf(`stroke="%s" stroke-opacity="%s"`, hexColor(c), opacity(c))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(c color.NRGBA) string {
	return fmt.Sprintf("%.3g", float64(c.A)/255)
}

func dashArray(d []float64) string {
	if len(d) == 0 {
		return "none"
	}
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
