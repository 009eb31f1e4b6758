package sink

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/matzehuels/cropkit/pkg/render"
)

type jsonOutput struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Ops    []jsonOp `json:"ops"`
}

type jsonOp struct {
	Kind      string    `json:"kind"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Fill      string    `json:"fill,omitempty"`
	Stroke    string    `json:"stroke,omitempty"`
	LineWidth float64   `json:"line_width,omitempty"`
	Dash      []float64 `json:"dash,omitempty"`
	Handle    string    `json:"handle,omitempty"`
}

// RenderJSON exports the plan's geometry and colors. Image pixels are not
// included; image ops only carry their placement.
func RenderJSON(p render.Plan) ([]byte, error) {
	out := jsonOutput{Width: p.Width, Height: p.Height, Ops: make([]jsonOp, 0, len(p.Ops))}
	for _, op := range p.Ops {
		out.Ops = append(out.Ops, jsonOp{
			Kind:      string(op.Kind),
			X:         op.Rect.X,
			Y:         op.Rect.Y,
			Width:     op.Rect.Width,
			Height:    op.Rect.Height,
			Fill:      cssColor(op.Fill),
			Stroke:    cssColor(op.Stroke),
			LineWidth: op.LineWidth,
			Dash:      op.Dash,
			Handle:    string(op.Handle),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func cssColor(c color.NRGBA) string {
	if c == (color.NRGBA{}) {
		return ""
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.R, c.G, c.B, float64(c.A)/255)
}
