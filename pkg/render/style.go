package render

import "image/color"

// Style holds the visual parameters of the crop overlay.
type Style struct {
	MaskColor    color.NRGBA // fill of the four bands outside the rect
	BorderColor  color.NRGBA
	BorderWidth  float64
	Dash         []float64 // on/off lengths of the border
	HandleSize   float64   // side of each square handle
	HandleFill   color.NRGBA
	HandleStroke color.NRGBA
	HandleLine   float64 // handle outline width
	VeilColor    color.NRGBA
}

// DefaultStyle returns a half-transparent black mask, a 2px dashed white
// border and 10px white handles outlined in black.
func DefaultStyle() Style {
	return Style{
		MaskColor:    color.NRGBA{A: 128},
		BorderColor:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		BorderWidth:  2,
		Dash:         []float64{6, 4},
		HandleSize:   10,
		HandleFill:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		HandleStroke: color.NRGBA{A: 255},
		HandleLine:   1,
		VeilColor:    color.NRGBA{R: 255, G: 255, B: 255, A: 160},
	}
}

// MaskAlpha converts a 0..1 opacity into the alpha of a black mask color.
func MaskAlpha(opacity float64) color.NRGBA {
	opacity = min(max(opacity, 0), 1)
	return color.NRGBA{A: uint8(opacity*255 + 0.5)}
}

func (s Style) normalized() Style {
	d := DefaultStyle()
	if s.BorderWidth <= 0 {
		s.BorderWidth = d.BorderWidth
	}
	if s.HandleSize <= 0 {
		s.HandleSize = d.HandleSize
	}
	if s.HandleLine <= 0 {
		s.HandleLine = d.HandleLine
	}
	if len(s.Dash) == 0 {
		s.Dash = d.Dash
	}
	return s
}
