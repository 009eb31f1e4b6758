package geom

import "math"

// PaddingRule sizes the crop-mode margin from the longer image side.
type PaddingRule struct {
	Ratio float64 // fraction of the longer side
	Min   int     // lower bound in pixels
	Max   int     // upper bound in pixels
}

// DefaultPaddingRule is 30% of the longer side, kept within [80, 300].
var DefaultPaddingRule = PaddingRule{Ratio: 0.3, Min: 80, Max: 300}

// Padding returns clamp(round(max(width, height) * Ratio), Min, Max).
// Halves round up; a 250px side at 0.3 yields 75, raised to the 80px floor.
func (p PaddingRule) Padding(width, height int) int {
	if p.Ratio <= 0 || p.Max < p.Min {
		p = DefaultPaddingRule
	}
	v := int(math.Floor(float64(max(width, height))*p.Ratio + 0.5))
	return min(max(v, p.Min), p.Max)
}

// Padding is [PaddingRule.Padding] with [DefaultPaddingRule].
func Padding(width, height int) int {
	return DefaultPaddingRule.Padding(width, height)
}
