// Package geom implements the crop rectangle geometry used by the image editor.
//
// All values live in backing pixel space: the pixel grid of the padded editing
// canvas, not its on-screen size. Rectangles are float64 because pointer input
// mapped from CSS pixels is fractional; they are rounded only when a crop is
// baked into a bitmap.
//
// # Handles
//
// A crop rectangle exposes eight resize handles, one at each corner and one at
// each edge midpoint, named by compass direction:
//
//	nw ---- n ---- ne
//	|              |
//	w     move     e
//	|              |
//	sw ---- s ---- se
//
// [HitTest] checks the handles first and only then the interior, so a point
// near a corner always resizes rather than moves.
//
// # Dragging
//
// [ApplyDrag] recomputes a rectangle from the snapshot taken when the drag
// started plus the total pointer delta. It never accumulates per-event deltas,
// so the result depends only on the start rectangle and the current pointer.
// Sizes below the minimum are clamped by pinning the edge that is not being
// dragged:
//
//	r := geom.Rect{X: 120, Y: 120, Width: 400, Height: 300}
//	r = geom.ApplyDrag(r, geom.HandleSE, 50, -10) // {120 120 450 290}
//
// # Padding
//
// While cropping, the image is drawn with a margin so the rectangle can extend
// past the image edges. [Padding] sizes that margin from the image dimensions.
package geom
