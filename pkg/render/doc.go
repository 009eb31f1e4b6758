// Package render describes what the editing canvas looks like as a list of
// paint operations.
//
// # Overview
//
// Rendering is split in two steps. [Build] is pure: it takes a [Scene] (the
// current bitmap plus crop state) and returns a [Plan], a canvas size and an
// ordered list of [Op] values. The [sink] subpackage turns a plan into
// pixels (PNG via fogleman/gg), an SVG document, or JSON for a view layer.
// Because a plan is rebuilt from scratch for every frame, painting the same
// scene twice always yields the same pixels.
//
// # Crop Mode
//
// Outside crop mode the canvas has the size of the image and the plan holds a
// single image op. In crop mode the canvas grows by the padding on every side
// and the plan draws, in order:
//
//   - the image at (padding, padding)
//   - four mask bands covering everything outside the crop rectangle
//   - a dashed border around the rectangle
//   - eight square handles at the rectangle's anchors
//
// A pending background removal adds a veil over the whole canvas.
//
//	plan, err := render.Build(render.Scene{
//	    Image:    img,
//	    CropMode: true,
//	    Rect:     geom.Rect{X: 120, Y: 120, Width: 400, Height: 300},
//	    Padding:  120,
//	})
//	png, err := sink.RenderPNG(plan)
//
// [sink]: github.com/matzehuels/cropkit/pkg/render/sink
package render
