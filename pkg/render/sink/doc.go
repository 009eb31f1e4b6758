// Package sink turns a [render.Plan] into output formats.
//
// # Overview
//
// A "sink" executes the paint operations of a plan against a concrete
// backend:
//
//   - PNG: rasterized with fogleman/gg ([Render], [RenderPNG])
//   - SVG: a standalone document with the image embedded ([RenderSVG])
//   - JSON: the plan's geometry for external view layers ([RenderJSON])
//
// Every call starts from an empty surface, so rendering the same plan twice
// produces identical output.
//
// # PNG Output
//
//	img, err := sink.Render(plan)
//	data, err := sink.RenderPNG(plan, sink.WithBackground(color.White))
//
// Canvas allocation and encoding failures are reported as
// CANVAS_UNAVAILABLE errors and never yield partial output.
//
// [render.Plan]: github.com/matzehuels/cropkit/pkg/render.Plan
package sink
