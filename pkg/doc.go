// Package pkg provides the libraries behind cropkit, an interactive image
// crop and composition engine.
//
// # Overview
//
// An image is loaded into an editor, optionally cropped with an
// eight-handle rectangle drawn over a padded canvas, optionally sent to a
// background-removal service, and finally fitted into a fixed-size white
// square. The packages are layered so that the geometry can be used without
// any of the I/O:
//
//  1. [geom] - crop rectangle math: handles, hit-testing, drag, padding
//  2. [pointer] - mapping mouse and touch positions to canvas pixels
//  3. [session] - one crop interaction: drag state and listener lifetime
//  4. [render] - the canvas as an ordered list of paint operations
//  5. [compose] - baking crops and fitting images into the output square
//  6. [editor] - the controller tying the above together
//
// # Data Flow
//
//	image source (file, URL, data URL)
//	         ↓
//	    [imageio] (decode)
//	         ↓
//	    [editor] (crop mode, drags, apply, reset)
//	         ↓              ↘
//	    [compose]        [integrations/bgremove] (optional)
//	         ↓
//	    PNG bytes, delivered through a Confirmed event
//
// # Quick Start
//
//	e := editor.New(editor.WithEvents(editor.EventFuncs{
//	    OnConfirmed: func(data []byte, mime string) { os.WriteFile("out.png", data, 0o644) },
//	}))
//	defer e.Close()
//
//	_ = e.Load(ctx, "photo.jpg")
//	_, _ = e.ToggleCrop()
//	box := e.Box()
//	e.PointerDown(pointer.Event{ClientX: 520, ClientY: 420}, box)
//	e.PointerMove(pointer.Event{ClientX: 570, ClientY: 410}, box)
//	e.PointerUp()
//	_, _ = e.ApplyCrop(ctx)
//	_, _ = e.Confirm(ctx)
//
// # Supporting Packages
//
// [config] loads the TOML settings file. [cache] stores background-removal
// results on disk. [observability] exposes hooks for logging and metrics.
// [errors] defines the coded errors every package returns. [buildinfo]
// carries version information injected at link time.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/geom
// [pointer]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/pointer
// [session]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/session
// [render]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/render
// [compose]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/compose
// [editor]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/editor
// [imageio]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/imageio
// [integrations/bgremove]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/integrations/bgremove
// [config]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cropkit/pkg/buildinfo
package pkg
