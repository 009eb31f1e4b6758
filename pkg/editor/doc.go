// Package editor orchestrates the image crop tool.
//
// An [Editor] owns the base bitmap and drives the other packages around it:
//
//	Load ──> (RemoveBackground) ──> ToggleCrop ──> pointer events ──> ApplyCrop ──> Confirm
//	                                     │                                 │
//	                                     └──────── ResetToOriginal <───────┘
//
// Every time a new base bitmap is installed (load, background removal, applied
// crop, reset) the crop padding is recomputed and the crop rectangle is
// reseeded to cover the whole image at the padding offset.
//
// # Pointer input
//
// Hosts forward pointer and touch events together with the on-screen box of
// the canvas. The editor maps them into backing pixels with
// [pointer.ToCanvasPixels] and feeds them to a [session.Session]. Input is
// ignored while crop mode is off or a background removal is pending.
//
// # Background removal
//
// [Editor.RemoveBackground] calls an external [BackgroundRemover] without
// holding the editor lock. While the call is pending the editor rejects
// every action that would change the bitmap or the crop state with an
// INVALID_STATE error, and [Editor.Plan] draws a veil over the canvas. A
// failed call leaves the bitmap, rectangle and padding exactly as they were.
//
// # Events
//
// Results reach the host through [Events]: Confirmed carries the final PNG
// bytes, Closed follows [Editor.Cancel], and Error reports load and
// background-removal failures. Events are delivered after the editor lock is
// released, so handlers may call back into the editor.
//
// An Editor is safe for concurrent use.
package editor
