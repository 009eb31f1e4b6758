package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/editor"
	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/imageio"
	"github.com/matzehuels/cropkit/pkg/pointer"
)

// Replay actions.
const (
	actionToggleCrop = "toggle-crop"
	actionDown       = "down"
	actionMove       = "move"
	actionUp         = "up"
	actionCancel     = "cancel"
	actionSetRect    = "set-rect"
	actionApplyCrop  = "apply-crop"
	actionReset      = "reset"
	actionRemoveBg   = "remove-bg"
	actionConfirm    = "confirm"
)

// script is a recorded editing session.
//
//	[screen]
//	left = 10
//	top = 10
//	scale = 0.5   # on-screen pixels per canvas pixel
//
//	[[steps]]
//	action = "toggle-crop"
//
//	[[steps]]
//	action = "down"
//	x = 270
//	y = 220
//
//	[[steps]]
//	action = "move"
//	source = "touch"
//	touches = [{ x = 295, y = 215 }]
type script struct {
	Screen screen `toml:"screen"`
	Steps  []step `toml:"steps"`
}

// screen places the canvas on screen. Pointer coordinates in steps are
// client coordinates relative to it.
type screen struct {
	Left  float64 `toml:"left"`
	Top   float64 `toml:"top"`
	Scale float64 `toml:"scale"`
}

type step struct {
	Action  string               `toml:"action"`
	Source  string               `toml:"source"`
	X       float64              `toml:"x"`
	Y       float64              `toml:"y"`
	Width   float64              `toml:"width"`
	Height  float64              `toml:"height"`
	Touches []pointer.TouchPoint `toml:"touches"`
}

func (s screen) box(width, height int) pointer.Box {
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	return pointer.Box{
		Left:          s.Left,
		Top:           s.Top,
		Width:         float64(width) * scale,
		Height:        float64(height) * scale,
		BackingWidth:  width,
		BackingHeight: height,
	}
}

func (s step) event() pointer.Event {
	ev := pointer.Event{ClientX: s.X, ClientY: s.Y, Touches: s.Touches}
	if strings.EqualFold(s.Source, "touch") {
		ev.Source = pointer.Touch
	}
	return ev
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read script %s", path)
	}
	return parseScript(data)
}

func parseScript(data []byte) (*script, error) {
	var sc script
	md, err := toml.Decode(string(data), &sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown script key %s", undecoded[0])
	}
	for i, s := range sc.Steps {
		if !validAction(s.Action) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "step %d: unknown action %q", i+1, s.Action)
		}
	}
	return &sc, nil
}

func validAction(a string) bool {
	switch a {
	case actionToggleCrop, actionDown, actionMove, actionUp, actionCancel, actionSetRect,
		actionApplyCrop, actionReset, actionRemoveBg, actionConfirm:
		return true
	}
	return false
}

// play runs every step against e, logging one line per step to w.
func (sc *script) play(ctx context.Context, e *editor.Editor, w io.Writer) error {
	for i, s := range sc.Steps {
		if err := sc.apply(ctx, e, s); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Action, err)
		}
		st := e.State()
		detail := fmt.Sprintf("%-12s image %dx%d", s.Action, st.Width, st.Height)
		if st.CropMode {
			detail += fmt.Sprintf("  rect %s", st.Rect)
		}
		if st.Dragging {
			detail += fmt.Sprintf("  dragging %s", st.Handle)
		}
		printDetail(w, "%s", detail)
	}
	return nil
}

func (sc *script) apply(ctx context.Context, e *editor.Editor, s step) error {
	st := e.State()
	box := sc.Screen.box(st.CanvasWidth, st.CanvasHeight)

	var err error
	switch s.Action {
	case actionToggleCrop:
		_, err = e.ToggleCrop()
	case actionDown:
		e.PointerDown(s.event(), box)
	case actionMove:
		e.PointerMove(s.event(), box)
	case actionUp:
		e.PointerUp()
	case actionCancel:
		e.PointerCancel()
	case actionSetRect:
		_, err = e.SetRect(geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height})
	case actionApplyCrop:
		_, err = e.ApplyCrop(ctx)
	case actionReset:
		err = e.ResetToOriginal(ctx)
	case actionRemoveBg:
		err = e.RemoveBackground(ctx)
	case actionConfirm:
		_, err = e.Confirm(ctx)
	}
	return err
}

// =============================================================================
// replay command
// =============================================================================

func (c *CLI) replayCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "replay <image> <script.toml>",
		Short: "Replay recorded pointer events and editor actions",
		Long: `Replay a TOML script of pointer and touch events and editor actions
(toggle-crop, down, move, up, cancel, set-rect, apply-crop, reset, remove-bg,
confirm) against an image. The last confirmed output is written, or the
current image when the script never confirms.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd, args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <image>_replay.png)")
	return cmd
}

func (c *CLI) runReplay(cmd *cobra.Command, input, scriptPath, output string) error {
	ctx := cmd.Context()
	sc, err := loadScript(scriptPath)
	if err != nil {
		return err
	}

	var confirmed []byte
	events := editor.EventFuncs{
		OnConfirmed: func(data []byte, _ string) { confirmed = data },
	}
	e, err := c.loadEditor(ctx, input, editor.WithEvents(events))
	if err != nil {
		return err
	}
	defer e.Close()

	printInfo(c.out, "Replaying %d steps", len(sc.Steps))
	if err := sc.play(ctx, e, c.out); err != nil {
		return err
	}

	data := confirmed
	if data == nil {
		if data, err = imageio.EncodePNG(e.Image()); err != nil {
			return err
		}
	}
	path := outputPath(output, input, "_replay", formatPNG)
	if err := writeOutput(path, data); err != nil {
		return err
	}
	s := e.State()
	printSuccess(c.out, "Replayed %d steps", len(sc.Steps))
	printKeyValue(c.out, "image", fmt.Sprintf("%dx%d", s.Width, s.Height))
	printKeyValue(c.out, "confirmed", fmt.Sprintf("%t", confirmed != nil))
	printFile(c.out, path)
	return nil
}
