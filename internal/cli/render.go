package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/editor"
	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/geom"
	"github.com/matzehuels/cropkit/pkg/imageio"
	"github.com/matzehuels/cropkit/pkg/render/sink"
)

const (
	formatPNG  = "png"
	formatSVG  = "svg"
	formatJSON = "json"
)

var validFormats = map[string]bool{formatPNG: true, formatSVG: true, formatJSON: true}

// rectFlags is a crop rectangle given in image pixels. Zero width or height
// means "to the image edge".
type rectFlags struct {
	x, y          float64
	width, height float64
}

func (r *rectFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&r.x, "x", 0, "left edge of the crop, in image pixels (may be negative)")
	cmd.Flags().Float64Var(&r.y, "y", 0, "top edge of the crop, in image pixels (may be negative)")
	cmd.Flags().Float64Var(&r.width, "width", 0, "crop width (default: to the right image edge)")
	cmd.Flags().Float64Var(&r.height, "height", 0, "crop height (default: to the bottom image edge)")
}

func (r rectFlags) set(cmd *cobra.Command) bool {
	for _, name := range []string{"x", "y", "width", "height"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// canvasRect converts the flags to a canvas rect for an image of size w x h
// shown with the given padding.
func (r rectFlags) canvasRect(w, h, padding int) geom.Rect {
	width, height := r.width, r.height
	if width <= 0 {
		width = float64(w) - r.x
	}
	if height <= 0 {
		height = float64(h) - r.y
	}
	p := float64(padding)
	return geom.Rect{X: r.x + p, Y: r.y + p, Width: width, Height: height}
}

// =============================================================================
// preview
// =============================================================================

type previewOpts struct {
	output string
	format string
	scale  float64
	rect   rectFlags
}

func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{format: formatPNG, scale: 1}

	cmd := &cobra.Command{
		Use:   "preview <image>",
		Short: "Render the crop-mode canvas with mask, border and handles",
		Long: `Render the canvas the editor shows in crop mode: the image inside its
padding, the dimmed mask outside the crop rectangle, the dashed border and
the eight handles. The rectangle defaults to the whole image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png', 'svg', or 'json')", opts.format)
			}
			return c.runPreview(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <image>_preview.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, svg, json")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "scale factor for png output")
	opts.rect.register(cmd)
	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, opts *previewOpts) error {
	ctx := cmd.Context()
	e, err := c.loadEditor(ctx, input)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.ToggleCrop(); err != nil {
		return err
	}
	if opts.rect.set(cmd) {
		s := e.State()
		if _, err := e.SetRect(opts.rect.canvasRect(s.Width, s.Height, s.Padding)); err != nil {
			return err
		}
	}

	plan, err := e.Plan()
	if err != nil {
		return err
	}
	var data []byte
	switch opts.format {
	case formatSVG:
		data, err = sink.RenderSVG(plan)
	case formatJSON:
		data, err = sink.RenderJSON(plan)
	default:
		data, err = sink.RenderPNG(plan, sink.WithScale(opts.scale))
	}
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, "_preview", opts.format)
	if err := writeOutput(path, data); err != nil {
		return err
	}
	s := e.State()
	printSuccess(c.out, "Preview %dx%d, crop %s", plan.Width, plan.Height, s.Rect)
	printFile(c.out, path)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// loadEditor builds an editor and loads input into it.
func (c *CLI) loadEditor(ctx context.Context, input string, opts ...editor.Option) (*editor.Editor, error) {
	e, err := c.newEditor(ctx, opts...)
	if err != nil {
		return nil, err
	}
	prog := newProgress(loggerFromContext(ctx))
	if err := e.Load(ctx, input); err != nil {
		return nil, err
	}
	s := e.State()
	prog.done(fmt.Sprintf("Loaded %dx%d image", s.Width, s.Height))
	return e, nil
}

// outputPath returns output when set, otherwise a file in the working
// directory named after input.
func outputPath(output, input, suffix, ext string) string {
	if output != "" {
		return output
	}
	base := "image"
	if !imageio.IsDataURL(input) && !strings.Contains(input, "://") {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return base + suffix + "." + ext
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
