package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cropkit/pkg/compose"
	"github.com/matzehuels/cropkit/pkg/imageio"
	"github.com/matzehuels/cropkit/pkg/integrations"
)

// =============================================================================
// crop
// =============================================================================

type cropOpts struct {
	output string
	square bool
	rect   rectFlags
}

func (c *CLI) cropCommand() *cobra.Command {
	var opts cropOpts

	cmd := &cobra.Command{
		Use:   "crop <image>",
		Short: "Crop an image to a rectangle",
		Long: `Crop an image to a rectangle given in image pixels. The rectangle may
extend past the image edges by up to the crop padding; uncovered pixels stay
transparent. With --square the crop is fitted into the output square.`,
		Example: `  cropkit crop photo.jpg --x 40 --y 20 --width 300 --height 200
  cropkit crop photo.jpg --x -30 --y -30 --width 460 --height 360 --square -o avatar.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrop(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <image>_crop.png)")
	cmd.Flags().BoolVar(&opts.square, "square", false, "fit the crop into the output square")
	opts.rect.register(cmd)
	return cmd
}

func (c *CLI) runCrop(cmd *cobra.Command, input string, opts *cropOpts) error {
	ctx := cmd.Context()
	e, err := c.loadEditor(ctx, input)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.ToggleCrop(); err != nil {
		return err
	}
	s := e.State()
	want := opts.rect.canvasRect(s.Width, s.Height, s.Padding)
	got, err := e.SetRect(want)
	if err != nil {
		return err
	}
	if got != want {
		printWarning(c.out, "Crop adjusted to %s (canvas %dx%d)", got, s.CanvasWidth, s.CanvasHeight)
	}

	data, err := e.ApplyCrop(ctx)
	if err != nil {
		return err
	}
	cropped := e.State()
	if opts.square {
		if data, err = e.Confirm(ctx); err != nil {
			return err
		}
	}

	path := outputPath(opts.output, input, "_crop", formatPNG)
	if err := writeOutput(path, data); err != nil {
		return err
	}
	printSuccess(c.out, "Cropped to %dx%d", cropped.Width, cropped.Height)
	printFile(c.out, path)
	return nil
}

// =============================================================================
// fit
// =============================================================================

type fitOpts struct {
	output string
	size   int
}

func (c *CLI) fitCommand() *cobra.Command {
	var opts fitOpts

	cmd := &cobra.Command{
		Use:   "fit <image>",
		Short: "Fit an image into a white square",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFit(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <image>_square.png)")
	cmd.Flags().IntVar(&opts.size, "size", 0, "side of the square (default from config, 200)")
	return cmd
}

func (c *CLI) runFit(cmd *cobra.Command, input string, opts *fitOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}
	size := opts.size
	if size <= 0 {
		size = cfg.OutputSize
	}

	prog := newProgress(loggerFromContext(ctx))
	img, err := imageio.Open(ctx, input, integrations.NewClient(nil, 0))
	if err != nil {
		return err
	}
	out, err := compose.FitToSquare(img, size, compose.WithMaxSide(cfg.MaxCanvasSide))
	if err != nil {
		return err
	}
	data, err := imageio.EncodePNG(out)
	if err != nil {
		return err
	}
	prog.done("Composited")

	path := outputPath(opts.output, input, "_square", formatPNG)
	if err := writeOutput(path, data); err != nil {
		return err
	}
	b := img.Bounds()
	printSuccess(c.out, "Fitted %dx%d into %dx%d", b.Dx(), b.Dy(), size, size)
	printFile(c.out, path)
	return nil
}
